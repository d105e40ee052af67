package commit

import (
	"strings"

	"github.com/devtools-ng/nevez/internal/rules"
)

// Shortener reduces a commit to a single display line: the brief,
// optionally annotated with bug/issue references found in the body.
type Shortener struct {
	rules *rules.Compiled
}

// NewShortener creates a shortener using the bug-reference patterns of
// the given rule set.
func NewShortener(rs *rules.Compiled) *Shortener {
	return &Shortener{rules: rs}
}

// Shorten returns the commit's display line. The second return value is
// false when the commit has no brief (empty message). Every line of the
// message body is scanned against the bug-reference patterns; matching
// lines are joined with commas and appended in parentheses, in body
// line order.
func (s *Shortener) Shorten(c *Commit) (string, bool) {
	brief, ok := c.Brief()
	if !ok {
		return "", false
	}

	var refs []string
	for _, line := range strings.Split(c.Message, "\n") {
		if matchAny(s.rules.BugRefs, line) {
			refs = append(refs, line)
		}
	}

	if len(refs) == 0 {
		return brief, true
	}
	return brief + " (" + strings.Join(refs, ",") + ")", true
}
