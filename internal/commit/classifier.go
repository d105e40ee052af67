package commit

import (
	"regexp"

	"github.com/devtools-ng/nevez/internal/rules"
)

// Classified groups commits into changelog buckets. The slices hold
// pointers into the backing slice handed to Classify; commits are never
// copied. A commit belongs to exactly one bucket, and commits matching
// the bump family belong to none.
type Classified struct {
	Additions []*Commit
	Changes   []*Commit
	Fixes     []*Commit
}

// Classifier partitions commits using the ordered rule families.
// It is stateless apart from its compiled patterns; Classify is a pure
// function over its input.
type Classifier struct {
	rules *rules.Compiled
}

// NewClassifier creates a classifier over the given compiled rule set.
func NewClassifier(rs *rules.Compiled) *Classifier {
	return &Classifier{rules: rs}
}

// Classify evaluates each commit's brief line against the rule families
// in fixed precedence: additions first, then fixes on the remainder,
// then bumps on what remains. Bump matches are version-bump noise and
// are excluded from every bucket; everything left becomes a change.
// A commit with no brief matches nothing and becomes a change.
func (cl *Classifier) Classify(commits []Commit) Classified {
	var out Classified
	for i := range commits {
		c := &commits[i]
		brief, ok := c.Brief()
		switch {
		case ok && matchAny(cl.rules.Addition, brief):
			out.Additions = append(out.Additions, c)
		case ok && matchAny(cl.rules.Fix, brief):
			out.Fixes = append(out.Fixes, c)
		case ok && matchAny(cl.rules.Bump, brief):
			// dropped: release mechanics, not user-visible change
		default:
			out.Changes = append(out.Changes, c)
		}
	}
	return out
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
