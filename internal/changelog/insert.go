package changelog

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// headingPattern detects existing release heading lines of the exact
// shape "## [TAG] - YYYY-MM-DD".
var headingPattern = regexp.MustCompile(`^##\s+\[[\w\-.]+\]\s+-\s+\d{4}-\d{2}-\d{2}$`)

// headingForTag matches the release heading of one specific tag.
func headingForTag(tag string) *regexp.Regexp {
	return regexp.MustCompile(`^##\s+\[` + regexp.QuoteMeta(tag) + `\]\s+-\s+\d{4}-\d{2}-\d{2}$`)
}

// Outcome describes what Insert did with the section.
type Outcome int

const (
	// Inserted means the section was placed before the first existing
	// release heading.
	Inserted Outcome = iota
	// Appended means no release heading was found and the section was
	// added at the end of the document.
	Appended
	// Skipped means a heading for the same tag already exists and the
	// document passed through unchanged.
	Skipped
)

// Insert merges section into the document and returns the merged text.
// The section is written exactly once, immediately before the first
// line matching the release heading pattern; every other byte of the
// document is preserved. If a heading for tag is already present the
// document is returned unchanged (Skipped), which makes repeated
// in-place runs idempotent. If the document has no release heading at
// all the section is appended at the end (Appended).
func Insert(document, section, tag string) (string, Outcome) {
	guard := headingForTag(tag)
	lines := strings.Split(document, "\n")

	insertAt := -1
	for i, line := range lines {
		if guard.MatchString(line) {
			return document, Skipped
		}
		if insertAt < 0 && headingPattern.MatchString(line) {
			insertAt = i
		}
	}

	var b strings.Builder
	if insertAt < 0 {
		b.WriteString(document)
		if document != "" && !strings.HasSuffix(document, "\n") {
			b.WriteByte('\n')
		}
		b.WriteString(section)
		return b.String(), Appended
	}

	for i, line := range lines {
		if i == insertAt {
			b.WriteString(section)
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String(), Inserted
}

// Update merges section into the changelog file at path. When inPlace is
// set the result is written to a sibling temporary file which then
// replaces the original via rename, so readers never observe a
// half-written document; otherwise the result goes to out and the file
// is left untouched.
func Update(path, section, tag string, inPlace bool, out io.Writer) (Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading changelog %s: %w", path, err)
	}

	merged, outcome := Insert(string(data), section, tag)

	if !inPlace {
		if _, err := io.WriteString(out, merged); err != nil {
			return outcome, fmt.Errorf("writing changelog: %w", err)
		}
		return outcome, nil
	}

	if outcome == Skipped {
		return outcome, nil
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(merged), 0644); err != nil {
		return outcome, fmt.Errorf("writing temporary changelog %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return outcome, fmt.Errorf("replacing changelog %s: %w", path, err)
	}
	return outcome, nil
}
