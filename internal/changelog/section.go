// Package changelog renders release sections and merges them into an
// existing Markdown changelog document.
package changelog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/devtools-ng/nevez/internal/commit"
)

// Formatter renders classified commits as a dated release section.
type Formatter struct {
	shortener *commit.Shortener

	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewFormatter creates a formatter that shortens commits with the given
// shortener and stamps sections with the current date.
func NewFormatter(shortener *commit.Shortener) *Formatter {
	return &Formatter{shortener: shortener, now: time.Now}
}

// Format renders the release section for tag: a "## [tag] - YYYY-MM-DD"
// heading followed by Added, Changed and Fixed subsections. The heading
// date is the generation time, not any commit date. Subsections with no
// entries are omitted entirely.
func (f *Formatter) Format(commits commit.Classified, tag string) string {
	additions := f.shorten(commits.Additions)
	changes := f.shorten(commits.Changes)
	fixes := f.shorten(commits.Fixes)

	var b strings.Builder
	fmt.Fprintf(&b, "## [%s] - %s\n", tag, f.now().Format("2006-01-02"))
	b.WriteString(formatSection(3, "Added", additions))
	b.WriteString(formatSection(3, "Changed", changes))
	b.WriteString(formatSection(3, "Fixed", fixes))
	return b.String()
}

// shorten reduces a bucket to display lines, discarding commits with no
// brief, and sorts them lexicographically so output is deterministic
// regardless of commit order in history.
func (f *Formatter) shorten(commits []*commit.Commit) []string {
	var lines []string
	for _, c := range commits {
		if line, ok := f.shortener.Shorten(c); ok {
			lines = append(lines, line)
		}
	}
	sort.Strings(lines)
	return lines
}

// formatSection renders one Markdown subsection as a bullet list.
// Returns the empty string when there are no items.
func formatSection(level int, title string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("#", level))
	b.WriteByte(' ')
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}
