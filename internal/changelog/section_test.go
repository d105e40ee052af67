package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/devtools-ng/nevez/internal/commit"
	"github.com/devtools-ng/nevez/internal/rules"
	"github.com/stretchr/testify/assert"
)

func fixedFormatter() *Formatter {
	f := NewFormatter(commit.NewShortener(rules.MustCompileDefault()))
	f.now = func() time.Time {
		return time.Date(2022, time.April, 8, 12, 0, 0, 0, time.UTC)
	}
	return f
}

func commitsFromBriefs(briefs ...string) []*commit.Commit {
	out := make([]*commit.Commit, len(briefs))
	for i, b := range briefs {
		out[i] = &commit.Commit{Message: b}
	}
	return out
}

func TestFormat_AllSubsections(t *testing.T) {
	classified := commit.Classified{
		Additions: commitsFromBriefs("Add frobnicator"),
		Changes:   commitsFromBriefs("Update documentation"),
		Fixes:     commitsFromBriefs("Fix crash on empty input"),
	}

	got := fixedFormatter().Format(classified, "1.4.0")

	want := `## [1.4.0] - 2022-04-08
### Added

- Add frobnicator

### Changed

- Update documentation

### Fixed

- Fix crash on empty input

`
	assert.Equal(t, want, got)
}

func TestFormat_EmptySubsectionsOmitted(t *testing.T) {
	classified := commit.Classified{
		Fixes: commitsFromBriefs("Fix crash on empty input"),
	}

	got := fixedFormatter().Format(classified, "1.4.1")

	want := `## [1.4.1] - 2022-04-08
### Fixed

- Fix crash on empty input

`
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "### Added")
	assert.NotContains(t, got, "### Changed")
}

func TestFormat_EntriesSorted(t *testing.T) {
	classified := commit.Classified{
		Additions: commitsFromBriefs("Add zoo support", "Add aardvark support"),
	}

	got := fixedFormatter().Format(classified, "1.4.0")

	assert.Less(t,
		// sorted lexicographically regardless of commit order
		indexOf(t, got, "Add aardvark support"),
		indexOf(t, got, "Add zoo support"))
}

func TestFormat_BugRefsCarried(t *testing.T) {
	classified := commit.Classified{
		Fixes: []*commit.Commit{
			{Message: "Fix crash\n\nBug 1234: crash when frobnicating"},
		},
	}

	got := fixedFormatter().Format(classified, "1.4.0")
	assert.Contains(t, got, "- Fix crash (Bug 1234: crash when frobnicating)\n")
}

func TestFormat_NoCommits(t *testing.T) {
	got := fixedFormatter().Format(commit.Classified{}, "1.4.0")
	assert.Equal(t, "## [1.4.0] - 2022-04-08\n", got)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	i := strings.Index(haystack, needle)
	if i < 0 {
		t.Fatalf("%q not found in output", needle)
	}
	return i
}
