package gitlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtools-ng/nevez/internal/commit"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	wt   *git.Worktree

	clock time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &testRepo{
		t:     t,
		dir:   dir,
		repo:  repo,
		wt:    wt,
		clock: time.Date(2022, time.April, 1, 12, 0, 0, 0, time.UTC),
	}
}

// commit writes a change and commits it with a strictly increasing
// author date so history order is unambiguous.
func (r *testRepo) commit(message string) plumbing.Hash {
	r.t.Helper()

	path := filepath.Join(r.dir, "file.txt")
	require.NoError(r.t, os.WriteFile(path, []byte(message), 0644))
	_, err := r.wt.Add("file.txt")
	require.NoError(r.t, err)

	r.clock = r.clock.Add(time.Hour)
	hash, err := r.wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Ana Dev",
			Email: "ana@example.org",
			When:  r.clock,
		},
	})
	require.NoError(r.t, err)
	return hash
}

// commitWithParents writes a change and commits it with explicit
// parents, for building branched and merged histories.
func (r *testRepo) commitWithParents(message string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()

	path := filepath.Join(r.dir, "file.txt")
	require.NoError(r.t, os.WriteFile(path, []byte(message), 0644))
	_, err := r.wt.Add("file.txt")
	require.NoError(r.t, err)

	r.clock = r.clock.Add(time.Hour)
	hash, err := r.wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Ana Dev",
			Email: "ana@example.org",
			When:  r.clock,
		},
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)
	return hash
}

func (r *testRepo) tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

func (r *testRepo) annotatedTag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  "Ana Dev",
			Email: "ana@example.org",
			When:  r.clock,
		},
		Message: "release " + name,
	})
	require.NoError(r.t, err)
}

func TestLatestTag(t *testing.T) {
	r := newTestRepo(t)
	first := r.commit("Initial import")
	r.tag("1.0.0", first)
	second := r.commit("Add frobnicator")
	r.tag("1.1.0", second)
	r.commit("Fix crash after release")

	tag, err := NewSource("").LatestTag(r.dir)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", tag)
}

func TestLatestTag_Annotated(t *testing.T) {
	r := newTestRepo(t)
	first := r.commit("Initial import")
	r.annotatedTag("1.0.0", first)
	r.commit("Add frobnicator")

	tag, err := NewSource("").LatestTag(r.dir)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", tag)
}

func TestLatestTag_NoTags(t *testing.T) {
	r := newTestRepo(t)
	r.commit("Initial import")

	_, err := NewSource("").LatestTag(r.dir)
	assert.Error(t, err)
}

func TestLog_SinceTag(t *testing.T) {
	r := newTestRepo(t)
	tagged := r.commit("Initial import")
	r.tag("1.0.0", tagged)
	r.commit("Add frobnicator")
	r.commit("Fix crash on empty input")

	text, err := NewSource("").Log(r.dir, "1.0.0")
	require.NoError(t, err)

	assert.Contains(t, text, "Add frobnicator")
	assert.Contains(t, text, "Fix crash on empty input")
	assert.NotContains(t, text, "Initial import")
}

// Commits merged in from a side branch are part of tag..HEAD and must
// appear in the output even though the walk reaches the tag through the
// mainline parent chain first.
func TestLog_MergedHistory(t *testing.T) {
	r := newTestRepo(t)
	base := r.commit("Initial import")
	r.tag("1.0.0", base)
	mainline := r.commit("Mainline change")
	feature := r.commitWithParents("Add feature work", base)
	r.commitWithParents("Merge feature work", mainline, feature)

	text, err := NewSource("").Log(r.dir, "1.0.0")
	require.NoError(t, err)

	assert.Contains(t, text, "Mainline change")
	assert.Contains(t, text, "Add feature work")
	assert.NotContains(t, text, "Initial import")
	// The merge commit itself stays excluded.
	assert.NotContains(t, text, "Merge feature work")
}

func TestLog_ExcludeMarker(t *testing.T) {
	r := newTestRepo(t)
	tagged := r.commit("Initial import")
	r.tag("1.0.0", tagged)
	r.commit("Squash review fixups")
	r.commit("Add frobnicator")

	text, err := NewSource("Squash").Log(r.dir, "1.0.0")
	require.NoError(t, err)

	assert.Contains(t, text, "Add frobnicator")
	assert.NotContains(t, text, "Squash review fixups")
}

func TestLog_AnnotatedSinceTag(t *testing.T) {
	r := newTestRepo(t)
	tagged := r.commit("Initial import")
	r.annotatedTag("1.0.0", tagged)
	r.commit("Add frobnicator")

	text, err := NewSource("").Log(r.dir, "1.0.0")
	require.NoError(t, err)

	assert.Contains(t, text, "Add frobnicator")
	assert.NotContains(t, text, "Initial import")
}

func TestLog_UnknownTag(t *testing.T) {
	r := newTestRepo(t)
	r.commit("Initial import")

	_, err := NewSource("").Log(r.dir, "9.9.9")
	assert.Error(t, err)
}

// The emitted text must round-trip through the commit parser, since that
// is the contract between the log source and the rest of the pipeline.
func TestLog_ParserRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	tagged := r.commit("Initial import")
	r.tag("1.0.0", tagged)
	r.commit("Add frobnicator\n\nBug 1234: frobnicate on demand\n")
	r.commit("Fix crash on empty input")

	text, err := NewSource("").Log(r.dir, "1.0.0")
	require.NoError(t, err)

	commits := commit.NewParser().Parse(text)
	require.Len(t, commits, 2)

	// Newest first, as git log prints them.
	assert.Equal(t, "Fix crash on empty input", commits[0].Message)
	assert.Equal(t, "Add frobnicator\n\nBug 1234: frobnicate on demand", commits[1].Message)
	assert.Equal(t, "Ana Dev", commits[0].Author.Name)
	assert.Equal(t, "ana@example.org", commits[0].Author.Email)
	assert.False(t, commits[0].Date.IsZero())
}

func TestRemoteURL(t *testing.T) {
	r := newTestRepo(t)
	r.commit("Initial import")

	_, err := r.repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://git.example.org/frob.git"},
	})
	require.NoError(t, err)

	url, err := NewSource("").RemoteURL(r.dir)
	require.NoError(t, err)
	assert.Equal(t, "https://git.example.org/frob.git", url)
}

func TestRemoteURL_NoOrigin(t *testing.T) {
	r := newTestRepo(t)
	r.commit("Initial import")

	_, err := NewSource("").RemoteURL(r.dir)
	assert.Error(t, err)
}

func TestOpenRepo_NotARepository(t *testing.T) {
	_, err := NewSource("").LatestTag(t.TempDir())
	assert.Error(t, err)
}
