// Package gitlog is the log source for the changelog pipeline. It uses
// the go-git library to walk commit history and resolve tags without
// requiring a git CLI installation, and renders commits in the classic
// "git log --date=rfc2822" block layout consumed by the commit parser.
package gitlog

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// dateLayout matches git's rfc2822 date format (day of month unpadded).
const dateLayout = "Mon, 2 Jan 2006 15:04:05 -0700"

// Source fetches raw commit-log text from a repository.
type Source struct {
	// ExcludeMarker skips commits whose subject begins with this
	// marker. Empty disables subject filtering.
	ExcludeMarker string
}

// NewSource creates a log source with the given subject exclusion marker.
func NewSource(excludeMarker string) *Source {
	return &Source{ExcludeMarker: excludeMarker}
}

// openRepo opens the repository at path, or the current working
// directory when path is empty. DetectDotGit walks up the directory
// tree to find the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// Log returns raw commit-log text covering all commits after sinceTag up
// to HEAD, excluding merge commits and commits whose subject begins with
// the exclusion marker. Commits reachable from the tag are excluded by
// reachability, not by stopping the walk: on a merged history the walk
// reaches the tag through one parent chain before it has visited the
// other, and stopping there would drop the merged branch's commits.
// The output uses the fixed per-commit block layout: id line, Author
// line, Date line, blank line, indented body.
func (s *Source) Log(repoPath, sinceTag string) (string, error) {
	repo, err := openRepo(repoPath)
	if err != nil {
		return "", err
	}

	since, err := resolveTagCommit(repo, sinceTag)
	if err != nil {
		return "", err
	}

	released, err := reachableFrom(repo, since)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return "", fmt.Errorf("walking history from %s: %w", head.Hash(), err)
	}
	defer iter.Close()

	var b strings.Builder
	err = iter.ForEach(func(c *object.Commit) error {
		if released[c.Hash] {
			return nil
		}
		if c.NumParents() > 1 {
			return nil
		}
		if s.ExcludeMarker != "" && strings.HasPrefix(subject(c.Message), s.ExcludeMarker) {
			return nil
		}
		writeBlock(&b, c)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking history since %s: %w", sinceTag, err)
	}
	return b.String(), nil
}

// reachableFrom returns the set of commits reachable from hash,
// including hash itself.
func reachableFrom(repo *git.Repository, hash plumbing.Hash) (map[plumbing.Hash]bool, error) {
	iter, err := repo.Log(&git.LogOptions{From: hash})
	if err != nil {
		return nil, fmt.Errorf("walking history from %s: %w", hash, err)
	}
	defer iter.Close()

	reachable := make(map[plumbing.Hash]bool)
	err = iter.ForEach(func(c *object.Commit) error {
		reachable[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history from %s: %w", hash, err)
	}
	return reachable, nil
}

// LatestTag returns the name of the most recent tag reachable from HEAD,
// the equivalent of "git describe --abbrev=0 --tags".
func (s *Source) LatestTag(repoPath string) (string, error) {
	repo, err := openRepo(repoPath)
	if err != nil {
		return "", err
	}

	tagged, err := taggedCommits(repo)
	if err != nil {
		return "", err
	}
	if len(tagged) == 0 {
		return "", fmt.Errorf("no tags found in repository")
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return "", fmt.Errorf("walking history from %s: %w", head.Hash(), err)
	}
	defer iter.Close()

	var latest string
	err = iter.ForEach(func(c *object.Commit) error {
		if name, ok := tagged[c.Hash]; ok {
			latest = name
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking history for tags: %w", err)
	}
	if latest == "" {
		return "", fmt.Errorf("no tag reachable from HEAD")
	}
	return latest, nil
}

// RemoteURL returns the first URL of the origin remote.
func (s *Source) RemoteURL(repoPath string) (string, error) {
	repo, err := openRepo(repoPath)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("resolving origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}
	return urls[0], nil
}

// resolveTagCommit resolves a tag name to the commit it points at,
// peeling annotated tag objects.
func resolveTagCommit(repo *git.Repository, tag string) (plumbing.Hash, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(tag))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving tag %q: %w", tag, err)
	}
	if tagObj, err := repo.TagObject(*hash); err == nil {
		return tagObj.Target, nil
	}
	return *hash, nil
}

// taggedCommits maps commit hashes to tag names, peeling annotated tags.
func taggedCommits(repo *git.Repository) (map[plumbing.Hash]string, error) {
	tags, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer tags.Close()

	tagged := make(map[plumbing.Hash]string)
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if tagObj, err := repo.TagObject(hash); err == nil {
			hash = tagObj.Target
		}
		tagged[hash] = ref.Name().Short()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tagged, nil
}

// writeBlock renders one commit in git-log block layout.
func writeBlock(b *strings.Builder, c *object.Commit) {
	fmt.Fprintf(b, "commit %s\n", c.Hash)
	fmt.Fprintf(b, "Author: %s <%s>\n", c.Author.Name, c.Author.Email)
	fmt.Fprintf(b, "Date:   %s\n", c.Author.When.Format(dateLayout))
	b.WriteByte('\n')
	for _, line := range strings.Split(strings.TrimRight(c.Message, "\n"), "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

func subject(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return line
}
