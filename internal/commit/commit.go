// Package commit implements the commit side of the changelog pipeline:
// parsing raw log text into commit records, classifying them into
// changelog buckets, and shortening them to display lines.
package commit

import (
	"strings"
	"time"
)

// Author identifies who wrote a commit.
type Author struct {
	Name  string
	Email string
}

// Commit is a single parsed commit. Message holds the full multi-line
// body with the leading indentation of continuation lines stripped.
// Commits are immutable once parsed.
type Commit struct {
	ID      string
	Author  Author
	Date    time.Time
	Message string
}

// Brief returns the first line of the commit message.
// The second return value is false when the message is empty.
func (c *Commit) Brief() (string, bool) {
	if c.Message == "" {
		return "", false
	}
	line, _, _ := strings.Cut(c.Message, "\n")
	return line, true
}
