package commit

import (
	"regexp"
	"strings"
	"time"
)

// blockMarker delimits commit blocks in raw log output. The first (empty)
// segment before the first marker is discarded.
const blockMarker = "commit "

// Date layouts accepted for the Date: header line. Git's rfc2822 format
// does not zero-pad the day of month, which the first layout tolerates;
// the second accepts dates without the leading weekday.
var dateLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
}

// Parser extracts Commit records from raw git-log text.
type Parser struct {
	patAuthor *regexp.Regexp
	patDate   *regexp.Regexp
}

// NewParser creates a parser for the fixed per-commit block layout:
// id line, "Author: Name <email>" line, "Date: <RFC 2822>" line, blank
// line, then indented message lines.
func NewParser() *Parser {
	return &Parser{
		patAuthor: regexp.MustCompile(`^Author:\s+(.+)<(.+)>$`),
		patDate:   regexp.MustCompile(`^Date:\s+(.+)$`),
	}
}

// Parse splits raw log text into blocks and returns one Commit per
// well-formed block. Blocks that fail to match the expected three-line
// header are silently skipped; a malformed entry never aborts the run.
func (p *Parser) Parse(text string) []Commit {
	segments := strings.Split(text, blockMarker)
	if len(segments) == 0 {
		return nil
	}

	var commits []Commit
	for _, segment := range segments[1:] {
		if c, ok := p.parseBlock(segment); ok {
			commits = append(commits, c)
		}
	}
	return commits
}

// parseBlock parses a single commit block. Returns false when the header
// does not match, so the caller can skip the block without emitting a
// partial commit.
func (p *Parser) parseBlock(block string) (Commit, bool) {
	lines := strings.Split(block, "\n")
	if len(lines) < 3 {
		return Commit{}, false
	}

	id := strings.TrimSpace(lines[0])
	if id == "" {
		return Commit{}, false
	}

	caps := p.patAuthor.FindStringSubmatch(lines[1])
	if caps == nil {
		return Commit{}, false
	}
	author := Author{
		Name:  strings.TrimSpace(caps[1]),
		Email: caps[2],
	}

	caps = p.patDate.FindStringSubmatch(lines[2])
	if caps == nil {
		return Commit{}, false
	}
	date, ok := parseDate(strings.TrimSpace(caps[1]))
	if !ok {
		return Commit{}, false
	}

	// Skip the blank separator, strip one leading whitespace run per
	// body line and rejoin.
	body := lines[3:]
	if len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	for i, line := range body {
		body[i] = strings.TrimLeft(line, " \t")
	}
	for len(body) > 0 && body[len(body)-1] == "" {
		body = body[:len(body)-1]
	}

	return Commit{
		ID:      id,
		Author:  author,
		Date:    date,
		Message: strings.Join(body, "\n"),
	}, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
