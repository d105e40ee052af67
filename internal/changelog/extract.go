package changelog

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SectionNotFoundError is returned when a changelog has no release
// section for the requested version.
type SectionNotFoundError struct {
	Path    string
	Version string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("no section for version %q in %s", e.Version, e.Path)
}

// Extract returns the body of the "## [version] - YYYY-MM-DD" section of
// the changelog at path: every line after the heading up to the next
// release heading or end of file. The heading itself is not included.
func Extract(path, version string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening changelog %s: %w", path, err)
	}
	defer f.Close()

	pattern := headingForTag(version)
	var b strings.Builder
	found := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !found {
			found = pattern.MatchString(line)
			continue
		}
		if strings.HasPrefix(line, "## ") {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading changelog %s: %w", path, err)
	}

	if !found {
		return "", &SectionNotFoundError{Path: path, Version: version}
	}
	return b.String(), nil
}
