// Package rules holds the classification pattern tables as data.
// Each rule family is an ordered list of regular expression strings;
// precedence between families (addition before fix before bump) is owned
// by the classifier, precedence inside a family follows list order.
package rules

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Set is the declarative form of the rule tables. A commit brief matches a
// family if any expression of that family matches it. BugRefs patterns are
// matched against every line of the commit body by the shortener.
type Set struct {
	Addition []string `yaml:"addition"`
	Fix      []string `yaml:"fix"`
	Bump     []string `yaml:"bump"`
	BugRefs  []string `yaml:"bug_refs"`
}

// Compiled is a Set with all expressions compiled, ready for the
// classifier and shortener.
type Compiled struct {
	Addition []*regexp.Regexp
	Fix      []*regexp.Regexp
	Bump     []*regexp.Regexp
	BugRefs  []*regexp.Regexp
}

// Default returns the built-in rule tables. The addition and fix families
// accept a case-insensitive prefix verb, optionally behind a
// "<file-or-tool>: " prefix. The bump family matches version-bump noise
// such as "Bump version to 1.2.3" or "Kick off 1.3".
func Default() Set {
	return Set{
		Addition: []string{
			`^([Aa]dd(?:ed)?|[Nn]ew)\s+.+$`,
			`^.+:\s+([Aa]dd(?:ed)?|[Nn]ew)\s+.+$`,
		},
		Fix: []string{
			`^[Ff]ix(?:ed)?\s+.+$`,
			`^.+\s+[Ff]ix(?:ed)?\s+.+$`,
		},
		Bump: []string{
			`^[Kk]ick off\s+.+$`,
			`^(?:configure|meson|CMakeLists|version):\s+[Kk]ick off\s+.+$`,
			`^[Bb]ump(?:ed)?\s+version.+$`,
			`^(?:configure|meson|CMakeLists|version):\s+[Bb]ump(?:ed)?\s+version\s.+$`,
			`^(version|VERSION):\s+[Bb]ump(?:ed)?.+$`,
		},
		BugRefs: []string{
			`^Bug\s\d+:.*`,
			`^JIRA:\s\w+`,
			`^CS\d+`,
		},
	}
}

// RuleError reports an invalid pattern in a rule family with enough
// context to locate it in a rules file.
type RuleError struct {
	Family  string
	Index   int
	Pattern string
	Err     error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s[%d]: invalid pattern %q: %v", e.Family, e.Index, e.Pattern, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Load reads a YAML rules file and merges it over the defaults.
// A family present and non-empty in the file replaces the built-in family
// wholesale; absent families keep their defaults. The merged set is
// compile-checked before being returned.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("reading rules file %s: %w", path, err)
	}

	var overrides Set
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Set{}, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	merged := Merge(Default(), overrides)
	if _, err := merged.Compile(); err != nil {
		return Set{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	return merged, nil
}

// Merge overlays non-empty families of overrides onto base.
func Merge(base, overrides Set) Set {
	if len(overrides.Addition) > 0 {
		base.Addition = overrides.Addition
	}
	if len(overrides.Fix) > 0 {
		base.Fix = overrides.Fix
	}
	if len(overrides.Bump) > 0 {
		base.Bump = overrides.Bump
	}
	if len(overrides.BugRefs) > 0 {
		base.BugRefs = overrides.BugRefs
	}
	return base
}

// Compile compiles every family, preserving order. The first invalid
// pattern aborts with a RuleError naming the family and index.
func (s Set) Compile() (*Compiled, error) {
	c := &Compiled{}
	families := []struct {
		name     string
		patterns []string
		dst      *[]*regexp.Regexp
	}{
		{"addition", s.Addition, &c.Addition},
		{"fix", s.Fix, &c.Fix},
		{"bump", s.Bump, &c.Bump},
		{"bug_refs", s.BugRefs, &c.BugRefs},
	}

	for _, f := range families {
		for i, p := range f.patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, &RuleError{Family: f.name, Index: i, Pattern: p, Err: err}
			}
			*f.dst = append(*f.dst, re)
		}
	}
	return c, nil
}

// MustCompileDefault compiles the built-in tables. The built-in patterns
// are constants, so a failure here is a programmer error.
func MustCompileDefault() *Compiled {
	c, err := Default().Compile()
	if err != nil {
		panic(fmt.Sprintf("rules: built-in patterns failed to compile: %v", err))
	}
	return c
}
