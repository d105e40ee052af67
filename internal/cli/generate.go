package cli

import (
	"fmt"
	"path/filepath"

	"github.com/devtools-ng/nevez/internal/changelog"
	"github.com/devtools-ng/nevez/internal/commit"
	"github.com/devtools-ng/nevez/internal/config"
	"github.com/devtools-ng/nevez/internal/errors"
	"github.com/devtools-ng/nevez/internal/gitlog"
	"github.com/devtools-ng/nevez/internal/output"
	"github.com/devtools-ng/nevez/internal/progress"
	"github.com/devtools-ng/nevez/internal/rules"
	"github.com/spf13/cobra"
)

var (
	generateSinceFlag   string
	generateFileFlag    string
	generateInPlaceFlag bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <new-tag> [repository]",
	Short: "Generate a changelog section and merge it into the changelog",
	Long: `Generate a changelog section for a new release tag and merge it
into the changelog document.

Commits between the previous tag and HEAD are collected (merge commits
and squash commits excluded), classified into Added, Changed and Fixed,
and rendered under a "## [tag] - date" heading. The section is inserted
immediately above the first existing release heading; without --in-place
the merged document goes to stdout and the file is left untouched.

Examples:
  nevez generate 1.4.0                 # Merge to stdout, repo = cwd
  nevez generate -i 1.4.0              # Edit NEWS.md in place
  nevez generate -s 1.2.0 1.4.0 ~/src/proj
  nevez generate -f CHANGELOG.md -i 1.4.0`,
	Args:         argumentErrors(cobra.RangeArgs(1, 2)),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateSinceFlag, "since", "s", "", "Previous tag (default: latest tag)")
	generateCmd.Flags().StringVarP(&generateFileFlag, "file", "f", "", "Path to changelog, relative to the repository (default: NEWS.md)")
	generateCmd.Flags().BoolVarP(&generateInPlaceFlag, "in-place", "i", false, "Edit changelog in place")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	newTag := args[0]
	repoPath := ""
	if len(args) == 2 {
		repoPath = args[1]
	}

	cfg, err := config.Load("")
	if err != nil {
		return errors.WrapWithMessage(err, errors.Configuration, "loading configuration")
	}

	compiled, err := loadRules(cfg)
	if err != nil {
		return err
	}

	source := gitlog.NewSource(cfg.ExcludeMarker)

	sinceTag := generateSinceFlag
	if sinceTag == "" {
		sinceTag, err = source.LatestTag(repoPath)
		if err != nil {
			return errors.WrapWithMessage(err, errors.Source, "finding latest tag",
				"Pass --since explicitly if the repository has no tags yet")
		}
	}

	sp := progress.Start(fmt.Sprintf("Collecting commits since %s", sinceTag))
	raw, err := source.Log(repoPath, sinceTag)
	sp.Stop()
	if err != nil {
		return errors.WrapWithMessage(err, errors.Source, "collecting commits")
	}

	commits := commit.NewParser().Parse(raw)
	classified := commit.NewClassifier(compiled).Classify(commits)
	formatter := changelog.NewFormatter(commit.NewShortener(compiled))
	section := formatter.Format(classified, newTag)

	// The changelog lives in the repository: a relative --file value and
	// the configured name both resolve against the repository root.
	root := repoPath
	if root == "" {
		root = "."
	}
	path := generateFileFlag
	if path == "" {
		path = cfg.Changelog
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	outcome, err := changelog.Update(path, section, newTag, generateInPlaceFlag, cmd.OutOrStdout())
	if err != nil {
		return errors.WrapWithMessage(err, errors.Runtime, "updating changelog")
	}

	// Status goes to stderr so stdout stays a clean document.
	switch outcome {
	case changelog.Skipped:
		output.PrintWarning(cmd.ErrOrStderr(),
			fmt.Sprintf("Section for %s already present in %s, nothing to do", newTag, path))
	case changelog.Appended:
		output.PrintWarning(cmd.ErrOrStderr(),
			fmt.Sprintf("No release heading found in %s, section appended at the end", path))
	case changelog.Inserted:
		if generateInPlaceFlag {
			output.PrintSuccess(cmd.ErrOrStderr(),
				fmt.Sprintf("Updated %s with section for %s", path, newTag))
		}
	}
	return nil
}

// loadRules compiles the classification tables, applying the configured
// rules file over the defaults when present.
func loadRules(cfg *config.Configuration) (*rules.Compiled, error) {
	set := rules.Default()
	if cfg.RulesFile != "" {
		var err error
		set, err = rules.Load(cfg.RulesFile)
		if err != nil {
			return nil, errors.WrapWithMessage(err, errors.Configuration, "loading rules file",
				"Check the pattern syntax in "+cfg.RulesFile)
		}
	}

	compiled, err := set.Compile()
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Configuration, "compiling rules")
	}
	return compiled, nil
}
