package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devtools-ng/nevez/internal/announce"
	"github.com/devtools-ng/nevez/internal/changelog"
	"github.com/devtools-ng/nevez/internal/config"
	"github.com/devtools-ng/nevez/internal/errors"
	"github.com/devtools-ng/nevez/internal/gitlog"
	"github.com/spf13/cobra"
)

var (
	announceFromFlag      string
	announceChangelogFlag string
	announceTemplateFlag  string
	announceInputFlag     string
	announceOutputFlag    string
	announceParamsFlag    []string
)

var announceCmd = &cobra.Command{
	Use:   "announce [repository] [recipient...]",
	Short: "Render a release announcement mail for the latest release",
	Long: `Render a release announcement mail for the latest release.

The project name and URL come from the origin remote, the version from
the most recent tag, and the release notes from that version's section
of the changelog. The mail is rendered from a built-in template unless a
custom one is configured.

Examples:
  nevez announce . dev@lists.example.org
  nevez announce -f me@example.org ~/src/proj users@example.org
  nevez announce -o announce.eml -P prefix:RELEASE .`,
	Args:         argumentErrors(cobra.MinimumNArgs(1)),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnnounce(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(announceCmd)

	announceCmd.Flags().StringVarP(&announceFromFlag, "from", "f", "", "Emitter email address")
	announceCmd.Flags().StringVarP(&announceChangelogFlag, "changelog", "c", "", "Name of changelog")
	announceCmd.Flags().StringVarP(&announceTemplateFlag, "template", "t", "", "Path to mail template")
	announceCmd.Flags().StringVarP(&announceInputFlag, "input", "I", "", "Path to recipients file")
	announceCmd.Flags().StringVarP(&announceOutputFlag, "output", "o", "", "Path to output file")
	announceCmd.Flags().StringArrayVarP(&announceParamsFlag, "parameter", "P", nil, "Extra K:V key value pair")
}

func runAnnounce(cmd *cobra.Command, args []string) error {
	repoPath := args[0]
	recipients := args[1:]

	cfg, err := config.Load("")
	if err != nil {
		return errors.WrapWithMessage(err, errors.Configuration, "loading configuration")
	}

	emitter, err := resolveEmitter(cfg)
	if err != nil {
		return err
	}

	if announceInputFlag != "" {
		extra, err := announce.ReadRecipients(announceInputFlag)
		if err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "reading recipients")
		}
		recipients = append(recipients, extra...)
	}

	info, err := latestRelease(cfg, repoPath)
	if err != nil {
		return err
	}

	builder := announce.NewDataBuilder().
		Emitter(emitter).
		Recipients(recipients).
		Info(info)

	if cfg.Announce.Prefix != "" {
		builder.Extra(map[string]string{"prefix": cfg.Announce.Prefix})
	}
	if sig, ok := announce.UserSignature(); ok {
		builder.Signature(sig)
	}
	if err := applyParameters(builder); err != nil {
		return err
	}

	templateText, err := resolveTemplate(cfg)
	if err != nil {
		return err
	}

	text, err := announce.Render(templateText, builder.Build())
	if err != nil {
		return errors.WrapWithMessage(err, errors.Runtime, "rendering announcement")
	}

	if announceOutputFlag != "" {
		if err := os.WriteFile(announceOutputFlag, []byte(text), 0644); err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "writing announcement")
		}
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

// latestRelease gathers project, URL, version and release notes for the
// latest tagged release of the repository.
func latestRelease(cfg *config.Configuration, repoPath string) (announce.ReleaseInfo, error) {
	source := gitlog.NewSource("")

	url, err := source.RemoteURL(repoPath)
	if err != nil {
		return announce.ReleaseInfo{}, errors.WrapWithMessage(err, errors.Source, "resolving repository URL")
	}

	version, err := source.LatestTag(repoPath)
	if err != nil {
		return announce.ReleaseInfo{}, errors.WrapWithMessage(err, errors.Source, "finding latest tag")
	}

	project, ok := announce.ProjectName(url)
	if !ok {
		return announce.ReleaseInfo{}, errors.NewRuntimeError(
			fmt.Sprintf("failed to extract project name from URL %q", url))
	}

	name := announceChangelogFlag
	if name == "" {
		name = cfg.Changelog
	}
	notes, err := changelog.Extract(filepath.Join(repoPath, name), version)
	if err != nil {
		return announce.ReleaseInfo{}, errors.WrapWithMessage(err, errors.Runtime, "extracting release notes",
			"Run 'nevez generate -i' first so the changelog has a section for "+version)
	}

	return announce.ReleaseInfo{
		Project:   project,
		URL:       url,
		Version:   version,
		Changelog: notes,
	}, nil
}

func resolveEmitter(cfg *config.Configuration) (string, error) {
	if announceFromFlag != "" {
		return announceFromFlag, nil
	}
	if cfg.Announce.From != "" {
		return cfg.Announce.From, nil
	}
	if emitter, ok := announce.UserEmail(); ok {
		return emitter, nil
	}
	return "", errors.NewArgumentError("missing emitter email",
		"Pass --from, set announce.from in the config, or export EMAIL")
}

func resolveTemplate(cfg *config.Configuration) (string, error) {
	path := announceTemplateFlag
	if path == "" {
		path = cfg.Announce.Template
	}
	if path == "" {
		return announce.DefaultTemplate, nil
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return "", errors.WrapWithMessage(err, errors.Configuration, "reading mail template")
	}
	return string(text), nil
}

func applyParameters(builder *announce.DataBuilder) error {
	extra := make(map[string]string)
	for _, param := range announceParamsFlag {
		key, value, ok := announce.ParseParameter(param)
		if !ok {
			return errors.NewArgumentError(
				fmt.Sprintf("invalid parameter %q", param),
				"Parameters use the form key:value")
		}
		extra[key] = value
	}
	if len(extra) > 0 {
		builder.Extra(extra)
	}
	return nil
}
