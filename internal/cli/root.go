// Package cli implements the nevez command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/devtools-ng/nevez/internal/build"
	"github.com/devtools-ng/nevez/internal/errors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nevez",
	Short: "Generate changelogs from git history",
	Long: `Nevez turns git commit history into a Keep-a-Changelog style
Markdown section and merges it into an existing changelog document.

Commits since the previous tag are classified into Added, Changed and
Fixed buckets from their subject lines, shortened to single display
lines annotated with bug references, and rendered under a dated release
heading. The section is inserted above the most recent existing release
heading, to stdout or in place.`,
	Version:       build.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"nevez {{.Version}} (commit %s, built %s)\n", build.Commit, build.BuildDate))
}

// argumentErrors wraps a cobra positional-args validator so count
// failures surface as structured argument errors and map to the
// documented exit code instead of the generic runtime one.
func argumentErrors(args cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, argv []string) error {
		if err := args(cmd, argv); err != nil {
			return &errors.CLIError{
				Category:    errors.Argument,
				Message:     err.Error(),
				Remediation: []string{fmt.Sprintf("Run 'nevez %s --help' for usage", cmd.Name())},
				Usage:       cmd.UseLine(),
			}
		}
		return nil
	}
}

// ExitError carries a specific process exit code through cobra.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an error that maps to the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// Execute runs the root command and returns the process exit code.
// Structured CLI errors are printed with category and remediation;
// anything else gets a single diagnostic line.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code
	}

	if cliErr := errors.AsCLIError(err); cliErr != nil {
		errors.PrintError(cliErr)
		switch cliErr.Category {
		case errors.Argument:
			return ExitInvalidArguments
		case errors.Configuration:
			return ExitConfigError
		case errors.Source:
			return ExitSourceUnavailable
		default:
			return ExitRuntimeError
		}
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return ExitRuntimeError
}
