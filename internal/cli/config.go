package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devtools-ng/nevez/internal/config"
	"github.com/devtools-ng/nevez/internal/errors"
	"github.com/devtools-ng/nevez/internal/output"
	"github.com/spf13/cobra"
)

var configInitForceFlag bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nevez configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented starter config for the current project",
	Long: `Write a commented starter config to .nevez/config.yml in the
current directory, documenting every available option with its default.

Examples:
  nevez config init
  nevez config init --force    # Overwrite an existing config`,
	Args:         argumentErrors(cobra.NoArgs),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ProjectConfigPath()
		if _, err := os.Stat(path); err == nil && !configInitForceFlag {
			return errors.NewArgumentError(
				fmt.Sprintf("%s already exists", path),
				"Pass --force to overwrite it")
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "creating config directory")
		}
		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0644); err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "writing config")
		}

		output.PrintSuccess(cmd.ErrOrStderr(), "Wrote "+path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitForceFlag, "force", false, "Overwrite an existing config")
}
