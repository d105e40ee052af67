package cli

import (
	"fmt"

	"github.com/devtools-ng/nevez/internal/errors"
	"github.com/devtools-ng/nevez/internal/gitlog"
	"github.com/spf13/cobra"
)

var latestTagCmd = &cobra.Command{
	Use:   "latest-tag [repository]",
	Short: "Print the most recent tag reachable from HEAD",
	Long: `Print the most recent tag reachable from HEAD, the tag that
"generate" uses as the default starting point.

Examples:
  nevez latest-tag               # Repository = current directory
  nevez latest-tag ~/src/proj`,
	Args:         argumentErrors(cobra.MaximumNArgs(1)),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		repoPath := ""
		if len(args) == 1 {
			repoPath = args[0]
		}

		tag, err := gitlog.NewSource("").LatestTag(repoPath)
		if err != nil {
			return errors.WrapWithMessage(err, errors.Source, "finding latest tag")
		}

		fmt.Fprintln(cmd.OutOrStdout(), tag)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(latestTagCmd)
}
