// ABOUTME: Version subcommand
// ABOUTME: Prints the build version
package cli

import (
	"fmt"

	"github.com/harperreed/civibridge/config"
	"github.com/spf13/cobra"
)

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s version %s\n", render(out, headerStyle, config.AppName), version)
		},
	}
}
