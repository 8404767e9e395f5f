// SPDX-License-Identifier: EPL-2.0

package command

import (
	"github.com/spf13/cobra"
)

const (
	cliName        = "oggpages"
	cliDescription = "inspect and repair the page structure of Ogg files"
)

// NewRootCommand returns the oggpages command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           cliName,
		Short:         cliDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			SetLogLevel(logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level: debug, info, warn or error (default from "+LogLevelEnv+")")

	cmd.AddCommand(
		newListCommand(),
		newLastCommand(),
		newPacketsCommand(),
		newRenumberCommand(),
		newInfoCommand(),
		newCommentCommand(),
	)
	return cmd
}
