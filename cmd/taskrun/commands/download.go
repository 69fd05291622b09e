package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <task>",
		Short: "Cache a task's files without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			environment, _ := cmd.Flags().GetString("environment")

			desc, err := c.app.DownloadFiles(cmd.Context(), args[0], environment)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cached %d files for %s\n", len(desc.Files), desc.Name)

			return nil
		},
	}

	cmd.Flags().StringP("environment", "e", "production", "Puppet environment to resolve the task in")

	return cmd
}
