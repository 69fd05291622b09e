package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newMetadataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata <task>",
		Short: "Show the descriptor for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			environment, _ := cmd.Flags().GetString("environment")

			desc, err := c.app.TaskMetadata(cmd.Context(), args[0], environment)
			if err != nil {
				return err
			}

			return printJSON(cmd, desc)
		},
	}

	cmd.Flags().StringP("environment", "e", "production", "Puppet environment to resolve the task in")

	return cmd
}
