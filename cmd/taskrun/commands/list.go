package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks available in an environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			environment, _ := cmd.Flags().GetString("environment")

			tasks, err := c.app.ListTasks(cmd.Context(), environment)
			if err != nil {
				return err
			}

			for _, task := range tasks {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), task.Name)
			}

			return nil
		},
	}

	cmd.Flags().StringP("environment", "e", "production", "Puppet environment to list tasks from")

	return cmd
}
