package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <request-id>",
		Short: "Report the status of a previously requested task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := c.app.TaskStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd, status)
		},
	}
}
