package commands

import (
	"github.com/spf13/cobra"
	"go.trellis.sh/taskrun/internal/app"
	"go.trellis.sh/taskrun/internal/core/domain"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <task>",
		Short: "Run a task on this node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, _ := cmd.Flags().GetString("request-id")
			environment, _ := cmd.Flags().GetString("environment")
			input, _ := cmd.Flags().GetString("input")
			method, _ := cmd.Flags().GetString("input-method")
			wait, _ := cmd.Flags().GetBool("wait")

			status, err := c.app.RunTask(cmd.Context(), args[0], app.RunOptions{
				RequestID:   requestID,
				Environment: environment,
				Input:       input,
				InputMethod: domain.InputMethod(method),
				Wait:        wait,
			})
			if err != nil {
				return err
			}

			return printJSON(cmd, status)
		},
	}

	cmd.Flags().String("request-id", "", "Request id for this run, generated when omitted")
	cmd.Flags().StringP("environment", "e", "production", "Puppet environment to resolve the task in")
	cmd.Flags().StringP("input", "i", "", "Task input as a JSON document")
	cmd.Flags().String("input-method", "", "Override the task input method: stdin, environment, both or powershell")
	cmd.Flags().BoolP("wait", "w", true, "Wait for the task to complete")

	return cmd
}
