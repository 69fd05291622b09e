package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newFilterCmd() *cobra.Command {
	filterCmd := &cobra.Command{
		Use:   "filter",
		Short: "Work with discovery filter expressions",
	}

	validateCmd := &cobra.Command{
		Use:   "validate <expression>...",
		Short: "Validate a discovery filter expression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := c.app.ValidateFilter(args)
			if err != nil {
				return err
			}

			for _, tok := range tokens {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tok.Kind, tok.Value)
			}

			return nil
		},
	}

	filterCmd.AddCommand(validateCmd)

	return filterCmd
}
