// Package commands implements the CLI commands for the taskrun agent.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trellis.sh/taskrun/internal/app"
	"go.trellis.sh/taskrun/internal/build"
	"go.trellis.sh/taskrun/internal/core/domain"
	"go.trellis.sh/taskrun/internal/filter"
)

// CLI represents the command line interface for taskrun.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	RunTask(ctx context.Context, qname string, opts app.RunOptions) (*domain.TaskStatus, error)
	TaskStatus(ctx context.Context, requestID string) (*domain.TaskStatus, error)
	ListTasks(ctx context.Context, environment string) ([]domain.TaskInfo, error)
	TaskMetadata(ctx context.Context, qname, environment string) (*domain.TaskDescriptor, error)
	DownloadFiles(ctx context.Context, qname, environment string) (*domain.TaskDescriptor, error)
	ValidateFilter(args []string) ([]filter.Token, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "taskrun",
		Short:         "Runs Puppet Tasks on this node on behalf of a control plane",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newMetadataCmd())
	rootCmd.AddCommand(c.newDownloadCmd())
	rootCmd.AddCommand(c.newFilterCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the command line arguments, primarily for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the stdout and stderr writers, primarily for testing.
func (c *CLI) SetOutput(stdout, stderr io.Writer) {
	c.rootCmd.SetOut(stdout)
	c.rootCmd.SetErr(stderr)
}

// printJSON renders a value as indented JSON on the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
