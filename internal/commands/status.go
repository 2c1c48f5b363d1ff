package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the RAG server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(commandContext(cmd))
		},
	}
}

func (a *app) runStatus(ctx context.Context) error {
	cfg, _, client, err := a.connect()
	if err != nil {
		return err
	}
	defer client.Close()

	spin := newSpinner(a.deps.Stderr, "Checking "+client.BaseURL())
	spin.start()
	if err := client.Health(ctx); err != nil {
		spin.stopWithError()
		fmt.Fprintln(a.deps.Stderr, formatErrorMessage(err, "Server not reachable"))
		return fmt.Errorf("health check failed: %w", err)
	}
	spin.stopWithSuccess("Server is up")

	timeout := "none"
	if d := cfg.Timeout(); d > 0 {
		timeout = d.String()
	}
	fmt.Fprintf(a.deps.Stdout, "Server:  %s\nTimeout: %s\n", client.BaseURL(), timeout)
	return nil
}
