package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/controller"
)

func newIndexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the server's document index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runIndex(commandContext(cmd))
		},
	}
}

func (a *app) runIndex(ctx context.Context) error {
	cfg, logger, client, err := a.connect()
	if err != nil {
		return err
	}
	defer client.Close()

	fails := &failures{}
	ctrl := newController(ctx, client, cfg, logger, fails.record)
	defer ctrl.Close()

	return indexWith(ctrl, fails, a.deps.Stderr)
}

// indexWith triggers indexing on ctrl and waits for it to settle
func indexWith(ctrl *controller.Controller, fails *failures, w io.Writer) error {
	spin := newSpinner(w, "Indexing documents")
	spin.start()

	ctrl.TriggerIndexing()
	ctrl.Wait()

	if err := fails.take(controller.OpIndex); err != nil {
		spin.stopWithError()
		fmt.Fprintln(w, formatErrorMessage(err, "Indexing failed"))
		return fmt.Errorf("indexing failed: %w", err)
	}
	spin.stopWithSuccess("Indexing succeeded")
	return nil
}
