package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/controller"
	"github.com/diogo/ragchat/internal/models"
	"github.com/diogo/ragchat/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		indexFlag    bool
		debounceFlag time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Upload documents as they appear in a directory",
		Long: `Watch a directory and upload every new or modified .pdf, .docx or .txt file.
Use --index to re-index after each upload. Press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runWatch(ctx, args[0], indexFlag, debounceFlag)
		},
	}

	cmd.Flags().BoolVar(&indexFlag, "index", false, "Trigger indexing after each upload")
	cmd.Flags().DurationVar(&debounceFlag, "debounce", watcher.DefaultDebounce, "Quiet period before a changed file is uploaded")
	return cmd
}

func (a *app) runWatch(ctx context.Context, dir string, index bool, debounce time.Duration) error {
	cfg, logger, client, err := a.connect()
	if err != nil {
		return err
	}
	defer client.Close()

	stdout := a.deps.Stdout
	stderr := a.deps.Stderr

	ctrl := newController(ctx, client, cfg, logger, reportFailure(stderr))
	defer ctrl.Close()

	w, err := watcher.New(watcher.WithDebounce(debounce), watcher.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	events, err := w.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Fprintf(stderr, "Watching %s for %s (Ctrl+C to stop)\n",
		dir, strings.Join(models.SupportedExtensions(), ", "))

	syncer := &watcher.Syncer{
		Target:           ctrl,
		Logger:           logger,
		IndexAfterUpload: index,
		OnUpload: func(ev watcher.Event, doc *models.Document) {
			fmt.Fprintf(stdout, "↑ %s (%s)\n", doc.Name, ev.Operation)
		},
	}

	n := syncer.Run(ctx, events)
	ctrl.Wait()

	fmt.Fprintln(stderr, successLine(fmt.Sprintf("Stopped after %d upload(s)", n)))
	return nil
}

func opLabel(op controller.Operation) string {
	switch op {
	case controller.OpUpload:
		return "Upload"
	case controller.OpIndex:
		return "Indexing"
	default:
		return "Ask"
	}
}

// reportFailure prints each controller failure to w without keeping it
func reportFailure(w io.Writer) func(controller.Operation, error) {
	return func(op controller.Operation, err error) {
		fmt.Fprintln(w, formatErrorMessage(err, opLabel(op)+" failed"))
	}
}
