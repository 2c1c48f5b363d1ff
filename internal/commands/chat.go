package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/config"
	"github.com/diogo/ragchat/internal/controller"
	"github.com/diogo/ragchat/internal/logging"
	"github.com/diogo/ragchat/internal/render"
	"github.com/diogo/ragchat/internal/tui"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the RAG server.

Enter sends a question, Ctrl+U uploads a document, Ctrl+R re-indexes and
Ctrl+Y copies the last answer. Type 'exit', 'quit', or press Esc to end the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(commandContext(cmd))
		},
	}
}

func (a *app) runChat(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file
	logger := logging.Nop()
	if _, err := config.EnsureConfigDir(); err == nil {
		if logPath, err := config.GetLogPath(); err == nil {
			if l, f, err := logging.NewFile(logPath, cfg.Verbose); err == nil {
				logger = l
				defer f.Close()
			}
		}
	}

	client, err := a.deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	spin := newSpinner(a.deps.Stderr, "Connecting to RAG server")
	spin.start()
	if err := client.Health(ctx); err != nil {
		spin.stopWithError()
		fmt.Fprintln(a.deps.Stderr, formatErrorMessage(err, "Server not reachable"))
		logger.Warn().Err(err).Msg("health check failed, starting anyway")
	} else {
		spin.stopWithSuccess("Connected")
	}

	if !tui.UpdateTheme(cfg.TUITheme) {
		logger.Warn().Str("theme", cfg.TUITheme).Msg("unknown tui theme, using default")
	}

	failed := make(chan error, 8)
	ctrl := newController(ctx, client, cfg, logger, func(op controller.Operation, err error) {
		select {
		case failed <- fmt.Errorf("%s failed: %w", opLabel(op), err):
		default:
		}
	})
	defer ctrl.Close()

	return a.deps.TUI.RunChat(ctrl, tui.Options{
		ServerURL: client.BaseURL(),
		Render:    render.OptionsFromConfig(cfg.Markdown, getTerminalWidth(a.deps.Stdout)),
		Failures:  failed,
	})
}
