package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/diogo/ragchat/internal/controller"
	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/render"
)

type askOptions struct {
	output string
	raw    bool
}

// runAsk sends a single question through the conversation controller and prints the answer
func (a *app) runAsk(ctx context.Context, question string, opts askOptions) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return apierrors.ErrEmptyQuestion
	}

	cfg, logger, client, err := a.connect()
	if err != nil {
		return err
	}
	defer client.Close()

	fails := &failures{}
	ctrl := newController(ctx, client, cfg, logger, fails.record)
	defer ctrl.Close()

	stderr := a.deps.Stderr
	stdout := a.deps.Stdout

	var spin *spinner
	if !opts.raw {
		spin = newSpinner(stderr, "Searching your documents")
		spin.start()
	}

	startTime := time.Now()
	ctrl.SendMessage(question)
	ctrl.Wait()
	logger.Debug().Dur("took", time.Since(startTime).Round(time.Millisecond)).Msg("ask settled")

	if err := fails.take(controller.OpSend); err != nil {
		if !opts.raw {
			spin.stopWithError()
			fmt.Fprintln(stderr, formatErrorMessage(err, "Ask failed"))
		}
		return fmt.Errorf("ask failed: %w", err)
	}
	if !opts.raw {
		spin.stopWithSuccess("Done")
	}

	answer, _ := ctrl.Snapshot().LastMessage()
	text := answer.Content

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !opts.raw {
			fmt.Fprintln(stderr, successLine(fmt.Sprintf("Answer saved to %s", opts.output)))
		}
		return nil
	}

	// Raw output mode: output only the answer text
	if opts.raw {
		fmt.Fprintln(stdout, text)
		return nil
	}

	if cfg.CopyToClipboard {
		if err := writeClipboard(text); err != nil {
			fmt.Fprintln(stderr, warningLine(fmt.Sprintf("Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(stderr, successLine("Copied to clipboard"))
		}
	}

	bubbleWidth := getTerminalWidth(stdout) - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(stdout, assistantLabelStyle.Render("✦ Assistant"))
	rendered := render.Answer(text, answer.Sources, render.OptionsFromConfig(cfg.Markdown, contentWidth))
	fmt.Fprintln(stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))

	return nil
}
