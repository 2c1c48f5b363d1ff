package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/models"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limitFlag int
		fullFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the questions and answers recorded by the server",
		Long: `List the question/answer log kept by the RAG server, newest last.
Use --full to print complete answers instead of a table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHistory(commandContext(cmd), limitFlag, fullFlag)
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "Show only the last N entries")
	cmd.Flags().BoolVar(&fullFlag, "full", false, "Print complete answers")
	return cmd
}

func (a *app) runHistory(ctx context.Context, limit int, full bool) error {
	_, _, client, err := a.connect()
	if err != nil {
		return err
	}
	defer client.Close()

	items, err := client.History(ctx)
	if err != nil {
		fmt.Fprintln(a.deps.Stderr, formatErrorMessage(err, "Failed to load history"))
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(items) == 0 {
		fmt.Fprintln(a.deps.Stdout, "No questions recorded yet.")
		return nil
	}

	start := 0
	if limit > 0 && limit < len(items) {
		start = len(items) - limit
	}

	if full {
		for i := start; i < len(items); i++ {
			writeHistoryEntry(a, i+1, items[i])
		}
		return nil
	}

	w := tabwriter.NewWriter(a.deps.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tQUESTION\tANSWER\tSOURCES")
	_, _ = fmt.Fprintln(w, "-\t--------\t------\t-------")

	for i := start; i < len(items); i++ {
		item := items[i]
		titles := (&models.Answer{Sources: item.Sources}).SourceTitles()
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			i+1, truncate(item.Question, 40), truncate(item.Answer, 50), truncate(strings.Join(titles, ", "), 30))
	}

	return w.Flush()
}

func writeHistoryEntry(a *app, n int, item models.QAHistoryItem) {
	out := a.deps.Stdout
	fmt.Fprintf(out, "%s %s\n", assistantLabelStyle.Render(fmt.Sprintf("#%d", n)), item.Question)
	fmt.Fprintln(out, item.Answer)
	if titles := (&models.Answer{Sources: item.Sources}).SourceTitles(); len(titles) > 0 {
		fmt.Fprintln(out, dimStyle.Render("Sources: "+strings.Join(titles, ", ")))
	}
	fmt.Fprintln(out)
}
