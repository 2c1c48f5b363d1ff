// Package commands provides CLI commands for ragchat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/models"
)

var (
	// Version info (set at build time)
	Version   = models.ClientVersion
	BuildTime = "unknown"
)

// NewRootCmd creates the ragchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	a := &app{deps: deps.withDefaults()}

	var (
		outputFlag string
		fileFlag   string
		rawFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "ragchat [question]",
		Short: "Chat with your documents through a RAG server",
		Long: `ragchat is a terminal client for a retrieval-augmented generation server.
It asks questions about the indexed documents, uploads new documents and
triggers re-indexing.

Examples:
  ragchat chat                          Start interactive chat
  ragchat "What is the refund policy?"  Ask a single question
  ragchat -f question.md                Read the question from a file
  cat question.md | ragchat             Read the question from stdin
  ragchat upload report.pdf --index     Upload a document and re-index
  ragchat watch ~/docs --index          Upload documents as they change`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(a.deps.Stdout, "ragchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			opts := askOptions{
				output: outputFlag,
				raw:    rawFlag || !isTerminal(a.deps.Stdout),
			}

			if fileFlag != "" {
				data, err := os.ReadFile(fileFlag)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return a.runAsk(commandContext(cmd), string(data), opts)
			}

			if len(args) > 0 {
				return a.runAsk(commandContext(cmd), args[0], opts)
			}

			if hasPipedInput(a.deps.Stdin) {
				data, err := io.ReadAll(a.deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				return a.runAsk(commandContext(cmd), string(data), opts)
			}

			return cmd.Help()
		},
	}

	cmd.SetOut(a.deps.Stdout)
	cmd.SetErr(a.deps.Stderr)

	cmd.PersistentFlags().StringVarP(&a.serverURL, "server", "s", "", "RAG server URL (overrides server_url)")
	cmd.PersistentFlags().IntVar(&a.timeout, "timeout", 0, "Request timeout in seconds (overrides request_timeout)")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable debug logging")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the answer to file")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the question from file")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Print only the answer text")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(
		newChatCmd(a),
		newUploadCmd(a),
		newIndexCmd(a),
		newStatusCmd(a),
		newHistoryCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
	)

	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// hasPipedInput reports whether r is a pipe or file rather than a terminal
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
