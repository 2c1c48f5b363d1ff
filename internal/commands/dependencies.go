package commands

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/diogo/ragchat/internal/api"
	"github.com/diogo/ragchat/internal/config"
	"github.com/diogo/ragchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctrl tui.ChatController, opts tui.Options) error
}

// ClientFactory builds the RAG server client for a loaded configuration.
type ClientFactory func(cfg config.Config, logger zerolog.Logger) (api.RAGClientInterface, error)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient creates the RAG server client.
	NewClient ClientFactory

	// TUI is the terminal user interface.
	TUI TUIInterface

	// ConfigPath returns the config file location.
	ConfigPath func() (string, error)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	stderrTTY bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctrl tui.ChatController, opts tui.Options) error {
	return tui.RunChat(ctrl, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:  defaultClient,
		TUI:        &DefaultTUI{},
		ConfigPath: config.GetConfigPath,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

func defaultClient(cfg config.Config, logger zerolog.Logger) (api.RAGClientInterface, error) {
	return api.NewClient(cfg.ServerURL,
		api.WithTimeoutSeconds(cfg.RequestTimeout),
		api.WithLogger(logger),
	)
}

// withDefaults fills the fields a test left empty
func (d *Dependencies) withDefaults() *Dependencies {
	if d == nil {
		d = &Dependencies{}
	}
	def := NewDependencies()
	out := *d
	if out.NewClient == nil {
		out.NewClient = def.NewClient
	}
	if out.TUI == nil {
		out.TUI = def.TUI
	}
	if out.ConfigPath == nil {
		out.ConfigPath = def.ConfigPath
	}
	if out.Stdin == nil {
		out.Stdin = def.Stdin
	}
	if out.Stdout == nil {
		out.Stdout = def.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = def.Stderr
	}
	// Spinners and the logger write from different goroutines
	out.stderrTTY = isTerminal(out.Stderr)
	out.Stderr = zerolog.SyncWriter(out.Stderr)
	return &out
}
