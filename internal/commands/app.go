package commands

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/api"
	"github.com/diogo/ragchat/internal/config"
	"github.com/diogo/ragchat/internal/controller"
	"github.com/diogo/ragchat/internal/logging"
)

// app carries the dependencies and global flags shared by every command
type app struct {
	deps *Dependencies

	serverURL string
	timeout   int
	verbose   bool
}

// loadConfig reads the layered config and applies the global flag overrides
func (a *app) loadConfig() (config.Config, error) {
	path, err := a.deps.ConfigPath()
	if err != nil {
		return config.DefaultConfig(), err
	}

	cfg, err := config.LoadConfigFrom(path)
	if err != nil {
		return cfg, err
	}

	if a.serverURL != "" {
		cfg.ServerURL = a.serverURL
	}
	if a.timeout > 0 {
		cfg.RequestTimeout = a.timeout
	}
	if a.verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (a *app) logger(cfg config.Config) zerolog.Logger {
	return logging.NewConsole(a.deps.Stderr, cfg.Verbose, a.deps.stderrTTY)
}

// connect loads the config and builds a client for it
func (a *app) connect() (config.Config, zerolog.Logger, api.RAGClientInterface, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return cfg, zerolog.Nop(), nil, err
	}

	logger := a.logger(cfg)
	client, err := a.deps.NewClient(cfg, logger)
	if err != nil {
		return cfg, logger, nil, fmt.Errorf("failed to create client: %w", err)
	}
	return cfg, logger, client, nil
}

// newController binds a conversation controller to client
func newController(ctx context.Context, client api.RAGClientInterface, cfg config.Config, logger zerolog.Logger, onFailure func(controller.Operation, error)) *controller.Controller {
	opts := []controller.Option{
		controller.WithContext(ctx),
		controller.WithNoticeTTL(cfg.NoticeDuration()),
		controller.WithLogger(logger),
	}
	if cfg.Greeting != "" {
		opts = append(opts, controller.WithGreeting(cfg.Greeting))
	}
	if onFailure != nil {
		opts = append(opts, controller.WithFailureHandler(onFailure))
	}
	return controller.New(controller.CollaboratorsFrom(client), opts...)
}

// failures collects the errors reported by the controller until a command takes them
type failures struct {
	mu   sync.Mutex
	errs map[controller.Operation][]error
}

func (f *failures) record(op controller.Operation, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = make(map[controller.Operation][]error)
	}
	f.errs[op] = append(f.errs[op], err)
}

// take returns the first error recorded for op and forgets all of them
func (f *failures) take(op controller.Operation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := f.errs[op]
	delete(f.errs, op)
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
