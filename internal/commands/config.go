package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/config"
	"github.com/diogo/ragchat/internal/render"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
		Long: `ragchat reads ~/.ragchat/config.toml, then RAGCHAT_* environment variables
(nested keys use a double underscore, e.g. RAGCHAT_MARKDOWN__STYLE=light).`,
	}

	var forceFlag bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigInit(forceFlag)
		},
	}
	initCmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing config file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runConfigShow()
			},
		},
		initCmd,
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := a.deps.ConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.deps.Stdout, path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "themes",
			Short: "List the markdown and chat themes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a.runConfigThemes()
				return nil
			},
		},
	)

	return cmd
}

func (a *app) runConfigShow() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	if path, err := a.deps.ConfigPath(); err == nil {
		fmt.Fprintln(a.deps.Stderr, dimStyle.Render("# "+path))
	}
	_, err = a.deps.Stdout.Write(data)
	return err
}

func (a *app) runConfigInit(force bool) error {
	path, err := a.deps.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.SaveConfigTo(config.DefaultConfig(), path); err != nil {
		return err
	}

	fmt.Fprintln(a.deps.Stderr, successLine("Wrote "+path))
	return nil
}

func (a *app) runConfigThemes() {
	out := a.deps.Stdout
	fmt.Fprintln(out, "Markdown styles (markdown.style):")
	for _, t := range render.AvailableThemes() {
		fmt.Fprintf(out, "  %-12s %s\n", t.Name, t.Description)
	}
	fmt.Fprintln(out, "\nChat themes (tui_theme):")
	for _, t := range render.AvailableTUIThemes() {
		fmt.Fprintf(out, "  %-12s %s\n", t.Name, t.Description)
	}
}
