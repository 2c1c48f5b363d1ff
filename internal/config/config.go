// Package config handles layered configuration for ragchat.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/diogo/ragchat/internal/models"
)

// EnvPrefix is the prefix of environment variables that override the config file.
// Nested keys use a double underscore: RAGCHAT_MARKDOWN__STYLE=light.
const EnvPrefix = "RAGCHAT_"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `koanf:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `koanf:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `koanf:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `koanf:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `koanf:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// ServerURL is the base URL of the RAG server
	ServerURL string `koanf:"server_url"`
	// RequestTimeout is the per-request deadline in seconds; 0 disables it
	RequestTimeout int `koanf:"request_timeout"`
	// NoticeTTL is how many seconds upload/index notices stay visible
	NoticeTTL       int            `koanf:"notice_ttl"`
	Verbose         bool           `koanf:"verbose"`
	CopyToClipboard bool           `koanf:"copy_to_clipboard"`
	TUITheme        string         `koanf:"tui_theme"`
	Greeting        string         `koanf:"greeting"`
	Markdown        MarkdownConfig `koanf:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ServerURL:       models.DefaultServerURL,
		RequestTimeout:  0,
		NoticeTTL:       3,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Greeting:        models.DefaultGreeting,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration (0 means no deadline)
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// NoticeDuration returns how long transient notices stay visible
func (c Config) NoticeDuration() time.Duration {
	if c.NoticeTTL <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.NoticeTTL) * time.Second
}

// Validate checks the values that would make the client unusable
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server_url must start with http:// or https://, got %q", c.ServerURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout cannot be negative")
	}
	return nil
}

// toMap flattens the config into koanf keys
func (c Config) toMap() map[string]interface{} {
	return map[string]interface{}{
		"server_url":                  c.ServerURL,
		"request_timeout":             c.RequestTimeout,
		"notice_ttl":                  c.NoticeTTL,
		"verbose":                     c.Verbose,
		"copy_to_clipboard":           c.CopyToClipboard,
		"tui_theme":                   c.TUITheme,
		"greeting":                    c.Greeting,
		"markdown.style":              c.Markdown.Style,
		"markdown.enable_emoji":       c.Markdown.EnableEmoji,
		"markdown.preserve_newlines":  c.Markdown.PreserveNewLines,
		"markdown.table_wrap":         c.Markdown.TableWrap,
		"markdown.inline_table_links": c.Markdown.InlineTableLinks,
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".ragchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// GetLogPath returns the path of the log file used by the chat TUI
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ragchat.log"), nil
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads defaults, then the TOML file at path (if present),
// then RAGCHAT_* environment variables.
func LoadConfigFrom(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(DefaultConfig().toMap(), "."), nil); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// envKey maps RAGCHAT_MARKDOWN__STYLE to markdown.style
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// SaveConfig saves the configuration to the default path
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}
	return SaveConfigTo(cfg, filepath.Join(configDir, "config.toml"))
}

// Marshal encodes cfg as TOML
func Marshal(cfg Config) ([]byte, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(cfg.toMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	data, err := k.Marshal(toml.Parser())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveConfigTo writes cfg as TOML to path
func SaveConfigTo(cfg Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
