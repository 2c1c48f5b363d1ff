package render

import (
	"os"

	"github.com/diogo/ragchat/internal/config"
)

// OptionsFromConfig builds render options from the markdown section of the config.
// GLAMOUR_STYLE, when set, overrides the configured style.
func OptionsFromConfig(md config.MarkdownConfig, width int) Options {
	opts := DefaultOptions().WithWidth(width)

	opts.Style = opts.WithStyle(md.Style).Style
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}
