package render

import (
	"os"
	"strings"
)

// Markdown styles shipped with glamour
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = "dracula"
	ThemePink       = "pink"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// glamourNames maps our style names to glamour's where they differ
var glamourNames = map[string]string{
	ThemeTokyoNight: "tokyo-night",
}

// IsBuiltinStyle reports whether style names one of glamour's built-in styles
func IsBuiltinStyle(style string) bool {
	switch normalizeStyle(style) {
	case ThemeDark, ThemeLight, ThemeDracula, ThemePink, ThemeNoTTY, ThemeASCII, "tokyo-night":
		return true
	default:
		return false
	}
}

// ResolveStyle returns the value handed to glamour for style.
// Unknown names that are not existing files fall back to the dark style.
func ResolveStyle(style string) string {
	name := normalizeStyle(style)
	if name == "" {
		return ThemeDark
	}
	if IsBuiltinStyle(name) {
		return name
	}
	if _, err := os.Stat(style); err == nil {
		return style
	}
	return ThemeDark
}

func normalizeStyle(style string) string {
	name := strings.ToLower(strings.TrimSpace(style))
	if mapped, ok := glamourNames[name]; ok {
		return mapped
	}
	return name
}

// ThemeInfo describes a style for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the built-in markdown styles.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the style names.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
