package render

import (
	"fmt"
	"strings"

	"github.com/diogo/ragchat/internal/models"
)

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth renders with default options at the given width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// Answer renders an assistant answer, followed by its source titles when present.
// Rendering failures fall back to the raw text.
func Answer(content string, sources []models.Source, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		out = content
	}
	out = strings.TrimRight(out, "\n")

	titles := (&models.Answer{Sources: sources}).SourceTitles()
	if len(titles) == 0 {
		return out
	}

	var b strings.Builder
	b.WriteString(out)
	b.WriteString("\n\n")
	b.WriteString(SourcesLine(titles))
	return b.String()
}

// SourcesLine formats source titles as a single line
func SourcesLine(titles []string) string {
	return fmt.Sprintf("Sources: %s", strings.Join(titles, ", "))
}
