// Package render turns card Markdown into HTML for API responses.
package render

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown converts card text to HTML. Raw HTML in the input is not passed
// through.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown returns a Markdown renderer with tables, strikethrough and
// autolinks enabled.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		),
	}
}

// HTML renders text. On a conversion error it falls back to the escaped
// source so a card is always displayable.
func (m *Markdown) HTML(text string) string {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(text), &buf); err != nil {
		return html.EscapeString(text)
	}
	return buf.String()
}
