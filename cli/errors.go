package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/cryptofifo/errors"
)

var (
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	formatter *errors.TextFormatter
}

// NewErrorRenderer creates a renderer with source content for context.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	var opts []errors.TextFormatterOption
	if source != nil {
		opts = append(opts, errors.WithSource(source))
	}
	return &ErrorRenderer{formatter: errors.NewTextFormatter(opts...)}
}

// Render formats a single error: the message in the error color, context lines dimmed.
func (r *ErrorRenderer) Render(err error) string {
	text := strings.TrimRight(r.formatter.Format(err), "\n")

	message, context, found := strings.Cut(text, "\n\n")

	var buf strings.Builder
	buf.WriteString(errorStyle.Render(message))
	if !found {
		return buf.String()
	}

	buf.WriteString("\n\n")
	for i, line := range strings.Split(context, "\n") {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(errContextStyle.Render(line))
	}
	return buf.String()
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}
