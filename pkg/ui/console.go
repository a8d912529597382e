// Package ui prints the styled run summary and diagnostics.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color Palette
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // errors and headers
	mintGreen   = lipgloss.Color("#A8E6CF") // success
	amber       = lipgloss.Color("#FCD34D") // warnings
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

// Console writes styled lines to one writer. Styling degrades to plain
// text when the writer is not a terminal.
type Console struct {
	out io.Writer

	header  lipgloss.Style
	label   lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	failure lipgloss.Style
	quote   lipgloss.Style
}

// NewConsole creates a console bound to w.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		out:     w,
		header:  r.NewStyle().Foreground(salmonPink).Bold(true),
		label:   r.NewStyle().Foreground(mutedGray),
		info:    r.NewStyle().Foreground(brightWhite),
		success: r.NewStyle().Foreground(mintGreen).Bold(true),
		warn:    r.NewStyle().Foreground(amber),
		failure: r.NewStyle().Foreground(salmonPink).Bold(true),
		quote: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mintGreen).
			Padding(0, 1),
	}
}

func (c *Console) line(style lipgloss.Style, tag, format string, args ...any) {
	fmt.Fprintln(c.out, style.Render(tag+" "+fmt.Sprintf(format, args...)))
}

// Header prints a section title.
func (c *Console) Header(title string) {
	fmt.Fprintln(c.out, c.header.Render(title))
}

// Info prints an informational line.
func (c *Console) Info(format string, args ...any) {
	c.line(c.info, "[INFO]", format, args...)
}

// Success prints a success line.
func (c *Console) Success(format string, args ...any) {
	c.line(c.success, "[OK]", format, args...)
}

// Warn prints a warning line.
func (c *Console) Warn(format string, args ...any) {
	c.line(c.warn, "[WARN]", format, args...)
}

// Error prints an error line.
func (c *Console) Error(format string, args ...any) {
	c.line(c.failure, "[ERROR]", format, args...)
}

// Field prints an aligned "name: value" pair.
func (c *Console) Field(name string, value any) {
	fmt.Fprintf(c.out, "  %s %v\n", c.label.Render(fmt.Sprintf("%-12s", name+":")), value)
}

// Quote prints text in a bordered box.
func (c *Console) Quote(text string) {
	fmt.Fprintln(c.out, c.quote.Render(strings.TrimSpace(text)))
}
