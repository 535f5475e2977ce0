package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// printer writes command output. Styles degrade to plain text when w is not
// a terminal.
type printer struct {
	w       io.Writer
	success lipgloss.Style
	heading lipgloss.Style
	label   lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:       w,
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		heading: r.NewStyle().Bold(true),
		label:   r.NewStyle().Faint(true),
	}
}

// Success prints a green line.
func (p *printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.success.Render(fmt.Sprintf(format, args...)))
}

// Heading prints a bold line.
func (p *printer) Heading(format string, args ...any) {
	fmt.Fprintln(p.w, p.heading.Render(fmt.Sprintf(format, args...)))
}

// Line prints an unstyled line.
func (p *printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Blank prints an empty line.
func (p *printer) Blank() {
	fmt.Fprintln(p.w)
}

// Fields prints aligned label/value rows, skipping empty values.
func (p *printer) Fields(rows [][2]string) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		label := row[0] + ":" + strings.Repeat(" ", width-len(row[0]))
		fmt.Fprintf(p.w, "  %s %s\n", p.label.Render(label), row[1])
	}
}

// Payload prints a heading followed by the pretty-printed response body.
func (p *printer) Payload(title, body string) {
	p.Heading("%s", title)
	fmt.Fprintln(p.w, body)
	p.Blank()
}
