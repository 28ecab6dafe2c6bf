package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"entity-mapper/internal/diagnostic"
)

// Printer writes diagnostics coloured by severity.
type Printer struct {
	out     io.Writer
	noColor bool
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer, noColor bool) *Printer {
	return &Printer{out: out, noColor: noColor}
}

// Diagnostics prints errors, then warnings, then infos, followed by a summary line.
func (p *Printer) Diagnostics(d *diagnostic.Diagnostics) {
	for _, e := range d.All() {
		p.diagnostic(e)
	}

	summary := p.color(color.FgGreen, color.Bold)
	if len(d.Errors) > 0 {
		summary = p.color(color.FgRed, color.Bold)
	} else if len(d.Warnings) > 0 {
		summary = p.color(color.FgYellow, color.Bold)
	}

	summary.Fprintf(p.out, "%s, %s, %s\n",
		plural(len(d.Errors), "error"), plural(len(d.Warnings), "warning"), plural(len(d.Infos), "info"))
}

// Success prints a highlighted one line message.
func (p *Printer) Success(format string, args ...any) {
	p.color(color.FgGreen).Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) diagnostic(d diagnostic.Diagnostic) {
	var header, body *color.Color

	switch d.Severity {
	case diagnostic.DiagnosticError:
		header, body = p.color(color.FgRed, color.Bold), p.color(color.FgRed)
	case diagnostic.DiagnosticWarning:
		header, body = p.color(color.FgYellow, color.Bold), p.color(color.FgYellow)
	default:
		header, body = p.color(color.FgCyan, color.Bold), p.color(color.FgCyan)
	}

	header.Fprintf(p.out, "%-7s ", strings.ToUpper(d.Severity.String()))
	body.Fprintln(p.out, d.String())

	for _, s := range d.Suggestions {
		fmt.Fprintf(p.out, "        → %s\n", s)
	}
}

func (p *Printer) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.noColor {
		c.DisableColor()
	}

	return c
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}

	return fmt.Sprintf("%d %ss", n, word)
}
