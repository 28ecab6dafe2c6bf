package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"entity-mapper/internal/diagnostic"
)

func TestPrinterDiagnostics(t *testing.T) {
	d := &diagnostic.Diagnostics{}
	d.AddError("unknown_member", "no member Foo", "store.Order->warehouse.Order", "Foo")
	d.AddWarning("unmapped_field", "Note has no source", "store.Order->warehouse.Order", "Note")
	d.Warnings[0].Suggestions = []string{"Notes (score 0.80, compatible)"}

	var buf bytes.Buffer
	NewPrinter(&buf, true).Diagnostics(d)

	out := buf.String()
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "no member Foo")
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "→ Notes (score 0.80, compatible)")
	assert.Contains(t, out, "1 error, 1 warning, 0 infos")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrinterEmpty(t *testing.T) {
	var buf bytes.Buffer

	p := NewPrinter(&buf, true)
	p.Diagnostics(&diagnostic.Diagnostics{})
	p.Success("%s is valid", "mapping.yaml")

	assert.Equal(t, "0 errors, 0 warnings, 0 infos\nmapping.yaml is valid\n", buf.String())
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 errors", plural(0, "error"))
	assert.Equal(t, "1 error", plural(1, "error"))
	assert.Equal(t, "2 infos", plural(2, "info"))
}
