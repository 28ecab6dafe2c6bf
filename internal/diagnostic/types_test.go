package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics
	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddInfo("auto_matched", "Qty -> Quantity", "store.Line->warehouse.Line", "Quantity")
	d.AddWarning("unmapped_field", "no source member", "store.Line->warehouse.Line", "Note")
	d.AddError("unknown_member", "source has no member", "", "Ghost")

	assert.False(t, d.IsValid())
	assert.True(t, d.HasErrors())
	assert.Equal(t, 3, d.Len())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, DiagnosticError, all[0].Severity)
	assert.Equal(t, DiagnosticWarning, all[1].Severity)
	assert.Equal(t, DiagnosticInfo, all[2].Severity)

	assert.EqualError(t, d.Error(), "Ghost: [unknown_member] source has no member")
	assert.Equal(t, "[store.Line->warehouse.Line] Note: [unmapped_field] no source member", all[1].String())

	var other Diagnostics
	other.AddError("x", "second", "", "")
	d.Merge(other)
	assert.Len(t, d.Errors, 2)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}

func TestDiagnosticsHas(t *testing.T) {
	var d Diagnostics
	assert.False(t, d.Has(CodeUnmappedField))

	d.AddWarning(CodeUnmappedField, "Note has no source member", "store.Order->warehouse.Order", "Note",
		"Notes (score 0.80, compatible)")

	assert.True(t, d.Has(CodeUnmappedField))
	assert.False(t, d.Has(CodeUnmappedKey))
	assert.Equal(t, []string{"Notes (score 0.80, compatible)"}, d.Warnings[0].Suggestions)
}

func TestCodeRole(t *testing.T) {
	assert.Equal(t, Code("source_type_not_found"), CodeTypeNotFound.Role("source"))
	assert.Equal(t, Code("entity_type_not_struct"), CodeTypeNotStruct.Role("entity"))
	assert.Equal(t, CodeTypeNotFound, CodeTypeNotFound.Role(""))
}
