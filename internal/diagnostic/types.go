package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"entity-mapper/internal/common"
)

// Diagnostics collects the findings of a mapping file check or a type pair resolution,
// split by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic is one finding about a mapping rule or a target member.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code identifies the rule that produced the diagnostic.
	Code Code
	// Message is the human-readable description.
	Message string
	// TypePair is the "source->target" pair the finding belongs to, if any.
	TypePair string
	// FieldPath is the target member or source path, if any.
	FieldPath string
	// Suggestions are candidate source members.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError records a problem that prevents mapping.
func (d *Diagnostics) AddError(code Code, message, typePair, fieldPath string) {
	d.Errors = append(d.Errors, newDiagnostic(DiagnosticError, code, message, typePair, fieldPath))
}

// AddWarning records a member or rule that is skipped.
func (d *Diagnostics) AddWarning(code Code, message, typePair, fieldPath string, suggestions ...string) {
	w := newDiagnostic(DiagnosticWarning, code, message, typePair, fieldPath)
	w.Suggestions = suggestions
	d.Warnings = append(d.Warnings, w)
}

// AddInfo records a binding decision worth reviewing, such as an auto-match.
func (d *Diagnostics) AddInfo(code Code, message, typePair, fieldPath string) {
	d.Infos = append(d.Infos, newDiagnostic(DiagnosticInfo, code, message, typePair, fieldPath))
}

func newDiagnostic(sev DiagnosticSeverity, code Code, message, typePair, fieldPath string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Message: message, TypePair: typePair, FieldPath: fieldPath}
}

// Has reports whether a diagnostic of any severity carries code.
func (d *Diagnostics) Has(code Code) bool {
	for _, e := range d.All() {
		if e.Code == code {
			return true
		}
	}

	return false
}

// All returns every diagnostic, errors first.
func (d *Diagnostics) All() []Diagnostic {
	res := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	res = append(res, d.Errors...)
	res = append(res, d.Warnings...)

	return append(res, d.Infos...)
}

// Len returns the number of diagnostics of every severity.
func (d *Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.TypePair != "" {
		prefix = append(prefix, "["+d.TypePair+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
