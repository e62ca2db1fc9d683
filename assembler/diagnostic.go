// diagnostic.go - accumulated, non-fatal assembly diagnostics

// License: GPLv3 or later

package assembler

import "fmt"

// Severity distinguishes a hard error (assembly cannot produce a usable
// binary) from a warning.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is one accumulated problem found during lexing, parsing,
// layout, or emission. Assembly does not stop at the first one: every
// stage keeps going so a single run surfaces as many problems as possible,
// per spec.md §4.8/§7.
type Diagnostic struct {
	Severity Severity
	Message  string
	Span     Span
}

func (d Diagnostic) String() string {
	sev := "error"
	if d.Severity == SeverityWarning {
		sev = "warning"
	}
	if d.Span.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.Span.File, d.Span.Line, d.Span.Col, sev, d.Message)
	}
	return fmt.Sprintf("%s: %s", sev, d.Message)
}

// diagBag accumulates diagnostics across every assembly stage.
type diagBag struct {
	diags []Diagnostic
}

func (b *diagBag) errorf(span Span, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{Severity: SeverityError, Span: span, Message: fmt.Sprintf(format, args...)})
}

func (b *diagBag) warnf(span Span, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{Severity: SeverityWarning, Span: span, Message: fmt.Sprintf(format, args...)})
}

func (b *diagBag) hasErrors() bool {
	for _, d := range b.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
