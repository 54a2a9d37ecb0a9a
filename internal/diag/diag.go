// Package diag defines the normalized compiler diagnostic model shared by
// the frontend adapter and the HTTP response envelope.
package diag

import (
	"fmt"
	"strings"
)

// Category classifies a diagnostic.
type Category string

const (
	Error      Category = "error"
	Warning    Category = "warning"
	Suggestion Category = "suggestion"
	Message    Category = "message"
)

// Diagnostic is one check-time or build-time message. Line and Column are
// present together or absent together; absence means the diagnostic is not
// tied to a source position.
type Diagnostic struct {
	Message  string   `json:"message"`
	Code     int      `json:"code"`
	Category Category `json:"category"`
	Line     *int     `json:"line,omitempty"`   // 1-indexed
	Column   *int     `json:"column,omitempty"` // 0-indexed
}

// At returns a copy of d positioned at the given line and column.
func (d Diagnostic) At(line, column int) Diagnostic {
	d.Line = &line
	d.Column = &column
	return d
}

// HasPosition reports whether d carries source coordinates.
func (d Diagnostic) HasPosition() bool {
	return d.Line != nil && d.Column != nil
}

// String renders d as "<category> TS<code>[:<line>:<column>]: <message>".
// Tooling parses this format; keep it stable.
func (d Diagnostic) String() string {
	if d.HasPosition() {
		return fmt.Sprintf("%s TS%d:%d:%d: %s", d.Category, d.Code, *d.Line, *d.Column, d.Message)
	}
	return fmt.Sprintf("%s TS%d: %s", d.Category, d.Code, d.Message)
}

// HasErrors reports whether any diagnostic has the error category.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Category == Error {
			return true
		}
	}
	return false
}

// Summary joins the rendered diagnostics into the multi-line human-readable
// form used in check-failure responses.
func Summary(diags []Diagnostic) string {
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}
