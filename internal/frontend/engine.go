// Package frontend wraps the external TypeScript check/lower engine and
// normalizes its diagnostics.
package frontend

import "context"

// RawDiagnostic is a diagnostic exactly as the engine reports it: positioned
// by absolute character offset into the source unit, not yet converted to
// line/column coordinates.
type RawDiagnostic struct {
	Code     int    `json:"code"`
	Category string `json:"category"` // "error", "warning", "suggestion" or "message"
	Message  string `json:"message"`
	Start    *int   `json:"start"` // absolute offset, nil for positionless diagnostics
}

// Engine is the external compiler capability. Diagnose runs the full pre-emit
// pass (syntactic and semantic); Emit lowers the source to JavaScript and
// reports any diagnostics the lowering itself produced. The adapter decides
// whether Emit may be called at all.
type Engine interface {
	Diagnose(ctx context.Context, source string) ([]RawDiagnostic, error)
	Emit(ctx context.Context, source string) (js string, diags []RawDiagnostic, err error)
}
