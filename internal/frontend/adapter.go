package frontend

import (
	"context"
	"fmt"

	"github.com/mmkal/workert/internal/diag"
)

// CheckResult is the outcome of one check/lower pass. Lowered is non-empty
// only when Success is true: a failed check never yields code eligible for
// execution.
type CheckResult struct {
	Lowered     string
	Diagnostics []diag.Diagnostic
	Success     bool
}

// Adapter drives the engine with a fixed configuration and converts its
// native diagnostics into the normalized model. It is a pure function of the
// source text: no state is kept between calls.
type Adapter struct {
	engine Engine
}

func NewAdapter(engine Engine) *Adapter {
	return &Adapter{engine: engine}
}

// Check type-checks source and, when no pre-emit diagnostic has the error
// category, lowers it to JavaScript. Emit-time diagnostics are appended to
// the list but never flip Success: the gate is decided on the pre-emit pass
// alone. Returns an error only when the engine itself cannot be reached;
// guest-program problems are reported as diagnostics.
func (a *Adapter) Check(ctx context.Context, source string) (*CheckResult, error) {
	raw, err := a.engine.Diagnose(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("diagnosing source: %w", err)
	}

	ix := newLineIndex(source)
	res := &CheckResult{}
	for _, rd := range raw {
		res.Diagnostics = append(res.Diagnostics, convert(rd, ix))
	}
	res.Success = !diag.HasErrors(res.Diagnostics)
	if !res.Success {
		return res, nil
	}

	js, emitDiags, err := a.engine.Emit(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("lowering source: %w", err)
	}
	res.Lowered = js
	for _, rd := range emitDiags {
		res.Diagnostics = append(res.Diagnostics, convert(rd, ix))
	}
	return res, nil
}

// convert maps an engine diagnostic onto the normalized model, translating
// its absolute offset into 1-indexed line / 0-indexed column using the source
// unit's own newline index.
func convert(rd RawDiagnostic, ix lineIndex) diag.Diagnostic {
	d := diag.Diagnostic{
		Message:  rd.Message,
		Code:     rd.Code,
		Category: category(rd.Category),
	}
	if rd.Start != nil {
		line, column := ix.position(*rd.Start)
		d = d.At(line, column)
	}
	return d
}

func category(s string) diag.Category {
	switch s {
	case "error":
		return diag.Error
	case "warning":
		return diag.Warning
	case "suggestion":
		return diag.Suggestion
	default:
		return diag.Message
	}
}
