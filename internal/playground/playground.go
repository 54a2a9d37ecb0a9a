// Package playground runs the check-and-execute pipeline: type-check the
// guest source, gate on diagnostics, synthesize the entry module and dispatch
// it to the sandbox. It holds no state across runs.
package playground

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmkal/workert/internal/diag"
	"github.com/mmkal/workert/internal/frontend"
	"github.com/mmkal/workert/internal/harness"
)

// Failure is the error variant of the public response envelope. The success
// variant is produced inside the sandbox by the entry harness and passed
// through verbatim; the orchestrator never fabricates one. Diagnostics are
// set only for check failures.
type Failure struct {
	Success     bool              `json:"success"`
	Error       string            `json:"error"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
}

// FailureBody marshals a plain failure envelope.
func FailureBody(msg string) []byte {
	body, _ := json.Marshal(Failure{Success: false, Error: msg})
	return body
}

// Checker is the compiler frontend capability.
type Checker interface {
	Check(ctx context.Context, source string) (*frontend.CheckResult, error)
}

// Runner is the sandbox dispatch capability.
type Runner interface {
	Run(ctx context.Context, entryModuleText string) (int, []byte)
}

// Playground orchestrates one run per call. The steps are strictly
// sequential: the check completes, with all diagnostics collected, before
// synthesis ever sees lowered text.
type Playground struct {
	checker Checker
	runner  Runner
	log     *zap.Logger
}

func New(checker Checker, runner Runner, log *zap.Logger) *Playground {
	return &Playground{checker: checker, runner: runner, log: log}
}

// Check type-checks source without executing anything.
func (p *Playground) Check(ctx context.Context, source string) (*frontend.CheckResult, error) {
	return p.checker.Check(ctx, source)
}

// Execute wraps already-checked lowered code in the entry harness and
// dispatches it to the sandbox.
func (p *Playground) Execute(ctx context.Context, lowered string) (int, []byte) {
	return p.runner.Run(ctx, harness.Wrap(lowered))
}

// Run performs the full pipeline and returns an HTTP-style status and a JSON
// envelope body. A check failure short-circuits with 400 and the full
// diagnostic list; execution is never attempted for it.
func (p *Playground) Run(ctx context.Context, source string) (int, []byte) {
	res, err := p.Check(ctx, source)
	if err != nil {
		p.log.Error("compiler frontend unavailable", zap.Error(err))
		return http.StatusInternalServerError, FailureBody("Compiler frontend unavailable: " + err.Error())
	}

	if !res.Success {
		p.log.Debug("check failed", zap.Int("diagnostics", len(res.Diagnostics)))
		body, _ := json.Marshal(Failure{
			Success:     false,
			Error:       diag.Summary(res.Diagnostics),
			Diagnostics: res.Diagnostics,
		})
		return http.StatusBadRequest, body
	}

	return p.Execute(ctx, res.Lowered)
}
