package sandbox

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EntryModuleName is the module name the synthesized entry module is loaded
// under inside the sandbox.
const EntryModuleName = "entry.mjs"

// Dispatcher allocates one sandbox per call and maps loader-level failures
// (quota, load error, crash) onto the public failure envelope with status
// 500. It never retries: the guest program may have side effects, and
// at-most-once execution is part of the contract.
type Dispatcher struct {
	loader Loader
	log    *zap.Logger
}

func NewDispatcher(loader Loader, log *zap.Logger) *Dispatcher {
	return &Dispatcher{loader: loader, log: log}
}

// Run loads entryModuleText into a fresh sandbox with network egress revoked,
// invokes it once and returns the harness response verbatim.
func (d *Dispatcher) Run(ctx context.Context, entryModuleText string) (int, []byte) {
	id := uuid.NewString()

	resp, err := d.loader.Load(ctx, LoadRequest{
		ID:           id,
		EntryModule:  EntryModuleName,
		Modules:      map[string]string{EntryModuleName: entryModuleText},
		AllowNetwork: false,
	})
	if err != nil {
		d.log.Warn("sandbox load failed", zap.String("sandbox_id", id), zap.Error(err))
		body, _ := json.Marshal(map[string]any{
			"success": false,
			"error":   "Execution failed: " + err.Error(),
		})
		return http.StatusInternalServerError, body
	}

	d.log.Debug("sandbox responded",
		zap.String("sandbox_id", id),
		zap.Int("status", resp.Status))
	return resp.Status, resp.Body
}
