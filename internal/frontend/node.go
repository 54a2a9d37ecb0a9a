package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	_ "embed"
)

// driverJS drives the TypeScript compiler API inside a Node process and
// reports results as JSON on stdout.
//
//go:embed driver.js
var driverJS string

// NodeEngine runs the TypeScript compiler in a Node subprocess. It needs a
// working directory where the "typescript" package is installed.
type NodeEngine struct {
	Node string // node binary, default "node"
	Dir  string // directory whose node_modules provides typescript
}

func NewNodeEngine(node, dir string) *NodeEngine {
	if node == "" {
		node = "node"
	}
	return &NodeEngine{Node: node, Dir: dir}
}

func (e *NodeEngine) Diagnose(ctx context.Context, source string) ([]RawDiagnostic, error) {
	out, err := e.invoke(ctx, "check", source)
	if err != nil {
		return nil, err
	}
	return out.Diagnostics, nil
}

func (e *NodeEngine) Emit(ctx context.Context, source string) (string, []RawDiagnostic, error) {
	out, err := e.invoke(ctx, "emit", source)
	if err != nil {
		return "", nil, err
	}
	return out.JS, out.Diagnostics, nil
}

// driverOutput is the JSON shape the driver script prints.
type driverOutput struct {
	JS          string          `json:"js"`
	Diagnostics []RawDiagnostic `json:"diagnostics"`
}

func (e *NodeEngine) invoke(ctx context.Context, mode, source string) (*driverOutput, error) {
	tmpDir, err := os.MkdirTemp("", "workert-frontend-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	driverPath := filepath.Join(tmpDir, "driver.js")
	if err := os.WriteFile(driverPath, []byte(driverJS), 0o644); err != nil {
		return nil, fmt.Errorf("writing driver script: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.Node, driverPath, mode)
	cmd.Dir = e.Dir
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("running compiler driver: %s", msg)
	}

	var out driverOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("parsing compiler driver output: %w", err)
	}
	return &out, nil
}
