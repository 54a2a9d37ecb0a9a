package sandbox

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

// runnerMJS imports the entry module inside the container, invokes its
// default handler with one synthetic request and prints the response as
// {"status": int, "body": string} on stdout.
//
//go:embed runner.mjs
var runnerMJS string

// DockerLoader runs entry modules in throwaway Docker containers.
type DockerLoader struct {
	Policy Policy
}

// NewDockerLoader creates a loader with the given policy.
func NewDockerLoader(policy Policy) *DockerLoader {
	return &DockerLoader{Policy: policy}
}

func (l *DockerLoader) Load(ctx context.Context, req LoadRequest) (*Response, error) {
	if !l.Policy.IsImageAllowed(l.Policy.Image) {
		return nil, fmt.Errorf("image %q not in allowlist", l.Policy.Image)
	}

	// Write the module set into a temp dir mounted read-only.
	tmpDir, err := os.MkdirTemp("", "workert-sandbox-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	for name, text := range req.Modules {
		if name != filepath.Base(name) || name == "runner.mjs" {
			return nil, fmt.Errorf("invalid module name %q", name)
		}
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(text), 0o644); err != nil {
			return nil, fmt.Errorf("writing module %s: %w", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "runner.mjs"), []byte(runnerMJS), 0o644); err != nil {
		return nil, fmt.Errorf("writing runner: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.Policy.MaxTimeout)
	defer cancel()

	args := []string{
		"run", "--rm",
		"--name", "workert-" + req.ID,
		"--memory", l.Policy.MaxMemory,
		"--stop-timeout", fmt.Sprintf("%d", int(l.Policy.MaxTimeout.Seconds())),
		"-v", tmpDir + ":/sandbox:ro",
		"-w", "/sandbox",
	}

	// Egress is revoked unless both the request and the policy allow it.
	if !req.AllowNetwork || !l.Policy.Network {
		args = append(args, "--network=none")
	}

	args = append(args, l.Policy.Image)
	args = append(args, l.Policy.Command...)
	args = append(args, "/sandbox/runner.mjs", req.EntryModule)

	cmd := exec.CommandContext(ctx, "docker", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("running sandbox container: %s", msg)
	}

	var out struct {
		Status int    `json:"status"`
		Body   string `json:"body"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("parsing sandbox output: %w", err)
	}

	return &Response{Status: out.Status, Body: []byte(out.Body)}, nil
}
