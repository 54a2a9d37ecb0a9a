package main

import (
	"go.uber.org/zap"

	"github.com/mmkal/workert/internal/config"
	"github.com/mmkal/workert/internal/frontend"
	"github.com/mmkal/workert/internal/playground"
	"github.com/mmkal/workert/internal/sandbox"
)

var profileFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&profileFlag, "sandbox-profile", "", "Sandbox runtime profile to apply (e.g. pinned)")
}

func newLogger() (*zap.Logger, error) {
	if debugFlag {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildPolicy derives the sandbox policy from config plus an optional
// runtime profile. The --sandbox-profile flag overrides a configured one.
func buildPolicy(cfg *config.Config) (sandbox.Policy, error) {
	timeout, err := cfg.SandboxTimeout()
	if err != nil {
		return sandbox.Policy{}, err
	}

	profile := cfg.Sandbox.Profile
	if profileFlag != "" {
		profile = profileFlag
	}

	return sandbox.Settings{
		Image:       cfg.Sandbox.Image,
		MaxMemory:   cfg.Sandbox.MaxMemory,
		Timeout:     timeout,
		ProfilesDir: cfg.Sandbox.ProfilesDir,
		Profile:     profile,
	}.Policy()
}

func buildAdapter(cfg *config.Config) *frontend.Adapter {
	return frontend.NewAdapter(frontend.NewNodeEngine(cfg.Frontend.Node, cfg.Frontend.Dir))
}

// buildPlayground wires the full pipeline: frontend adapter, entry-module
// synthesis and the Docker-backed sandbox dispatcher.
func buildPlayground(cfg *config.Config, log *zap.Logger) (*playground.Playground, error) {
	policy, err := buildPolicy(cfg)
	if err != nil {
		return nil, err
	}

	dispatcher := sandbox.NewDispatcher(sandbox.NewDockerLoader(policy), log)
	return playground.New(buildAdapter(cfg), dispatcher, log), nil
}
