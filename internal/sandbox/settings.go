package sandbox

import (
	"fmt"
	"path/filepath"
	"time"
)

// Settings are the operator-tunable policy inputs, typically sourced from
// config plus an optional runtime profile. Empty fields keep the default.
type Settings struct {
	Image       string
	MaxMemory   string
	Timeout     time.Duration
	ProfilesDir string
	Profile     string // profile name, resolved to <ProfilesDir>/<name>.yaml
}

// Policy derives the effective sandbox policy: defaults, overlaid with the
// settings, overlaid with the named profile.
func (s Settings) Policy() (Policy, error) {
	policy := DefaultPolicy()
	if s.Image != "" {
		policy.Image = s.Image
	}
	if s.MaxMemory != "" {
		policy.MaxMemory = s.MaxMemory
	}
	if s.Timeout > 0 {
		policy.MaxTimeout = s.Timeout
	}

	if s.Profile != "" {
		profile, err := LoadProfile(filepath.Join(s.ProfilesDir, s.Profile+".yaml"))
		if err != nil {
			return Policy{}, fmt.Errorf("loading sandbox profile: %w", err)
		}
		policy, err = profile.Apply(policy)
		if err != nil {
			return Policy{}, err
		}
	}
	return policy, nil
}
