package sandbox

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile overrides parts of the sandbox policy for a deployment, e.g. a
// pinned runtime image or a tighter timeout.
type Profile struct {
	Name      string   `yaml:"name"`
	Image     string   `yaml:"image"`
	Command   []string `yaml:"command"`
	MaxMemory string   `yaml:"max_memory"`
	Timeout   string   `yaml:"timeout"` // Go duration string, e.g. "10s"
}

// LoadProfile reads a runtime profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}

	return &p, nil
}

// Apply overlays the profile's non-empty fields onto a policy. An image set
// by a profile is also added to the allowlist: the profile is operator
// configuration, not guest input.
func (p *Profile) Apply(pol Policy) (Policy, error) {
	if p.Image != "" {
		pol.Image = p.Image
		if !pol.IsImageAllowed(p.Image) {
			pol.Images = append(pol.Images, p.Image)
		}
	}
	if len(p.Command) > 0 {
		pol.Command = p.Command
	}
	if p.MaxMemory != "" {
		pol.MaxMemory = p.MaxMemory
	}
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return Policy{}, fmt.Errorf("profile %s: invalid timeout: %w", p.Name, err)
		}
		pol.MaxTimeout = d
	}
	return pol, nil
}
