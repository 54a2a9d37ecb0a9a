package sandbox

import "time"

// Policy defines the resource envelope for sandboxed execution.
type Policy struct {
	Image      string        // runtime image the loader boots
	Command    []string      // interpreter command prefix inside the image
	MaxMemory  string        // Docker memory limit (e.g. "256m")
	MaxTimeout time.Duration // maximum wall-clock execution time
	Network    bool          // whether the loader may ever grant network access
	Images     []string      // allowed runtime images
}

// DefaultPolicy returns safe defaults for guest execution.
func DefaultPolicy() Policy {
	return Policy{
		Image:      "node:22-slim",
		Command:    []string{"node"},
		MaxMemory:  "256m",
		MaxTimeout: 30 * time.Second,
		Network:    false,
		Images: []string{
			"node:22-slim",
			"node:22-alpine",
		},
	}
}

// IsImageAllowed checks if an image is on the allowlist.
func (p Policy) IsImageAllowed(image string) bool {
	for _, allowed := range p.Images {
		if allowed == image {
			return true
		}
	}
	return false
}
