// Package sandbox dispatches synthesized entry modules to an isolated
// execution context and retrieves their single response.
package sandbox

import "context"

// LoadRequest describes one isolated execution context. Exactly one context
// is created per request; its ID is freshly generated and never reused.
type LoadRequest struct {
	ID           string            // unique per request, never derived from user input
	EntryModule  string            // name of the module to invoke
	Modules      map[string]string // module name -> source text
	AllowNetwork bool              // outbound egress; always false for guest code
}

// Response is what the entry module's handler produced.
type Response struct {
	Status int
	Body   []byte
}

// Loader provisions an isolated context, invokes the entry module's handler
// once with a synthetic request and returns its response. An error means the
// sandbox could not be loaded or invoked, not that the guest program failed:
// guest failures are caught by the harness and come back as a Response.
type Loader interface {
	Load(ctx context.Context, req LoadRequest) (*Response, error)
}
