// ABOUTME: Static registry of invocable tools exposed over the MCP endpoint.
// ABOUTME: Built once at startup, read-only afterwards, safe for concurrent readers.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrToolCollision indicates a tool name is already registered.
var ErrToolCollision = errors.New("tool name collision")

// Annotations carries MCP tool annotations.
type Annotations struct {
	ReadOnly bool `json:"read_only"`
}

// Descriptor describes a tool to MCP clients. InputSchema is the
// JSON-Schema-shaped contract published by tools/list; field names are
// camelCase on the wire as the protocol requires.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Annotations Annotations    `json:"annotations"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Handler executes a tool call. Arguments arrive as the raw JSON object from
// the request; the handler owns decoding and validating them. The returned
// payload is JSON that the transport embeds in the tool-result envelope.
type Handler func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// Tool pairs a descriptor with its implementation.
type Tool struct {
	Descriptor Descriptor
	Handler    Handler
}

// Registry holds the process-lifetime tool catalog. Registration happens at
// startup; after that the registry only serves reads.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	tools  map[string]*Tool
	logger *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]*Tool),
		logger: logger,
	}
}

// Register adds a tool to the registry. Returns ErrToolCollision if a tool
// with the same name is already registered.
func (r *Registry) Register(t *Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Descriptor.Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %q", ErrToolCollision, name)
	}

	r.tools[name] = t
	r.order = append(r.order, name)

	r.logger.Info("tool registered", "tool_name", name)
	return nil
}

// Get returns the tool with the given name, if registered.
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// List returns all tool descriptors in registration order. tools/list
// publishes this snapshot unfiltered on every call.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Descriptor)
	}
	return out
}
