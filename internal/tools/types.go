// Package tools implements the tool registry (C2): a catalog of callable
// tools with JSON-schema inputs and a uniform {success, …, error?} result
// envelope, dispatched by name.
package tools

import (
	"context"
	"encoding/json"
)

// ToolSchema is the wire shape advertised to the LLM for one tool.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Tool is one entry in the catalog. Call receives already-schema-validated
// arguments and the caller's user_id, forcibly injected by the registry
// regardless of what the LLM supplied (spec.md §4.2, §9).
type Tool interface {
	Name() string
	Description() string
	JSONSchema() map[string]any
	Call(ctx context.Context, args json.RawMessage, callerUserID string) Envelope
}

// Registry is the C2 contract: catalog() and invoke() from spec.md §4.2.
type Registry interface {
	Catalog() []ToolSchema
	Invoke(ctx context.Context, name string, args json.RawMessage, callerUserID string) Envelope
}
