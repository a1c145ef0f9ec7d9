package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type registry struct {
	byName  map[string]Tool
	schemas map[string]*jsonschema.Schema
}

// NewRegistry compiles each tool's JSON schema once at construction time and
// returns a Registry ready to serve Catalog/Invoke.
func NewRegistry(toolList ...Tool) (Registry, error) {
	r := &registry{byName: make(map[string]Tool, len(toolList)), schemas: make(map[string]*jsonschema.Schema, len(toolList))}
	for _, t := range toolList {
		compiled, err := compileSchema(t.Name(), t.JSONSchema())
		if err != nil {
			return nil, fmt.Errorf("compiling schema for tool %q: %w", t.Name(), err)
		}
		r.byName[t.Name()] = t
		r.schemas[t.Name()] = compiled
	}
	return r, nil
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	resource := "tool://" + name
	if err := c.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return c.Compile(resource)
}

func (r *registry) Catalog() []ToolSchema {
	out := make([]ToolSchema, 0, len(r.byName))
	for name, t := range r.byName {
		out = append(out, ToolSchema{Name: name, Description: t.Description(), Parameters: t.JSONSchema()})
	}
	return out
}

// Invoke performs, in order: lookup, owner stripping, schema validation,
// delegation with the caller's user_id, and outcome mapping. Owner-like
// fields are stripped before validation so that a smuggled owner is discarded
// rather than failing the call against schemas that forbid extra properties.
// It never panics across its boundary: any unexpected fault is
// captured as an INTERNAL_ERROR envelope so the agent loop always gets a
// tool response for every tool call.
func (r *registry) Invoke(ctx context.Context, name string, args json.RawMessage, callerUserID string) (envelope Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			envelope = fail(ErrInternal, fmt.Sprintf("tool panicked: %v", rec))
		}
	}()

	t, ok := r.byName[name]
	if !ok {
		return fail(ErrToolUnknown, fmt.Sprintf("no such tool: %s", name))
	}

	schema := r.schemas[name]
	var decoded any
	if len(args) == 0 {
		decoded = map[string]any{}
	} else if err := json.Unmarshal(args, &decoded); err != nil {
		return fail(ErrValidation, "arguments are not valid JSON")
	}

	// Owner injection choke point: any owner-like field the caller supplied
	// is discarded and replaced. Tools never see args.owner; they receive
	// callerUserID as a distinct parameter, so there is nothing in the JSON
	// object for a malicious argument to override. stripOwnerField deletes
	// the keys from decoded in place, so validation below sees them gone.
	sanitized, err := stripOwnerField(decoded)
	if err != nil {
		return fail(ErrValidation, "could not process arguments")
	}

	if schema != nil {
		if err := schema.Validate(decoded); err != nil {
			return fail(ErrValidation, err.Error())
		}
	}

	return t.Call(ctx, sanitized, callerUserID)
}

// stripOwnerField removes any "owner" key a caller (i.e. the LLM) may have
// supplied before re-encoding, so a tool implementation that naively reads
// args.owner finds nothing there — the only owner it can act on is the one
// passed as callerUserID (spec.md §4.2, §4.5, §9 adversarial test case).
func stripOwnerField(decoded any) (json.RawMessage, error) {
	if m, ok := decoded.(map[string]any); ok {
		delete(m, "owner")
		delete(m, "user_id")
		decoded = m
	}
	return json.Marshal(decoded)
}
