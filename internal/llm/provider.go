// Package llm defines the Provider contract the agent runner (C5) consumes:
// a chat-completions API supporting tool-calling, the external interface
// named in spec.md §6. Streaming, extended-thinking, prompt-caching, and
// tokenizer preflight are all dropped from the teacher's version here since
// spec.md's non-goals exclude streaming and nothing else in scope needs them.
package llm

import (
	"context"
	"encoding/json"
)

// ToolCall is one LLM-emitted tool invocation request, carrying a unique
// call-id (spec.md §3, §6).
type ToolCall struct {
	ID   string
	Name string
	Args json.RawMessage
}

// Message is one wire message sent to or received from the provider.
type Message struct {
	Role    string // "system" | "user" | "assistant" | "tool"
	Content string
	ToolID  string // tool_call_id, set when Role == "tool"
	// ToolCalls is only set on assistant messages.
	ToolCalls []ToolCall
}

// ToolSchema is the wire shape advertised to the provider for one callable
// tool (spec.md §6: "{name, description, parameters: JSON schema}").
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Usage reports token accounting for one hop, echoed back to the HTTP
// caller (spec.md §6).
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider is the single LLM transport method the agent runner calls once
// per hop. Transport failures are returned as plain errors; the caller
// wraps them in agent.TransportError (spec.md §4.5).
type Provider interface {
	Chat(ctx context.Context, msgs []Message, tools []ToolSchema, model string) (Message, Usage, error)
}
