package agent

import "fmt"

// TransportError wraps an LLM transport failure that survived retries
// (spec.md §4.5 "LLM transport error → raise a typed AgentTransportError").
// The chat orchestrator (C6) maps it to a 502.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("agent: llm transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
