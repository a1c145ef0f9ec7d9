package tools

import "encoding/json"

// Error codes are a closed set (spec.md §4.2); the agent runner and the
// chat orchestrator never invent new ones.
const (
	ErrToolUnknown  = "TOOL_UNKNOWN"
	ErrValidation   = "VALIDATION_ERROR"
	ErrTaskNotFound = "TASK_NOT_FOUND"
	ErrUserNotFound = "USER_NOT_FOUND"
	ErrDatabase     = "DATABASE_ERROR"
	ErrInternal     = "INTERNAL_ERROR"
)

// Envelope is the uniform tool-result shape: either a success payload with
// domain fields merged in, or a closed-set error code plus a message
// (spec.md §3, §4.2). It is always JSON-serializable.
type Envelope struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"-"`
}

// MarshalJSON flattens Data's keys alongside success/error/message so the
// wire shape is a single flat object rather than a nested "data" field.
func (e Envelope) MarshalJSON() ([]byte, error) {
	out := map[string]any{"success": e.Success}
	if e.Error != "" {
		out["error"] = e.Error
	}
	if e.Message != "" {
		out["message"] = e.Message
	}
	for k, v := range e.Data {
		out[k] = v
	}
	return json.Marshal(out)
}

func ok(data map[string]any) Envelope {
	return Envelope{Success: true, Data: data}
}

func fail(code, message string) Envelope {
	return Envelope{Success: false, Error: code, Message: message}
}
