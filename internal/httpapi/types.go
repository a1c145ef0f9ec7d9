package httpapi

import "encoding/json"

// ChatRequest is the body of POST /chat/{user_id} (spec.md §6).
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ToolCallRecord is one flattened tool-call record in the chat response, for
// UI transparency into what the assistant actually did (spec.md §4.6 step 7).
type ToolCallRecord struct {
	ToolName  string          `json:"tool_name"`
	Arguments json.RawMessage `json:"arguments"`
	Result    json.RawMessage `json:"result"`
	Success   bool            `json:"success"`
}

// Usage mirrors llm.Usage for the wire response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the 200 response body of POST /chat/{user_id} (spec.md §6).
type ChatResponse struct {
	ConversationID string           `json:"conversation_id"`
	Message        string           `json:"message"`
	ToolCalls      []ToolCallRecord `json:"tool_calls"`
	Usage          Usage            `json:"usage"`
}
