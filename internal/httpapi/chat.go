// Package httpapi implements the chat orchestrator (C6): the single
// POST /chat/{user_id} HTTP handler that ties the conversation store, the
// agent runner, and the tool registry into one request.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskchat/internal/agent"
	"taskchat/internal/auth"
	"taskchat/internal/chatformat"
	"taskchat/internal/conversations"
	"taskchat/internal/llm"
	"taskchat/internal/logging"
	"taskchat/internal/storeerr"
	"taskchat/internal/tools"
)

// Handler wires C3, C5, and C2 together behind the chat endpoint. It holds
// no per-request state; every field is a logically-immutable collaborator
// constructed once at startup (spec.md §5 "no module-level sessions").
type Handler struct {
	Conversations conversations.Store
	Registry      tools.Registry
	Provider      llm.Provider
	AgentConfig   agent.Config
	HistoryWindow int
	MaxMsgBytes   int
}

// Chat implements POST /chat/:user_id (spec.md §4.6).
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	authenticatedUserID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credential")
	}

	pathUserID := c.Param("user_id")
	if pathUserID != authenticatedUserID {
		return echo.NewHTTPError(http.StatusForbidden, "path user does not match credential")
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "malformed request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "message must not be empty")
	}
	if h.MaxMsgBytes > 0 && len(req.Message) > h.MaxMsgBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "message exceeds the maximum length")
	}

	conv, err := h.resolveConversation(c, authenticatedUserID, req.ConversationID)
	if err != nil {
		return err
	}

	history, err := h.Conversations.ReadHistory(ctx, authenticatedUserID, conv.ID, h.HistoryWindow)
	if err != nil {
		logging.WithTrace(ctx).WithError(err).WithField("conversation_id", conv.ID).Error("read_history_failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load conversation history")
	}

	result, err := agent.Run(ctx, h.Provider, h.Registry, h.AgentConfig, authenticatedUserID, req.Message, history)
	if err != nil {
		var transportErr *agent.TransportError
		if errors.As(err, &transportErr) {
			logging.WithTrace(ctx).WithError(err).WithField("conversation_id", conv.ID).Error("agent_transport_error")
			return echo.NewHTTPError(http.StatusBadGateway, "the assistant is temporarily unavailable, please try again")
		}
		logging.WithTrace(ctx).WithError(err).WithField("conversation_id", conv.ID).Error("agent_run_failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "something went wrong handling your message")
	}

	drafts := make([]conversations.Draft, 0, len(result.IntermediateDrafts)+2)
	drafts = append(drafts, chatformat.UserDraft(req.Message))
	drafts = append(drafts, result.IntermediateDrafts...)
	drafts = append(drafts, chatformat.FinalAssistantDraft(result.FinalText))

	if _, err := h.Conversations.AppendMessages(ctx, authenticatedUserID, conv.ID, drafts); err != nil {
		logging.WithTrace(ctx).WithError(err).WithField("conversation_id", conv.ID).Error("append_messages_failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not save the conversation turn")
	}

	return c.JSON(http.StatusOK, ChatResponse{
		ConversationID: conv.ID,
		Message:        result.FinalText,
		ToolCalls:      toolCallRecords(result.IntermediateDrafts),
		Usage: Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
	})
}

// resolveConversation implements spec.md §4.6 step 3: reuse the addressed
// conversation if the caller owns it, 404 if it doesn't exist or belongs to
// someone else (indistinguishable), or start a fresh one if none was named.
func (h *Handler) resolveConversation(ctx echo.Context, owner, conversationID string) (conversations.Conversation, error) {
	if conversationID == "" {
		conv, err := h.Conversations.CreateConversation(ctx.Request().Context(), owner)
		if err != nil {
			return conversations.Conversation{}, echo.NewHTTPError(http.StatusInternalServerError, "could not start a new conversation")
		}
		return conv, nil
	}
	if _, err := uuid.Parse(conversationID); err != nil {
		return conversations.Conversation{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "conversation_id must be a UUID")
	}
	conv, err := h.Conversations.GetConversation(ctx.Request().Context(), owner, conversationID)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return conversations.Conversation{}, echo.NewHTTPError(http.StatusNotFound, "conversation not found")
		}
		return conversations.Conversation{}, echo.NewHTTPError(http.StatusInternalServerError, "could not load conversation")
	}
	return conv, nil
}

// toolCallRecords flattens the intermediate drafts into the UI-facing
// tool-call record list (spec.md §4.6 step 7). Pairing relies on
// DraftsFromToolHop's invariant: every assistant-with-tool-calls draft is
// immediately followed by its own tool drafts, in call order.
func toolCallRecords(drafts []conversations.Draft) []ToolCallRecord {
	type pendingCall struct {
		name string
		args []byte
	}
	pending := map[string]pendingCall{}

	out := make([]ToolCallRecord, 0, len(drafts))
	for _, d := range drafts {
		switch d.Role {
		case conversations.RoleAssistant:
			for _, tc := range d.ToolCalls {
				pending[tc.ID] = pendingCall{name: tc.Name, args: tc.Arguments}
			}
		case conversations.RoleTool:
			p, ok := pending[d.ToolCallID]
			if !ok {
				continue
			}
			delete(pending, d.ToolCallID)
			out = append(out, ToolCallRecord{
				ToolName:  p.name,
				Arguments: p.args,
				Result:    []byte(d.Content),
				Success:   envelopeSucceeded(d.Content),
			})
		}
	}
	return out
}

func envelopeSucceeded(content string) bool {
	var envelope struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return false
	}
	return envelope.Success
}
