package chatformat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskchat/internal/conversations"
	"taskchat/internal/llm"
)

func msg(role conversations.Role, content string) conversations.Message {
	return conversations.Message{Role: role, Content: content, CreatedAt: time.Now()}
}

func TestToWire_PrependsSystemPromptAndPreservesOrder(t *testing.T) {
	history := []conversations.Message{
		msg(conversations.RoleUser, "add milk to my list"),
		msg(conversations.RoleAssistant, "done"),
	}

	out := ToWire("system prompt text", history)

	require.Len(t, out, 3)
	require.Equal(t, "system", out[0].Role)
	require.Equal(t, "system prompt text", out[0].Content)
	require.Equal(t, "user", out[1].Role)
	require.Equal(t, "assistant", out[2].Role)
}

func TestToWire_CompleteToolCallPairIsKept(t *testing.T) {
	assistant := msg(conversations.RoleAssistant, "")
	assistant.ToolCalls = []conversations.ToolCall{{ID: "call_1", Name: "add_task", Arguments: json.RawMessage(`{"title":"milk"}`)}}
	toolResult := conversations.Message{Role: conversations.RoleTool, ToolCallID: "call_1", ToolName: "add_task", Content: `{"success":true}`}

	history := []conversations.Message{msg(conversations.RoleUser, "add milk"), assistant, toolResult}

	out := ToWire("sys", history)

	require.Len(t, out, 4)
	require.Equal(t, "assistant", out[2].Role)
	require.Len(t, out[2].ToolCalls, 1)
	require.Equal(t, "tool", out[3].Role)
	require.Equal(t, "call_1", out[3].ToolID)
}

func TestToWire_OrphanedAssistantToolCallIsDropped(t *testing.T) {
	assistant := msg(conversations.RoleAssistant, "")
	assistant.ToolCalls = []conversations.ToolCall{{ID: "call_1", Name: "add_task", Arguments: json.RawMessage(`{}`)}}
	// no tool response ever recorded for call_1; a new user turn follows.
	history := []conversations.Message{
		msg(conversations.RoleUser, "add milk"),
		assistant,
		msg(conversations.RoleUser, "never mind"),
	}

	out := ToWire("sys", history)

	require.Len(t, out, 3)
	require.Equal(t, "user", out[2].Role)
	require.Equal(t, "never mind", out[2].Content)
}

func TestToWire_PartiallyAnsweredToolCallIsDroppedEntirely(t *testing.T) {
	assistant := msg(conversations.RoleAssistant, "")
	assistant.ToolCalls = []conversations.ToolCall{
		{ID: "call_1", Name: "add_task", Arguments: json.RawMessage(`{}`)},
		{ID: "call_2", Name: "list_tasks", Arguments: json.RawMessage(`{}`)},
	}
	answeredOnly := conversations.Message{Role: conversations.RoleTool, ToolCallID: "call_1", Content: `{"success":true}`}

	history := []conversations.Message{assistant, answeredOnly}

	out := ToWire("sys", history)

	require.Len(t, out, 1)
	require.Equal(t, "system", out[0].Role)
}

func TestDraftsFromToolHop_BuildsAssistantThenToolDraftsInOrder(t *testing.T) {
	calls := []llm.ToolCall{{ID: "call_1", Name: "add_task", Args: json.RawMessage(`{"title":"milk"}`)}}
	results := []json.RawMessage{json.RawMessage(`{"success":true}`)}

	drafts := DraftsFromToolHop("", calls, results)

	require.Len(t, drafts, 2)
	require.Equal(t, conversations.RoleAssistant, drafts[0].Role)
	require.Len(t, drafts[0].ToolCalls, 1)
	require.Equal(t, conversations.RoleTool, drafts[1].Role)
	require.Equal(t, "call_1", drafts[1].ToolCallID)
	require.JSONEq(t, `{"success":true}`, drafts[1].Content)
}

func TestFinalAssistantDraft_HasNoToolCalls(t *testing.T) {
	d := FinalAssistantDraft("here is your list")
	require.Equal(t, conversations.RoleAssistant, d.Role)
	require.Empty(t, d.ToolCalls)
}
