// Package chatformat implements the message formatter (C4): the mapping
// between stored conversation messages and LLM wire messages, and the
// runner-emitted-draft ordering rules (spec.md §4.4).
package chatformat

import (
	"encoding/json"

	"taskchat/internal/conversations"
	"taskchat/internal/llm"
)

// ToWire converts a system prompt plus ordered stored history into the wire
// message sequence for one LLM hop. Before converting, it repairs the
// history against the tool-call interleaving invariant.
//
// Repair policy (spec.md §4.4 requires picking and documenting one): this
// formatter DROPS any orphaned assistant-with-tool-calls message together
// with whatever tool responses for it did make it into storage, rather than
// refusing the whole request. The orchestrator is expected to never produce
// such histories in the first place (partial pairs are discarded before
// persistence, see internal/agent); this pass is a last line of defense for
// rows written by an earlier, buggier version of the writer, or recovered
// from a crash between individual inserts.
func ToWire(systemPrompt string, history []conversations.Message) []llm.Message {
	repaired := dropOrphanToolCallPairs(history)

	out := make([]llm.Message, 0, len(repaired)+1)
	out = append(out, llm.Message{Role: "system", Content: systemPrompt})
	for _, m := range repaired {
		out = append(out, toWireMessage(m))
	}
	return out
}

func toWireMessage(m conversations.Message) llm.Message {
	wm := llm.Message{Role: string(m.Role), Content: m.Content}
	switch m.Role {
	case conversations.RoleAssistant:
		for _, tc := range m.ToolCalls {
			wm.ToolCalls = append(wm.ToolCalls, llm.ToolCall{ID: tc.ID, Name: tc.Name, Args: json.RawMessage(tc.Arguments)})
		}
	case conversations.RoleTool:
		wm.ToolID = m.ToolCallID
	}
	return wm
}

// dropOrphanToolCallPairs removes any assistant message with tool_calls
// whose call-ids are not every one matched by a tool message immediately
// following it (before the next user/assistant-with-content message), along
// with whatever tool messages for that assistant message did appear.
func dropOrphanToolCallPairs(history []conversations.Message) []conversations.Message {
	out := make([]conversations.Message, 0, len(history))
	i := 0
	for i < len(history) {
		m := history[i]
		if m.Role != conversations.RoleAssistant || len(m.ToolCalls) == 0 {
			out = append(out, m)
			i++
			continue
		}

		want := make(map[string]bool, len(m.ToolCalls))
		for _, tc := range m.ToolCalls {
			want[tc.ID] = true
		}
		j := i + 1
		var toolMsgs []conversations.Message
		for j < len(history) && history[j].Role == conversations.RoleTool {
			if want[history[j].ToolCallID] {
				delete(want, history[j].ToolCallID)
				toolMsgs = append(toolMsgs, history[j])
			}
			j++
		}

		if len(want) == 0 {
			out = append(out, m)
			out = append(out, toolMsgs...)
		}
		// else: orphaned pair, dropped entirely (assistant message and any
		// partial tool messages gathered above are not appended).
		i = j
	}
	return out
}

// DraftsFromToolHop builds the stored drafts for one agent-runner hop: the
// assistant-with-tool-calls message, then one tool-result draft per call, in
// emitted order (spec.md §4.4 "Runner-emitted → stored drafts").
func DraftsFromToolHop(assistantText string, calls []llm.ToolCall, results []json.RawMessage) []conversations.Draft {
	toolCalls := make([]conversations.ToolCall, len(calls))
	for i, c := range calls {
		toolCalls[i] = conversations.ToolCall{ID: c.ID, Name: c.Name, Arguments: c.Args}
	}
	drafts := make([]conversations.Draft, 0, len(calls)+1)
	drafts = append(drafts, conversations.Draft{Role: conversations.RoleAssistant, Content: assistantText, ToolCalls: toolCalls})
	for i, c := range calls {
		var content string
		if i < len(results) {
			content = string(results[i])
		}
		drafts = append(drafts, conversations.Draft{
			Role: conversations.RoleTool, ToolCallID: c.ID, ToolName: c.Name, Content: content,
		})
	}
	return drafts
}

// FinalAssistantDraft builds the terminal draft for a turn: plain content,
// no tool_calls, never duplicating what intermediate drafts already recorded
// (spec.md §4.6 step 6).
func FinalAssistantDraft(text string) conversations.Draft {
	return conversations.Draft{Role: conversations.RoleAssistant, Content: text}
}

// UserDraft builds the draft for the triggering user message.
func UserDraft(text string) conversations.Draft {
	return conversations.Draft{Role: conversations.RoleUser, Content: text}
}
