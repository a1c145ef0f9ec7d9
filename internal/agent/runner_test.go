package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"taskchat/internal/conversations"
	"taskchat/internal/llm"
	"taskchat/internal/tools"
)

type scriptedProvider struct {
	replies []llm.Message
	usages  []llm.Usage
	errs    []error
	calls   int
}

func (p *scriptedProvider) Chat(_ context.Context, _ []llm.Message, _ []llm.ToolSchema, _ string) (llm.Message, llm.Usage, error) {
	i := p.calls
	p.calls++
	var err error
	if i < len(p.errs) {
		err = p.errs[i]
	}
	return p.replies[i], p.usages[i], err
}

type stubRegistry struct {
	catalog []tools.ToolSchema
	invoke  func(name string, args json.RawMessage, callerUserID string) tools.Envelope
}

func (r *stubRegistry) Catalog() []tools.ToolSchema { return r.catalog }
func (r *stubRegistry) Invoke(_ context.Context, name string, args json.RawMessage, callerUserID string) tools.Envelope {
	return r.invoke(name, args, callerUserID)
}

func TestRun_NoToolCallsReturnsFinalTextImmediately(t *testing.T) {
	provider := &scriptedProvider{
		replies: []llm.Message{{Role: "assistant", Content: "you have no tasks"}},
		usages:  []llm.Usage{{PromptTokens: 10, CompletionTokens: 4, TotalTokens: 14}},
	}
	registry := &stubRegistry{}

	res, err := Run(context.Background(), provider, registry, Config{MaxToolHops: 8, TransportRetries: 1}, "u1", "do I have tasks?", nil)

	require.NoError(t, err)
	require.Equal(t, "you have no tasks", res.FinalText)
	require.Equal(t, FinishStop, res.FinishReason)
	require.Empty(t, res.IntermediateDrafts)
	require.Equal(t, 14, res.Usage.TotalTokens)
}

func TestRun_ToolCallThenStopProducesPairedDrafts(t *testing.T) {
	provider := &scriptedProvider{
		replies: []llm.Message{
			{Role: "assistant", ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "add_task", Args: json.RawMessage(`{"title":"milk","owner":"someone-else"}`)}}},
			{Role: "assistant", Content: "added milk to your list"},
		},
		usages: []llm.Usage{{}, {}},
	}
	registry := &stubRegistry{
		catalog: []tools.ToolSchema{{Name: "add_task"}},
		invoke: func(name string, args json.RawMessage, callerUserID string) tools.Envelope {
			require.Equal(t, "u1", callerUserID)
			var decoded map[string]any
			require.NoError(t, json.Unmarshal(args, &decoded))
			return tools.Envelope{Success: true}
		},
	}

	res, err := Run(context.Background(), provider, registry, Config{MaxToolHops: 8, TransportRetries: 1}, "u1", "add milk", nil)

	require.NoError(t, err)
	require.Equal(t, "added milk to your list", res.FinalText)
	require.Len(t, res.IntermediateDrafts, 2)
	require.Equal(t, conversations.RoleAssistant, res.IntermediateDrafts[0].Role)
	require.Len(t, res.IntermediateDrafts[0].ToolCalls, 1)
	require.Equal(t, conversations.RoleTool, res.IntermediateDrafts[1].Role)
	require.Equal(t, "call_1", res.IntermediateDrafts[1].ToolCallID)
}

func TestRun_HopBudgetExhaustedReturnsSyntheticApology(t *testing.T) {
	call := llm.ToolCall{ID: "call_1", Name: "list_tasks", Args: json.RawMessage(`{}`)}
	reply := llm.Message{Role: "assistant", ToolCalls: []llm.ToolCall{call}}
	provider := &scriptedProvider{
		replies: []llm.Message{reply, reply, reply},
		usages:  []llm.Usage{{}, {}, {}},
	}
	registry := &stubRegistry{
		invoke: func(string, json.RawMessage, string) tools.Envelope { return tools.Envelope{Success: true} },
	}

	res, err := Run(context.Background(), provider, registry, Config{MaxToolHops: 3, TransportRetries: 1}, "u1", "list everything forever", nil)

	require.NoError(t, err)
	require.Equal(t, FinishHopsExhausted, res.FinishReason)
	require.NotEmpty(t, res.FinalText)
	require.Len(t, res.IntermediateDrafts, 6)
}

func TestRun_TransportErrorAfterRetriesBecomesTransportError(t *testing.T) {
	provider := &scriptedProvider{
		replies: []llm.Message{{}, {}},
		usages:  []llm.Usage{{}, {}},
		errs:    []error{errors.New("connection reset"), errors.New("connection reset")},
	}
	registry := &stubRegistry{}

	_, err := Run(context.Background(), provider, registry, Config{MaxToolHops: 8, TransportRetries: 2}, "u1", "hello", nil)

	require.Error(t, err)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}
