// Package agent implements the agent runner (C5): the bounded tool-calling
// loop that drives one chat turn to completion, and the static system
// prompt (C7) it hands to the LLM.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"taskchat/internal/chatformat"
	"taskchat/internal/conversations"
	"taskchat/internal/llm"
	"taskchat/internal/logging"
	"taskchat/internal/tools"
)

var (
	tracer = otel.Tracer("taskchat/internal/agent")
	meter  = otel.Meter("taskchat/internal/agent")

	promptTokens, _ = meter.Int64Counter("taskchat.llm.prompt_tokens",
		metric.WithDescription("cumulative prompt tokens consumed by LLM hops"))
	completionTokens, _ = meter.Int64Counter("taskchat.llm.completion_tokens",
		metric.WithDescription("cumulative completion tokens produced by LLM hops"))
	toolHops, _ = meter.Int64Counter("taskchat.agent.tool_hops",
		metric.WithDescription("number of tool-calling hops executed per turn"))
)

// Config bounds one runner invocation (spec.md §4.5 inputs).
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	MaxToolHops int
	// TransportRetries is the number of attempts made against the LLM
	// provider per hop before a transport failure becomes a TransportError.
	TransportRetries int
}

// Result is what one turn produces, handed to C6 for persistence and
// response shaping (spec.md §4.5 step 3).
type Result struct {
	FinalText          string
	IntermediateDrafts []conversations.Draft
	Usage              llm.Usage
	FinishReason       string // "stop" | "hop_budget_exhausted"
}

const (
	FinishStop          = "stop"
	FinishHopsExhausted = "hop_budget_exhausted"
	hopExhaustedApology = "I wasn't able to finish that within my tool-call budget for this turn. Could you try rephrasing, or ask me to list your tasks so we can pick up from there?"
)

// Run executes one chat turn to completion: it builds the wire message
// sequence from the static system prompt and prior history, then loops
// calling the LLM and invoking tools until a plain-text answer or the hop
// budget is exhausted. A fresh call to Run holds no state beyond its
// arguments and return value (spec.md §4.5 "Determinism & idempotence").
func Run(ctx context.Context, provider llm.Provider, registry tools.Registry, cfg Config, callerUserID, userText string, history []conversations.Message) (Result, error) {
	ctx, span := tracer.Start(ctx, "agent.Run", trace.WithAttributes(
		attribute.String("taskchat.user_id", callerUserID),
		attribute.String("taskchat.model", cfg.Model),
	))
	defer span.End()

	maxHops := cfg.MaxToolHops
	if maxHops <= 0 {
		maxHops = 8
	}

	wire := chatformat.ToWire(systemPrompt, history)
	wire = append(wire, llm.Message{Role: "user", Content: userText})

	schemas := toolSchemas(registry.Catalog())

	var (
		drafts []conversations.Draft
		usage  llm.Usage
	)

	for hop := 0; hop < maxHops; hop++ {
		reply, hopUsage, err := chatWithRetry(ctx, provider, wire, schemas, cfg)
		usage.PromptTokens += hopUsage.PromptTokens
		usage.CompletionTokens += hopUsage.CompletionTokens
		usage.TotalTokens += hopUsage.TotalTokens
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "llm transport error")
			return Result{}, &TransportError{Err: err}
		}

		if len(reply.ToolCalls) == 0 {
			recordUsage(ctx, hopUsage, hop+1)
			span.SetAttributes(attribute.String("taskchat.finish_reason", FinishStop))
			return Result{
				FinalText:          reply.Content,
				IntermediateDrafts: drafts,
				Usage:              usage,
				FinishReason:       FinishStop,
			}, nil
		}

		results := make([]json.RawMessage, len(reply.ToolCalls))
		for i, call := range reply.ToolCalls {
			logging.WithTrace(ctx).WithFields(map[string]interface{}{
				"tool": call.Name,
				"args": string(logging.RedactJSON(call.Args)),
			}).Info("agent_tool_call")
			env := registry.Invoke(ctx, call.Name, call.Args, callerUserID)
			encoded, marshalErr := json.Marshal(env)
			if marshalErr != nil {
				encoded = []byte(fmt.Sprintf(`{"success":false,"error":%q}`, tools.ErrInternal))
			}
			results[i] = encoded
		}

		hopDrafts := chatformat.DraftsFromToolHop(reply.Content, reply.ToolCalls, results)
		drafts = append(drafts, hopDrafts...)

		wire = append(wire, llm.Message{Role: "assistant", Content: reply.Content, ToolCalls: reply.ToolCalls})
		for i, call := range reply.ToolCalls {
			wire = append(wire, llm.Message{Role: "tool", ToolID: call.ID, Content: string(results[i])})
		}

		recordUsage(ctx, hopUsage, hop+1)
	}

	span.SetAttributes(attribute.String("taskchat.finish_reason", FinishHopsExhausted))
	return Result{
		FinalText:          hopExhaustedApology,
		IntermediateDrafts: drafts,
		Usage:              usage,
		FinishReason:       FinishHopsExhausted,
	}, nil
}

func chatWithRetry(ctx context.Context, provider llm.Provider, wire []llm.Message, schemas []llm.ToolSchema, cfg Config) (llm.Message, llm.Usage, error) {
	var (
		reply llm.Message
		usage llm.Usage
	)
	err := withTransportRetry(ctx, cfg.TransportRetries, func() error {
		var callErr error
		reply, usage, callErr = provider.Chat(ctx, wire, schemas, cfg.Model)
		return callErr
	})
	return reply, usage, err
}

func recordUsage(ctx context.Context, u llm.Usage, hop int) {
	promptTokens.Add(ctx, int64(u.PromptTokens))
	completionTokens.Add(ctx, int64(u.CompletionTokens))
	toolHops.Add(ctx, 1, metric.WithAttributes(attribute.Int("taskchat.hop", hop)))
}

func toolSchemas(catalog []tools.ToolSchema) []llm.ToolSchema {
	out := make([]llm.ToolSchema, len(catalog))
	for i, t := range catalog {
		out[i] = llm.ToolSchema{Name: t.Name, Description: t.Description, Parameters: t.Parameters}
	}
	return out
}
