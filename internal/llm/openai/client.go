// Package openai adapts github.com/openai/openai-go/v2 to the llm.Provider
// contract, exercising the same interface as internal/llm/anthropic against
// a different wire shape (SPEC_FULL.md §11). Streaming, the Responses API,
// image generation/attachment, and Gemini-raw fallbacks are all dropped
// relative to the teacher's version — none serve a tool-calling text chat
// service with no streaming in scope.
package openai

import (
	"context"
	"net/http"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"taskchat/internal/config"
	"taskchat/internal/llm"
	"taskchat/internal/logging"
)

// Client implements llm.Provider against the OpenAI Chat Completions API.
type Client struct {
	sdk sdk.Client
}

// New constructs a Client from OpenAIConfig.
func New(cfg config.OpenAIConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(httpClient),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(base, "/")))
	}
	return &Client{sdk: sdk.NewClient(opts...)}
}

func pickModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return "gpt-4o-mini"
	}
	return model
}

// Chat sends one hop to the Chat Completions API.
func (c *Client) Chat(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string) (llm.Message, llm.Usage, error) {
	params := sdk.ChatCompletionNewParams{
		Model:    pickModel(model),
		Messages: adaptMessages(msgs),
		Tools:    adaptSchemas(tools),
	}

	log := logging.WithTrace(ctx)
	start := time.Now()
	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	dur := time.Since(start)
	if err != nil {
		log.WithError(err).WithField("model", params.Model).WithField("duration", dur).Error("openai_chat_error")
		return llm.Message{}, llm.Usage{}, err
	}
	if len(resp.Choices) == 0 {
		return llm.Message{}, llm.Usage{}, errNoChoices
	}

	out := messageFromChoice(resp.Choices[0])
	usage := llm.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}

	log.WithFields(map[string]interface{}{
		"model":             params.Model,
		"duration":          dur,
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
	}).Debug("openai_chat_ok")

	return out, usage, nil
}

func messageFromChoice(choice sdk.ChatCompletionChoice) llm.Message {
	msg := llm.Message{Role: "assistant", Content: choice.Message.Content}
	for _, tc := range choice.Message.ToolCalls {
		fn := tc.Function
		msg.ToolCalls = append(msg.ToolCalls, llm.ToolCall{
			ID:   tc.ID,
			Name: fn.Name,
			Args: []byte(fn.Arguments),
		})
	}
	return msg
}
