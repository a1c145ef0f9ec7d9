package openai

import (
	sdk "github.com/openai/openai-go/v2"

	"taskchat/internal/llm"
)

// adaptSchemas converts portable llm.ToolSchema definitions into OpenAI SDK
// tool params.
func adaptSchemas(schemas []llm.ToolSchema) []sdk.ChatCompletionToolUnionParam {
	out := make([]sdk.ChatCompletionToolUnionParam, 0, len(schemas))
	for _, s := range schemas {
		def := sdk.FunctionDefinitionParam{
			Name:        s.Name,
			Description: sdk.String(s.Description),
			Parameters:  s.Parameters,
		}
		out = append(out, sdk.ChatCompletionFunctionTool(def))
	}
	return out
}

// adaptMessages converts portable llm.Message history to OpenAI SDK message
// params. Empty user and assistant content is replaced with a single space,
// empty system content with a generic assistant prompt, and empty tool
// content with a small error object: the Chat Completions API rejects empty
// string content on some message types.
func adaptMessages(msgs []llm.Message) []sdk.ChatCompletionMessageParamUnion {
	out := make([]sdk.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "system":
			content := m.Content
			if content == "" {
				content = "You are a helpful assistant."
			}
			out = append(out, sdk.SystemMessage(content))
		case "user":
			content := m.Content
			if content == "" {
				content = " "
			}
			out = append(out, sdk.UserMessage(content))
		case "assistant":
			if len(m.ToolCalls) == 0 {
				content := m.Content
				if content == "" {
					content = " "
				}
				out = append(out, sdk.AssistantMessage(content))
				continue
			}
			var asst sdk.ChatCompletionAssistantMessageParam
			content := m.Content
			if content == "" {
				content = " "
			}
			asst.Content.OfString = sdk.String(content)
			for _, tc := range m.ToolCalls {
				fn := sdk.ChatCompletionMessageFunctionToolCallParam{
					ID: tc.ID,
					Function: sdk.ChatCompletionMessageFunctionToolCallFunctionParam{
						Arguments: string(tc.Args),
						Name:      tc.Name,
					},
				}
				asst.ToolCalls = append(asst.ToolCalls, sdk.ChatCompletionMessageToolCallUnionParam{OfFunction: &fn})
			}
			out = append(out, sdk.ChatCompletionMessageParamUnion{OfAssistant: &asst})
		case "tool":
			content := m.Content
			if content == "" {
				content = `{"error": "empty tool response"}`
			}
			out = append(out, sdk.ToolMessage(content, m.ToolID))
		}
	}
	return out
}
