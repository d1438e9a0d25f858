package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicDefaultMaxTokens is sent when the request carries no limit;
// the Messages API requires one.
const anthropicDefaultMaxTokens = 1024

// AnthropicAdapter implements AIProvider for the Anthropic Messages API.
// It translates OpenAI-compatible requests to Anthropic format and vice versa.
type AnthropicAdapter struct {
	client anthropic.Client
}

// Compile-time check that AnthropicAdapter satisfies the AIProvider interface.
var _ AIProvider = (*AnthropicAdapter)(nil)

// NewAnthropicAdapter creates an adapter using apiKey. SDK retries are
// disabled: each arena call is a single attempt.
func NewAnthropicAdapter(apiKey string, baseURL string, timeout time.Duration) *AnthropicAdapter {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	return &AnthropicAdapter{client: anthropic.NewClient(opts...)}
}

// Name returns the provider identifier.
func (a *AnthropicAdapter) Name() string {
	return "anthropic"
}

// ChatCompletion sends the request through the Messages API and maps the
// answer back to OpenAI format.
func (a *AnthropicAdapter) ChatCompletion(ctx context.Context, req OpenAIRequest) (OpenAIResponse, error) {
	params := a.mapToAnthropicParams(req)

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			body := []byte(apiErr.RawJSON())
			return OpenAIResponse{}, &APIError{
				Provider:   a.Name(),
				StatusCode: apiErr.StatusCode,
				Message:    errorMessage(body),
				Body:       body,
			}
		}
		return OpenAIResponse{}, fmt.Errorf("anthropic: completion failed: %w", err)
	}

	var content strings.Builder
	for _, block := range msg.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(variant.Text)
		}
	}

	input := int(msg.Usage.InputTokens)
	output := int(msg.Usage.OutputTokens)

	return OpenAIResponse{
		ID:      msg.ID,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []OpenAIChoice{{
			Index:        0,
			Message:      OpenAIMessage{Role: "assistant", Content: content.String()},
			FinishReason: mapStopReason(string(msg.StopReason)),
		}},
		Usage: &OpenAIUsage{
			PromptTokens:     input,
			CompletionTokens: output,
			TotalTokens:      input + output,
		},
	}, nil
}

// mapToAnthropicParams converts an OpenAI request to Messages API params.
func (a *AnthropicAdapter) mapToAnthropicParams(req OpenAIRequest) anthropic.MessageNewParams {
	maxTokens := int64(anthropicDefaultMaxTokens)
	if req.MaxTokens != nil && *req.MaxTokens > 0 {
		maxTokens = int64(*req.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(mapAnthropicModel(req.Model)),
		MaxTokens: maxTokens,
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			params.System = append(params.System, anthropic.TextBlockParam{Text: msg.Content})
		case "assistant":
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	return params
}

// mapAnthropicModel converts routed OpenRouter-style ids to Anthropic model names.
func mapAnthropicModel(model string) string {
	name := strings.TrimPrefix(model, "anthropic/")

	modelMap := map[string]string{
		"claude-3.5-haiku":  "claude-3-5-haiku-latest",
		"claude-3.5-sonnet": "claude-3-5-sonnet-latest",
		"claude-3.7-sonnet": "claude-3-7-sonnet-latest",
		"claude-sonnet-4":   "claude-sonnet-4-0",
		"claude-opus-4":     "claude-opus-4-0",
	}

	if mapped, ok := modelMap[name]; ok {
		return mapped
	}

	// Pass through names already in Anthropic's format.
	return name
}

// mapStopReason converts Anthropic stop reasons to OpenAI finish reasons.
func mapStopReason(reason string) string {
	switch reason {
	case "max_tokens":
		return "length"
	case "tool_use":
		return "tool_calls"
	default:
		return "stop"
	}
}
