// Package adapter provides implementations for external AI provider integrations.
package adapter

import "encoding/json"

// OpenAI-compatible request/response types.
// OpenRouter speaks this format natively; other providers are translated to it.

// OpenAIRequest represents an OpenAI chat completion request.
type OpenAIRequest struct {
	// Model is the routed model id (e.g., "openai/gpt-4o-mini").
	Model string `json:"model"`

	// Messages contains the conversation. The arena always sends a single user turn.
	Messages []OpenAIMessage `json:"messages"`

	// Temperature controls randomness. Optional.
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens limits the response length. Optional.
	MaxTokens *int `json:"max_tokens,omitempty"`
}

// OpenAIMessage represents a single message in the conversation.
type OpenAIMessage struct {
	// Role is one of: "system", "user", "assistant".
	Role string `json:"role"`

	// Content is the message text content.
	Content string `json:"content"`
}

// NewUserRequest builds a single-turn request for prompt.
// maxTokens <= 0 leaves the limit to the provider.
func NewUserRequest(model, prompt string, maxTokens int, temperature float64) OpenAIRequest {
	req := OpenAIRequest{
		Model:       model,
		Messages:    []OpenAIMessage{{Role: "user", Content: prompt}},
		Temperature: &temperature,
	}
	if maxTokens > 0 {
		req.MaxTokens = &maxTokens
	}
	return req
}

// OpenAIResponse represents an OpenAI chat completion response.
type OpenAIResponse struct {
	// ID is the unique identifier for this completion.
	ID string `json:"id"`

	// Object is always "chat.completion".
	Object string `json:"object"`

	// Created is the Unix timestamp of when the completion was created.
	Created int64 `json:"created"`

	// Model is the model used for completion.
	Model string `json:"model"`

	// Choices contains the generated completions.
	Choices []OpenAIChoice `json:"choices"`

	// Usage contains token usage statistics. Nil when the provider omits it.
	Usage *OpenAIUsage `json:"usage,omitempty"`
}

// FirstContent returns the content of the first choice, or "".
func (r OpenAIResponse) FirstContent() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// OpenAIChoice represents a single completion choice.
type OpenAIChoice struct {
	// Index is the position of this choice in the list.
	Index int `json:"index"`

	// Message contains the generated message.
	Message OpenAIMessage `json:"message"`

	// FinishReason indicates why the model stopped generating.
	FinishReason string `json:"finish_reason"`
}

// OpenAIUsage contains token usage statistics.
type OpenAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// OpenAIError represents an error response from OpenAI-compatible APIs.
type OpenAIError struct {
	Error OpenAIErrorDetail `json:"error"`
}

// errorMessage extracts error.message from a provider error body. Both
// OpenAI-compatible and Anthropic bodies use that shape.
func errorMessage(body []byte) string {
	var e OpenAIError
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Error.Message
}

// OpenAIErrorDetail contains the error details.
type OpenAIErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    any    `json:"code,omitempty"`
}
