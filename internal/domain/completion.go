// Package domain contains the core business entities and value objects.
// These structs are framework-agnostic and represent the heart of the application.
package domain

import "math"

// ModelID names a provider/model pair, e.g. "openai/gpt-4o-mini" or
// "google/gemma-3-27b-it:free". The core never interprets it beyond routing.
type ModelID string

const (
	// MinMaxTokens is the lower bound applied to user-supplied max tokens.
	MinMaxTokens = 100

	// MaxMaxTokens is the upper bound applied to user-supplied max tokens.
	MaxMaxTokens = 2048

	// DefaultMaxTokens is used when the caller does not specify max tokens.
	DefaultMaxTokens = 1024

	// DefaultTemperature is used when the caller does not specify a temperature.
	DefaultTemperature = 0.7
)

// CompletionRequest describes one call to a model. It is built fresh per call.
type CompletionRequest struct {
	// ModelID is the routed model identifier.
	ModelID ModelID `json:"model"`

	// Prompt is sent as the sole user turn.
	Prompt string `json:"prompt"`

	// MaxTokens limits the output. Zero or negative omits the limit.
	MaxTokens int `json:"max_tokens"`

	// Temperature controls randomness and is passed through unclamped.
	Temperature float64 `json:"temperature"`
}

// ErrorKind classifies a failed CompletionResult.
type ErrorKind string

const (
	// ErrorKindNone marks a successful result.
	ErrorKindNone ErrorKind = ""

	// ErrorKindProvider is a non-2xx answer from the endpoint.
	ErrorKindProvider ErrorKind = "provider"

	// ErrorKindEmpty is a 2xx answer that carried no usable text.
	ErrorKindEmpty ErrorKind = "empty"

	// ErrorKindTransport covers network failures and malformed bodies.
	ErrorKindTransport ErrorKind = "transport"

	// ErrorKindTimeout is a call that ran past its deadline.
	ErrorKindTimeout ErrorKind = "timeout"
)

// TokenUsage reports the counters returned by the endpoint.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResult is the normalized outcome of one model call.
// On a terminal result exactly one of Text and Error is non-empty.
type CompletionResult struct {
	Text      string      `json:"text,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorKind ErrorKind   `json:"error_kind,omitempty"`
	Usage     *TokenUsage `json:"usage,omitempty"`
	LatencyMs int64       `json:"latency_ms"`
}

// Succeeded reports whether the result carries completion text.
func (r CompletionResult) Succeeded() bool {
	return r.Text != "" && r.Error == ""
}

// ClampMaxTokens bounds n to [lo, hi]. Callers at the server boundary use
// MinMaxTokens and MaxMaxTokens.
func ClampMaxTokens(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// ClampMaxTokensFloat bounds a client-supplied number to [lo, hi] before
// converting it, so out-of-range values cannot overflow int. NaN maps to lo.
func ClampMaxTokensFloat(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		return lo
	}
	return int(math.Min(math.Max(v, float64(lo)), float64(hi)))
}
