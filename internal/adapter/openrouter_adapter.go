// Package adapter provides implementations for external AI provider integrations.
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultOpenRouterBaseURL is the default OpenRouter API endpoint.
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 120 * time.Second

	// maxResponseBytes caps how much of an upstream body is read.
	maxResponseBytes = 8 << 20
)

// ErrMissingAPIKey is returned by requests made without a credential.
var ErrMissingAPIKey = errors.New("openrouter: API key not configured")

// OpenRouterAdapter implements AIProvider for the OpenRouter chat completion API.
// The wire format is already OpenAI-compatible, so no translation is needed.
type OpenRouterAdapter struct {
	apiKey     string
	baseURL    string
	referer    string
	title      string
	httpClient *http.Client
}

// OpenRouterOption is a functional option for configuring OpenRouterAdapter.
type OpenRouterOption func(*OpenRouterAdapter)

// WithBaseURL sets a custom base URL for the OpenRouter API.
func WithBaseURL(url string) OpenRouterOption {
	return func(o *OpenRouterAdapter) {
		if url != "" {
			o.baseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) OpenRouterOption {
	return func(o *OpenRouterAdapter) {
		o.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) OpenRouterOption {
	return func(o *OpenRouterAdapter) {
		if timeout > 0 {
			o.httpClient.Timeout = timeout
		}
	}
}

// WithAttribution sets the HTTP-Referer and X-Title headers OpenRouter uses
// to attribute traffic to an app.
func WithAttribution(referer, title string) OpenRouterOption {
	return func(o *OpenRouterAdapter) {
		o.referer = referer
		o.title = title
	}
}

// NewOpenRouterAdapter creates a new OpenRouterAdapter with the given API key.
func NewOpenRouterAdapter(apiKey string, opts ...OpenRouterOption) *OpenRouterAdapter {
	o := &OpenRouterAdapter{
		apiKey:  apiKey,
		baseURL: DefaultOpenRouterBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Name returns the provider identifier.
func (o *OpenRouterAdapter) Name() string {
	return "openrouter"
}

// Configured reports whether the adapter has a credential.
func (o *OpenRouterAdapter) Configured() bool {
	return o.apiKey != ""
}

// RawResponse is an upstream answer before decoding.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the upstream answered 2xx.
func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Forward sends req upstream and returns the undecoded answer.
// Only transport failures are returned as errors.
func (o *OpenRouterAdapter) Forward(ctx context.Context, req OpenAIRequest) (*RawResponse, error) {
	if o.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal openrouter request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.referer != "" {
		httpReq.Header.Set("HTTP-Referer", o.referer)
	}
	if o.title != "" {
		httpReq.Header.Set("X-Title", o.title)
	}

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute openrouter request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read openrouter response: %w", err)
	}

	return &RawResponse{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// ChatCompletion performs a chat completion request against OpenRouter.
func (o *OpenRouterAdapter) ChatCompletion(ctx context.Context, req OpenAIRequest) (OpenAIResponse, error) {
	raw, err := o.Forward(ctx, req)
	if err != nil {
		return OpenAIResponse{}, err
	}

	if !raw.OK() {
		return OpenAIResponse{}, o.ParseAPIError(raw)
	}

	var out OpenAIResponse
	if err := json.Unmarshal(raw.Body, &out); err != nil {
		return OpenAIResponse{}, fmt.Errorf("failed to unmarshal openrouter response: %w", err)
	}

	return out, nil
}

// ParseAPIError builds an APIError from a non-2xx answer, pulling
// error.message from the body when present.
func (o *OpenRouterAdapter) ParseAPIError(raw *RawResponse) *APIError {
	return &APIError{
		Provider:   o.Name(),
		StatusCode: raw.StatusCode,
		Message:    errorMessage(raw.Body),
		Body:       raw.Body,
	}
}
