// Package adapter provides implementations for external AI provider integrations.
// It uses the Adapter pattern to abstract provider-specific APIs behind a common interface.
package adapter

import (
	"context"
	"fmt"
)

// AIProvider defines the interface for AI provider adapters.
// All provider implementations must satisfy this interface.
type AIProvider interface {
	// ChatCompletion performs a chat completion request.
	// A non-2xx answer is reported as *APIError; anything else is a transport failure.
	ChatCompletion(ctx context.Context, req OpenAIRequest) (OpenAIResponse, error)

	// Name returns the provider's identifier string.
	Name() string
}

// APIError is a non-2xx answer from a provider.
type APIError struct {
	Provider   string
	StatusCode int

	// Message is the provider-supplied error message, possibly empty.
	Message string

	// Body holds the raw response body for proxying.
	Body []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s API error [%d]: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error [%d]", e.Provider, e.StatusCode)
}

// DisplayMessage returns the provider message, or "HTTP <status>" when absent.
func (e *APIError) DisplayMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}
