// Package gateway sends single completion calls and normalizes every outcome
// into a domain.CompletionResult.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hpn/prompt-arena/internal/adapter"
	"github.com/hpn/prompt-arena/internal/domain"
)

const (
	// MsgEmptyResponse is reported when a 2xx answer carries no text.
	MsgEmptyResponse = "Empty response from model"

	// MsgUnknownError is reported when a transport failure has no message.
	MsgUnknownError = "Unknown error"

	// MsgTimeout is reported when a call runs past its deadline.
	MsgTimeout = "Request timed out"

	// MsgCancelled is reported when the caller abandoned the call.
	MsgCancelled = "Request cancelled"
)

// Completer is the capability the orchestrator and aggregator depend on.
// Complete never returns an error: every failure is captured in the result.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) domain.CompletionResult
}

// Gateway implements Completer on top of an adapter.AIProvider.
type Gateway struct {
	provider adapter.AIProvider
	logger   *slog.Logger
	now      func() time.Time
}

// Compile-time check that Gateway satisfies the Completer interface.
var _ Completer = (*Gateway)(nil)

// Option is a functional option for configuring Gateway.
type Option func(*Gateway)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithClock overrides the time source used for latency.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// New creates a Gateway that sends calls through provider.
func New(provider adapter.AIProvider, opts ...Option) *Gateway {
	g := &Gateway{
		provider: provider,
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Complete sends one single-turn request and normalizes the outcome.
// No retries are attempted.
func (g *Gateway) Complete(ctx context.Context, req domain.CompletionRequest) domain.CompletionResult {
	start := g.now()

	resp, err := g.provider.ChatCompletion(ctx,
		adapter.NewUserRequest(string(req.ModelID), req.Prompt, req.MaxTokens, req.Temperature))

	result := normalize(ctx, resp, err)
	result.LatencyMs = g.now().Sub(start).Milliseconds()
	if result.LatencyMs < 0 {
		result.LatencyMs = 0
	}

	if result.Succeeded() {
		g.logger.Debug("completion succeeded",
			slog.String("model", string(req.ModelID)),
			slog.Int64("latency_ms", result.LatencyMs),
		)
	} else {
		g.logger.Debug("completion failed",
			slog.String("model", string(req.ModelID)),
			slog.String("kind", string(result.ErrorKind)),
			slog.String("error", result.Error),
			slog.Int64("latency_ms", result.LatencyMs),
		)
	}

	return result
}

// normalize maps a provider answer onto the result shape.
func normalize(ctx context.Context, resp adapter.OpenAIResponse, err error) domain.CompletionResult {
	if err != nil {
		return failure(ctx, err)
	}

	text := resp.FirstContent()
	if text == "" {
		return domain.CompletionResult{
			Error:     MsgEmptyResponse,
			ErrorKind: domain.ErrorKindEmpty,
			Usage:     toUsage(resp.Usage),
		}
	}

	return domain.CompletionResult{
		Text:  text,
		Usage: toUsage(resp.Usage),
	}
}

// failure classifies err as a provider, timeout, or transport failure.
func failure(ctx context.Context, err error) domain.CompletionResult {
	var apiErr *adapter.APIError
	var netErr interface{ Timeout() bool }
	switch {
	case errors.As(err, &apiErr):
		return domain.CompletionResult{
			Error:     apiErr.DisplayMessage(),
			ErrorKind: domain.ErrorKindProvider,
		}

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return domain.CompletionResult{
			Error:     MsgTimeout,
			ErrorKind: domain.ErrorKindTimeout,
		}

	case errors.Is(err, context.Canceled):
		return domain.CompletionResult{
			Error:     MsgCancelled,
			ErrorKind: domain.ErrorKindTransport,
		}
	}

	msg := err.Error()
	if msg == "" {
		msg = MsgUnknownError
	}
	return domain.CompletionResult{
		Error:     msg,
		ErrorKind: domain.ErrorKindTransport,
	}
}

func toUsage(u *adapter.OpenAIUsage) *domain.TokenUsage {
	if u == nil {
		return nil
	}
	return &domain.TokenUsage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}
