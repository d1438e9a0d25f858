// Package app wires configuration into the provider stack shared by the
// server and the CLI.
package app

import (
	"io"
	"log/slog"
	"strings"

	"github.com/hpn/prompt-arena/internal/adapter"
	"github.com/hpn/prompt-arena/internal/arena"
	"github.com/hpn/prompt-arena/internal/config"
	"github.com/hpn/prompt-arena/internal/gateway"
	"github.com/hpn/prompt-arena/internal/ratelimit"
	"github.com/hpn/prompt-arena/internal/security"
)

// Stack is the assembled provider chain.
type Stack struct {
	// OpenRouter is the raw upstream, also used by the proxy route.
	OpenRouter *adapter.OpenRouterAdapter

	// Provider routes anthropic/* to Anthropic directly when configured.
	Provider adapter.AIProvider

	Gateway *gateway.Gateway
	Service *arena.Service

	AnthropicDirect bool
}

// NewStack builds the provider chain described by cfg.
func NewStack(cfg *config.Configuration, logger *slog.Logger) *Stack {
	openRouter := adapter.NewOpenRouterAdapter(cfg.OpenRouter.APIKey,
		adapter.WithBaseURL(cfg.OpenRouter.BaseURL),
		adapter.WithTimeout(cfg.UpstreamTimeout()),
		adapter.WithAttribution(cfg.OpenRouter.Referer, cfg.OpenRouter.Title),
	)

	router := adapter.NewRouter(openRouter)
	direct := cfg.Anthropic.APIKey != ""
	if direct {
		router.Route("anthropic", adapter.NewAnthropicAdapter(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL, cfg.UpstreamTimeout()))
	}

	gw := gateway.New(router, gateway.WithLogger(logger))

	svc := arena.NewService(gw, Limits(cfg), logger, arena.WithCallTimeout(cfg.CallTimeout()))

	return &Stack{
		OpenRouter:      openRouter,
		Provider:        router,
		Gateway:         gw,
		Service:         svc,
		AnthropicDirect: direct,
	}
}

// Limits converts the completion settings.
func Limits(cfg *config.Configuration) arena.Limits {
	return arena.Limits{
		MinMaxTokens:       cfg.Completion.MinMaxTokens,
		MaxMaxTokens:       cfg.Completion.MaxMaxTokens,
		DefaultMaxTokens:   cfg.Completion.DefaultMaxTokens,
		DefaultTemperature: cfg.Completion.DefaultTemperature,
	}
}

// RateLimitPolicy converts the rate limit settings.
func RateLimitPolicy(cfg *config.Configuration) ratelimit.Policy {
	return ratelimit.Policy{
		Capacity: cfg.RateLimit.Capacity,
		Window:   cfg.RateLimitWindow(),
	}
}

// NewLogger creates a structured logger that redacts credentials.
// Unknown levels fall back to info; format "text" selects the text handler.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var inner slog.Handler
	if strings.EqualFold(format, "text") {
		inner = slog.NewTextHandler(w, opts)
	} else {
		inner = slog.NewJSONHandler(w, opts)
	}

	return slog.New(security.NewRedactedHandler(inner))
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
