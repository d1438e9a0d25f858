package adapter

import (
	"context"
	"strings"
)

// Router dispatches requests to a provider chosen by the model id prefix
// ("anthropic/claude-sonnet-4" goes to the "anthropic" route when one is
// registered). Unrouted models go to the fallback.
type Router struct {
	fallback AIProvider
	routes   map[string]AIProvider
}

// NewRouter creates a Router that sends unmatched models to fallback.
func NewRouter(fallback AIProvider) *Router {
	return &Router{
		fallback: fallback,
		routes:   make(map[string]AIProvider),
	}
}

// Route registers p for models whose provider prefix equals prefix.
func (r *Router) Route(prefix string, p AIProvider) *Router {
	r.routes[prefix] = p
	return r
}

// Name returns the provider identifier.
func (r *Router) Name() string {
	return "router"
}

// ChatCompletion forwards req to the matching provider.
func (r *Router) ChatCompletion(ctx context.Context, req OpenAIRequest) (OpenAIResponse, error) {
	return r.resolve(req.Model).ChatCompletion(ctx, req)
}

// resolve returns the provider for model.
func (r *Router) resolve(model string) AIProvider {
	if i := strings.Index(model, "/"); i > 0 {
		if p, ok := r.routes[model[:i]]; ok {
			return p
		}
	}
	return r.fallback
}
