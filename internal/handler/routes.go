package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/hpn/prompt-arena/internal/ratelimit"
)

// Routes bundles what the router needs.
type Routes struct {
	Compare              *CompareHandler
	Arena                *ArenaHandler
	Limiter              ratelimit.Store
	CredentialConfigured bool
	Logger               *slog.Logger
}

// Register mounts the middleware chain and every endpoint on r.
func (rt Routes) Register(r *gin.Engine) {
	logger := rt.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(RecoveryMiddleware(logger))
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())
	r.Use(StripAuthHeadersMiddleware())
	r.Use(LoggingMiddleware(logger))

	r.GET("/health", HealthHandler(rt.CredentialConfigured))

	api := r.Group("/api")
	api.GET("/models", HandleModels)

	limited := api.Group("",
		RequireCredentialMiddleware(rt.CredentialConfigured),
		RateLimitMiddleware(rt.Limiter, logger),
	)
	limited.POST("/compare", rt.Compare.HandleCompare)
	limited.POST("/arena", rt.Arena.HandleArena)
}
