// Package main is the entry point for the prompt-arena server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hpn/prompt-arena/internal/app"
	"github.com/hpn/prompt-arena/internal/config"
	"github.com/hpn/prompt-arena/internal/handler"
	"github.com/hpn/prompt-arena/internal/ratelimit"
	"github.com/hpn/prompt-arena/internal/ui"
)

func main() {
	// =========================================================================
	// 1. Bootstrap logger until the configured level is known
	// =========================================================================
	logger := app.NewLogger(os.Getenv("ARENA_LOGGING_LEVEL"), "json", os.Stdout)

	// =========================================================================
	// 2. Load configuration (Singleton)
	// =========================================================================
	cfg, err := config.GetConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = app.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("host", cfg.Server.Host),
		slog.Int("port", cfg.Server.Port),
		slog.Bool("credential_configured", cfg.HasCredential()),
		slog.Int("rate_limit", cfg.RateLimit.Capacity),
		slog.Duration("rate_window", cfg.RateLimitWindow()),
	)

	if !cfg.HasCredential() {
		ui.PrintWarning(config.EnvOpenRouterAPIKey + " is not set; API routes will answer 500")
	}

	// =========================================================================
	// 3. Build providers and router
	// =========================================================================
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack := app.NewStack(cfg, logger)
	router := newRouter(cfg, stack, logger)

	// =========================================================================
	// 4. Start HTTP server with graceful shutdown
	// =========================================================================
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	ui.PrintBanner()
	ui.PrintStartupInfo(cfg.Server.Host, cfg.Server.Port, cfg.HasCredential(), stack.AnthropicDirect,
		fmt.Sprintf("%d/%s", cfg.RateLimit.Capacity, cfg.RateLimitWindow()))

	go func() {
		logger.Info("server starting", slog.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// =========================================================================
	// 5. Graceful shutdown on SIGTERM/SIGINT
	// =========================================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	ui.PrintShutdown()

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// In-flight runs observe the cancelled request context and settle.
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
	ui.PrintGoodbye()
}

// newRouter mounts every route on a fresh engine.
func newRouter(cfg *config.Configuration, stack *app.Stack, logger *slog.Logger) *gin.Engine {
	router := gin.New()

	handler.Routes{
		Compare:              handler.NewCompareHandler(stack.OpenRouter, app.Limits(cfg), logger),
		Arena:                handler.NewArenaHandler(stack.Service, logger),
		Limiter:              ratelimit.NewMemoryStore(app.RateLimitPolicy(cfg)),
		CredentialConfigured: cfg.HasCredential(),
		Logger:               logger,
	}.Register(router)

	return router
}
