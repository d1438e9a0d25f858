package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hpn/prompt-arena/internal/adapter"
	"github.com/hpn/prompt-arena/internal/arena"
	"github.com/hpn/prompt-arena/internal/domain"
)

// Forwarder sends a request upstream and returns the undecoded answer.
// *adapter.OpenRouterAdapter implements it.
type Forwarder interface {
	Forward(ctx context.Context, req adapter.OpenAIRequest) (*adapter.RawResponse, error)
}

// compareRequest is the single-model proxy body.
type compareRequest struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	MaxTokens   *float64 `json:"maxTokens"`
	Temperature *float64 `json:"temperature"`
}

// CompareHandler proxies one prompt to one model and returns the upstream
// body untouched.
type CompareHandler struct {
	upstream Forwarder
	limits   arena.Limits
	logger   *slog.Logger
}

// NewCompareHandler creates a CompareHandler.
func NewCompareHandler(upstream Forwarder, limits arena.Limits, logger *slog.Logger) *CompareHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompareHandler{upstream: upstream, limits: limits, logger: logger}
}

// HandleCompare handles POST /api/compare.
func (h *CompareHandler) HandleCompare(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		sendError(c, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	var body compareRequest
	if err := json.Unmarshal(raw, &body); err != nil {
		sendError(c, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if body.Model == "" || body.Prompt == "" {
		sendError(c, http.StatusBadRequest, "invalid_request", "Missing 'model' or 'prompt'")
		return
	}

	maxTokens := domain.ClampMaxTokens(h.limits.DefaultMaxTokens, h.limits.MinMaxTokens, h.limits.MaxMaxTokens)
	if body.MaxTokens != nil {
		maxTokens = domain.ClampMaxTokensFloat(*body.MaxTokens, h.limits.MinMaxTokens, h.limits.MaxMaxTokens)
	}

	temperature := h.limits.DefaultTemperature
	if body.Temperature != nil {
		temperature = *body.Temperature
	}

	c.Set("model", body.Model)

	resp, err := h.upstream.Forward(c.Request.Context(),
		adapter.NewUserRequest(body.Model, body.Prompt, maxTokens, temperature))
	if err != nil {
		h.logger.Warn("upstream unreachable",
			slog.String("model", body.Model),
			slog.String("error", err.Error()),
		)
		sendError(c, http.StatusBadGateway, "upstream_error", err.Error())
		return
	}

	if !resp.OK() {
		msg := fmt.Sprintf("OpenRouter returned %d", resp.StatusCode)
		var upstreamErr adapter.OpenAIError
		if json.Unmarshal(resp.Body, &upstreamErr) == nil && upstreamErr.Error.Message != "" {
			msg = upstreamErr.Error.Message
		}
		h.logger.Info("upstream error",
			slog.String("model", body.Model),
			slog.Int("status", resp.StatusCode),
		)
		c.JSON(resp.StatusCode, gin.H{"error": msg})
		return
	}

	if !json.Valid(resp.Body) {
		sendError(c, http.StatusBadGateway, "upstream_error", "Invalid response from OpenRouter")
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", resp.Body)
}

// sendError writes an error body in the arena format.
func sendError(c *gin.Context, status int, errType, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
		"type":  errType,
	})
}
