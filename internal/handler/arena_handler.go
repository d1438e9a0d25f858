package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hpn/prompt-arena/internal/arena"
	"github.com/hpn/prompt-arena/internal/domain"
)

// Submitter starts a comparison run. *arena.Service implements it.
type Submitter interface {
	Submit(ctx context.Context, req arena.SubmitRequest) (<-chan arena.Event, error)
}

// ArenaHandler streams comparison runs as Server-Sent Events.
type ArenaHandler struct {
	service Submitter
	logger  *slog.Logger
}

// NewArenaHandler creates an ArenaHandler.
func NewArenaHandler(service Submitter, logger *slog.Logger) *ArenaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArenaHandler{service: service, logger: logger}
}

// HandleArena handles POST /api/arena.
func (h *ArenaHandler) HandleArena(c *gin.Context) {
	var req arena.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	events, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": ve.Message,
				"field": ve.Field,
				"type":  "validation_error",
			})
			return
		}
		h.logger.Error("submit failed", slog.String("error", err.Error()))
		sendError(c, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("client disconnected mid-run",
				slog.String("request_id", c.GetString("request_id")),
			)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent(string(ev.Type), ev)
			c.Writer.Flush()
		}
	}
}
