package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hpn/prompt-arena/internal/domain"
)

// HandleModels handles GET /api/models.
func HandleModels(c *gin.Context) {
	presets := make(map[domain.Preset][]domain.ModelID, 4)
	for _, p := range []domain.Preset{domain.PresetFree, domain.PresetBudget, domain.PresetFlagship, domain.PresetAll} {
		presets[p] = domain.PresetModels(p)
	}

	c.JSON(http.StatusOK, gin.H{
		"models":     domain.Catalog,
		"presets":    presets,
		"defaults":   domain.DefaultModels(),
		"evaluators": domain.EvaluatorModels,
	})
}

// HealthHandler reports liveness and whether the upstream credential is set.
func HealthHandler(credentialConfigured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":                "ok",
			"credential_configured": credentialConfigured,
			"time":                  time.Now().UTC().Format(time.RFC3339),
		})
	}
}
