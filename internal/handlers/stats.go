package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/directory-api/internal/dto"
	apierrors "github.com/yukikurage/directory-api/internal/errors"
	"github.com/yukikurage/directory-api/internal/services"
	"github.com/yukikurage/directory-api/internal/utils"
	"go.uber.org/zap"
)

type StatsHandler struct {
	statsService *services.StatsService
	logger       *zap.Logger
}

func NewStatsHandler(statsService *services.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// GetStats returns entity counts and the login ranking, optionally limited
// to the startDate/endDate window.
func (h *StatsHandler) GetStats(c *gin.Context) {
	window, err := utils.GetWindowParams(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	stats, err := h.statsService.Stats(c.Request.Context(), window)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := dto.ToStatsDTO(*stats)
	if window != nil {
		response.StartDate = &window.Start
		response.EndDate = &window.End
	}
	c.JSON(http.StatusOK, response)
}

// Pinger reports whether the backing store is reachable.
type Pinger func(ctx context.Context) error

// Health reports service liveness together with a store ping.
func Health(ping Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			apierrors.ServiceUnavailable(c, "Database unavailable")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Directory API is running",
		})
	}
}
