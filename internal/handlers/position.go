package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/directory-api/internal/dto"
	apierrors "github.com/yukikurage/directory-api/internal/errors"
	"github.com/yukikurage/directory-api/internal/middleware"
	"github.com/yukikurage/directory-api/internal/services"
	"go.uber.org/zap"
)

type PositionHandler struct {
	positionService *services.PositionService
	logger          *zap.Logger
}

func NewPositionHandler(positionService *services.PositionService, logger *zap.Logger) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
		logger:          logger,
	}
}

// CreatePosition creates a new position
func (h *PositionHandler) CreatePosition(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	position, err := h.positionService.CreatePosition(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPositionDTO(*position))
}

// ListPositions returns all positions
func (h *PositionHandler) ListPositions(c *gin.Context) {
	positions, err := h.positionService.ListPositions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"positions": dto.ToPositionDTOs(positions),
	})
}

// GetPosition returns a position
func (h *PositionHandler) GetPosition(c *gin.Context) {
	id, _ := middleware.GetID(c)

	position, err := h.positionService.GetPosition(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPositionDTO(*position))
}

// UpdatePosition renames a position
func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	id, _ := middleware.GetID(c)

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	position, err := h.positionService.UpdatePosition(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPositionDTO(*position))
}

// DeletePosition deletes a position
func (h *PositionHandler) DeletePosition(c *gin.Context) {
	id, _ := middleware.GetID(c)

	if err := h.positionService.DeletePosition(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Position deleted successfully",
	})
}
