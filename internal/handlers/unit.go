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

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

type UnitHandler struct {
	unitService *services.UnitService
	logger      *zap.Logger
}

func NewUnitHandler(unitService *services.UnitService, logger *zap.Logger) *UnitHandler {
	return &UnitHandler{
		unitService: unitService,
		logger:      logger,
	}
}

// CreateUnit creates a new unit
func (h *UnitHandler) CreateUnit(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	unit, err := h.unitService.CreateUnit(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUnitDTO(*unit))
}

// ListUnits returns all units
func (h *UnitHandler) ListUnits(c *gin.Context) {
	units, err := h.unitService.ListUnits(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"units": dto.ToUnitDTOs(units),
	})
}

// GetUnit returns a unit and the persons in it
func (h *UnitHandler) GetUnit(c *gin.Context) {
	id, _ := middleware.GetID(c)

	unit, err := h.unitService.GetUnit(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUnitDetailDTO(*unit))
}

// UpdateUnit renames a unit
func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	id, _ := middleware.GetID(c)

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	unit, err := h.unitService.UpdateUnit(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUnitDTO(*unit))
}

// DeleteUnit deletes a unit
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	id, _ := middleware.GetID(c)

	if err := h.unitService.DeleteUnit(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unit deleted successfully",
	})
}
