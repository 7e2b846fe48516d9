package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/directory-api/internal/dto"
	apierrors "github.com/yukikurage/directory-api/internal/errors"
	"github.com/yukikurage/directory-api/internal/middleware"
	"github.com/yukikurage/directory-api/internal/services"
	"github.com/yukikurage/directory-api/internal/utils"
	"go.uber.org/zap"
)

type PersonHandler struct {
	personService *services.PersonService
	logger        *zap.Logger
}

func NewPersonHandler(personService *services.PersonService, logger *zap.Logger) *PersonHandler {
	return &PersonHandler{
		personService: personService,
		logger:        logger,
	}
}

// CreatePerson creates a person, creating its unit when it does not exist yet
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	type CreatePersonRequest struct {
		Name       string   `json:"name" binding:"required"`
		Username   string   `json:"username" binding:"required"`
		Password   string   `json:"password" binding:"required"`
		UnitName   string   `json:"unit_name" binding:"required"`
		JoinedDate *string  `json:"joined_date"`
		Positions  []string `json:"positions"`
	}

	var req CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	joinedDate, ok := parseJoinedDate(c, req.JoinedDate)
	if !ok {
		return
	}

	person, err := h.personService.CreatePerson(c.Request.Context(), services.CreatePersonInput{
		Name:       req.Name,
		Username:   req.Username,
		Password:   req.Password,
		UnitName:   req.UnitName,
		JoinedDate: joinedDate,
		Positions:  req.Positions,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPersonDTO(*person))
}

// ListPersons returns all persons
func (h *PersonHandler) ListPersons(c *gin.Context) {
	persons, err := h.personService.ListPersons(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"persons": dto.ToPersonDTOs(persons),
	})
}

// GetPerson returns a person
func (h *PersonHandler) GetPerson(c *gin.Context) {
	id, _ := middleware.GetID(c)

	person, err := h.personService.GetPerson(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonDTO(*person))
}

// UpdatePerson applies a partial update. Sending "positions" replaces the
// whole set; leaving it out keeps the current one.
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	id, _ := middleware.GetID(c)

	type UpdatePersonRequest struct {
		Name       *string   `json:"name"`
		Username   *string   `json:"username"`
		Password   *string   `json:"password"`
		UnitName   *string   `json:"unit_name"`
		JoinedDate *string   `json:"joined_date"`
		Positions  *[]string `json:"positions"`
	}

	var req UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	joinedDate, ok := parseJoinedDate(c, req.JoinedDate)
	if !ok {
		return
	}

	person, err := h.personService.UpdatePerson(c.Request.Context(), id, services.UpdatePersonInput{
		Name:       req.Name,
		Username:   req.Username,
		Password:   req.Password,
		UnitName:   req.UnitName,
		JoinedDate: joinedDate,
		Positions:  req.Positions,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonDTO(*person))
}

// DeletePerson deletes a person
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	id, _ := middleware.GetID(c)

	if err := h.personService.DeletePerson(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Person deleted successfully",
	})
}

// ReplacePositions sets the person's positions to exactly the given names
func (h *PersonHandler) ReplacePositions(c *gin.Context) {
	id, _ := middleware.GetID(c)

	type ReplacePositionsRequest struct {
		Positions []string `json:"positions" binding:"required"`
	}

	var req ReplacePositionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.personService.ReplacePositions(c.Request.Context(), id, req.Positions)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	person, err := h.personService.GetPerson(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.PositionSyncDTO{
		Person:  dto.ToPersonDTO(*person),
		Added:   result.Added,
		Removed: result.Removed,
	})
}

func parseJoinedDate(c *gin.Context, raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	joinedDate, err := utils.ParseDate(*raw)
	if err != nil {
		apierrors.BadRequest(c, "joined_date: "+err.Error())
		return nil, false
	}
	return &joinedDate, true
}
