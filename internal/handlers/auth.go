package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/directory-api/internal/dto"
	apierrors "github.com/yukikurage/directory-api/internal/errors"
	"github.com/yukikurage/directory-api/internal/metrics"
	"github.com/yukikurage/directory-api/internal/middleware"
	"github.com/yukikurage/directory-api/internal/services"
	"go.uber.org/zap"
)

const invalidCredentialsMessage = "Invalid username or password"

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. m may be nil.
func NewAuthHandler(authService *services.AuthService, m *metrics.Metrics, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     m,
		logger:      logger,
	}
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		// Unknown usernames and wrong passwords look the same to the caller.
		case errors.Is(err, services.ErrPersonNotFound):
			h.metrics.LoginAttempt(metrics.LoginUnknownUser)
			apierrors.Unauthorized(c, invalidCredentialsMessage)
		case errors.Is(err, services.ErrInvalidCredentials):
			h.metrics.LoginAttempt(metrics.LoginInvalidCredentials)
			apierrors.Unauthorized(c, invalidCredentialsMessage)
		default:
			h.metrics.LoginAttempt(metrics.LoginError)
			respondError(c, h.logger, err)
		}
		return
	}

	h.metrics.LoginAttempt(metrics.LoginSuccess)
	c.JSON(http.StatusOK, dto.ToLoginResponse(*session))
}

// Logout revokes the caller's token.
func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), principal); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentPrincipal returns the identity behind the bearer token.
func (h *AuthHandler) GetCurrentPrincipal(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToPrincipalDTO(*principal))
}
