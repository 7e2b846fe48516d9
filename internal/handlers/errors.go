package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/directory-api/internal/errors"
	"github.com/yukikurage/directory-api/internal/services"
	"go.uber.org/zap"
)

// respondError maps a service error onto the API error envelope. Anything
// unrecognized becomes a 500 and is logged with its cause.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicate):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrTokenExpired):
		apierrors.Unauthorized(c, "Invalid or expired token")
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		apierrors.InternalError(c, "")
	}
}
