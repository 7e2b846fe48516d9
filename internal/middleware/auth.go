package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/directory-api/internal/errors"
	"github.com/yukikurage/directory-api/internal/services"
	"go.uber.org/zap"
)

const contextKeyPrincipal = "principal"

// TokenVerifier resolves a bearer token to the caller it was issued to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*services.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified principal in the context.
func RequireAuth(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Split(c.GetHeader("Authorization"), " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			if !errors.Is(err, services.ErrInvalidToken) && !errors.Is(err, services.ErrTokenExpired) {
				logger.Error("token verification failed", zap.Error(err))
			}
			apierrors.Unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(contextKeyPrincipal, principal)
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated caller from context
func GetPrincipal(c *gin.Context) (*services.Principal, bool) {
	value, exists := c.Get(contextKeyPrincipal)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*services.Principal)
	return principal, ok && principal != nil
}
