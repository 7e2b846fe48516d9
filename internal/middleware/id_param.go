package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/directory-api/internal/errors"
)

const contextKeyID = "id"

// RequireIDParam parses the :id path parameter and stores it in the context
func RequireIDParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid ID")
			return
		}

		c.Set(contextKeyID, id)
		c.Next()
	}
}

// GetID retrieves the parsed :id from context
func GetID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(contextKeyID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok
}
