package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "sparkletidy/internal/errors"
)

// ActorBookingSite identifies requests authenticated by the booking API key.
const ActorBookingSite = "booking-site"

// APIKeyMiddleware creates a Gin middleware that validates the X-API-Key
// header against the configured booking API key.
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": gin.H{"code": "INTAKE_NOT_CONFIGURED", "message": "Booking intake is not configured"}})
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Set(ActorKey, ActorBookingSite)
		c.Next()
	}
}
