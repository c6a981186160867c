// internal/middleware/session.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/niceai/studio-backend/internal/i18n"
	"github.com/niceai/studio-backend/internal/utils"
)

// SessionRequired binds the request to a profile storage key from the
// bearer token. Every profile-touching route sits behind it; new sessions
// obtain a token from the open /v1/session endpoint first.
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeySessionRequired),
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeySessionInvalid),
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateSessionToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeySessionInvalid),
			})
			c.Abort()
			return
		}

		c.Set("storage_key", claims.StorageKey)
		c.Next()
	}
}
