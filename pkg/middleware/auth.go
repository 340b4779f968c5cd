package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuthConfig gates the admin-only endpoints (currently just
// POST /refresh) behind a bearer token.
type AdminAuthConfig struct {
	Enabled bool
	Token   string
}

// AdminAuth returns a middleware that authenticates admin requests via
// bearer token. If auth is disabled in config, it passes all requests
// through unauthenticated — disabled by default, opt-in via config.
func AdminAuth(cfg AdminAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if cfg.Token != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Token)) == 1 {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "unauthorized: valid bearer token required for admin API access",
		})
	}
}
