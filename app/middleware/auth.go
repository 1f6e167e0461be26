package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mlboard/pkg/config"
	"mlboard/pkg/logger"
)

// UserIDKey is the gin context key holding the resolved dashboard user.
const UserIDKey = "userID"

// AuthMiddleware simple token authentication middleware. Also resolves the
// acting user from the X-User-ID header the gateway sets, falling back to the
// configured default for single-user deployments.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expectedAPIKey := config.GlobalConfig.Server.APIKey

		// Skip authentication if API key is not configured
		if expectedAPIKey != "" {
			authHeader := c.GetHeader("Authorization")
			authHeader = strings.TrimPrefix(authHeader, "Bearer ")

			if authHeader != expectedAPIKey {
				logger.WarnCtx(c.Request.Context(), "unauthorized request, invalid API key")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				c.Abort()
				return
			}
		}

		c.Set(UserIDKey, resolveUserID(c))
		c.Next()
	}
}

func resolveUserID(c *gin.Context) int64 {
	if raw := c.GetHeader("X-User-ID"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			return id
		}
		logger.WarnCtx(c.Request.Context(), "invalid X-User-ID header %q, using default", raw)
	}
	return config.GlobalConfig.Server.DefaultUserID
}

// UserID returns the acting user resolved by AuthMiddleware.
func UserID(c *gin.Context) int64 {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(int64); ok {
			return uid
		}
	}
	return config.GlobalConfig.Server.DefaultUserID
}
