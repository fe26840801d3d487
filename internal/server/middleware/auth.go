package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmovs/decanting/internal/service/auth"
)

// UsernameKey is the gin context key carrying the authenticated username.
const UsernameKey = "username"

// RequireSession gates a route group behind a valid bearer session token.
func RequireSession(authSvc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"title": "Not Signed In", "description": "A session token is required."})
			return
		}

		claims, err := authSvc.Verify(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			logger.Debug("session verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"title": "Session Expired", "description": "Please sign in again."})
			return
		}

		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}
