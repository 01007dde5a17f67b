package middleware

import (
	"net/http"
	"strings"

	"direitofacil-backend/service"

	"github.com/gin-gonic/gin"
)

// Auth validates the bearer token and stores the user id in the context
func Auth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "Missing Authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(c, "Authorization header must be a bearer token")
			return
		}

		userID, err := authService.VerifyToken(token)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuth stores the user id when a valid bearer token is present
// but never rejects the request
func OptionalAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			if userID, err := authService.VerifyToken(token); err == nil {
				c.Set("user_id", userID)
			}
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
