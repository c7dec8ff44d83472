package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sodtech/internal/models"
)

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]

		// Validate token
		claims, err := ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Set user information in context
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireBusiness only lets business-role users through
func RequireBusiness() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := GetRole(c)
		if role != models.RoleBusiness {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Business account required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint)
	return id, ok
}

// GetRole retrieves the role from the context
func GetRole(c *gin.Context) (string, bool) {
	value, exists := c.Get("role")
	if !exists {
		return "", false
	}

	role, ok := value.(string)
	return role, ok
}
