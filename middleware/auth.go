package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"travel-booking-server/database"
	"travel-booking-server/models"
	"travel-booking-server/utils"
)

// AuthMiddleware validates JWT bearer tokens and sets user context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			failAuth(c, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			failAuth(c, "Token must be in format: Bearer <token>")
			return
		}

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			failAuth(c, "Token is invalid or expired")
			return
		}

		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			failAuth(c, "User associated with token not found")
			return
		}

		if !user.IsActive {
			failAuth(c, "User account is deactivated")
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// RequireAdmin gates a route group to admin users. Must run after
// AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return requireRole(models.RoleAdmin, "Admin access required")
}

// RequireGuide gates a route group to guide users. Must run after
// AuthMiddleware.
func RequireGuide() gin.HandlerFunc {
	return requireRole(models.RoleGuide, "Guide access required")
}

func requireRole(role models.UserRole, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			failAuth(c, "Authentication required")
			return
		}
		if user.Role != role {
			utils.Fail(c, http.StatusForbidden, message)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed in the context by
// AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

func failAuth(c *gin.Context, message string) {
	utils.Fail(c, http.StatusUnauthorized, message)
}
