package middleware

import (
	"net/http"

	"github.com/academic-tracker/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequireActiveUser rejects tokens whose user has been deleted or deactivated
// since the token was issued. Runs after AuthMiddleware.
func RequireActiveUser(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get("user_id")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		user, err := userService.Get(userID.(uuid.UUID))
		if err != nil {
			if services.IsNotFound(err) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
			c.Abort()
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
			c.Abort()
			return
		}

		c.Next()
	}
}
