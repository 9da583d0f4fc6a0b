package middleware

import (
	"net/http"
	"strings"

	"socialnet/services"

	"github.com/gin-gonic/gin"
)

var userService = services.NewUserService()

// AuthMiddleware резолвит Bearer токен в user_id. Ядро отношений только
// авторизует по этому id, аутентификация целиком живет здесь.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := userService.ResolveToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
