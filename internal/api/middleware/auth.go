package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"cadetboard/internal/services"
)

// AuthMiddleware validates the bearer token issued by /api/auth and puts
// its claims on the request context.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(401, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ParseToken(parts[1])
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("username", claims.Username)

		c.Next()
	}
}

// RequireEditButtons gates the review endpoint on the can_edit_buttons
// permission carried in the token.
func RequireEditButtons() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("claims")
		if !exists {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims := v.(*services.Claims)
		if !claims.CanEditButtons {
			c.JSON(403, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// APIKeyMiddleware protects the public game-client routes with a shared
// key. The config stores only its bcrypt hash; an empty hash disables the
// check (development).
func APIKeyMiddleware(apiKeyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKeyHash == "" {
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" || bcrypt.CompareHashAndPassword([]byte(apiKeyHash), []byte(key)) != nil {
			c.JSON(401, gin.H{"error": "Invalid API key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
