package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := ValidateToken(strings.TrimSpace(parts[1]), secret)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or malformed token"})
			}
			c.Abort()
			return
		}

		c.Set("owner_id", claims.OwnerID)
		c.Set("gym_id", claims.GymID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireStaff allows both roles; everything behind it is tenant-scoped by
// the gym id in the claims.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != "admin" && role != "manager" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Manager or Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetGymID returns the tenant scope set by the middleware.
func GetGymID(c *gin.Context) (string, bool) {
	gymID := c.GetString("gym_id")
	return gymID, gymID != ""
}
