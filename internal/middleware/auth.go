package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/studioflow/shoot-scheduler/internal/config"
)

const (
	ContextUserID  = "userID"
	ContextIsAdmin = "isAdmin"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok := claims["sub"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		// is_admin só vale porque a assinatura do token foi verificada acima.
		isAdmin, _ := claims["is_admin"].(bool)

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextIsAdmin, isAdmin)

		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware. Every admin route goes through
// this single guard.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, ok := c.Get(ContextIsAdmin)
		if !ok || isAdmin != true {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin_access_required"})
			return
		}
		c.Next()
	}
}

// SecretGuard protects the scheduled-trigger endpoint with a shared secret
// instead of a user identity.
func SecretGuard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.FunctionSecret == "" ||
			c.GetHeader("Authorization") != "Bearer "+cfg.FunctionSecret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_function_secret"})
			return
		}
		c.Next()
	}
}
