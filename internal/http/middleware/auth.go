package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cinehub/internal/service"
)

// AuthCookieName is the cookie the login handler sets so page scripts
// can call the API without juggling headers.
const AuthCookieName = "auth_token"

// ContextUserID is the gin context key the resolved user id is stored
// under. Handlers never see the token itself, only the identity the
// middleware resolved.
const ContextUserID = "userID"

// AuthMiddleware authenticates API requests. It accepts a bearer token
// in the Authorization header or the auth cookie, validates it, and
// stores the user id in the request context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			if cookie, err := c.Cookie(AuthCookieName); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			c.Abort()
			return
		}

		userID, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	// Extract token (format: "Bearer <token>")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// UserID pulls the authenticated user id out of the gin context.
func UserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
