package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"noteria/backend/services"
	"noteria/backend/utils/token"
)

const (
	// UserIDKey holds the caller's uuid.UUID once a request is authenticated.
	UserIDKey = "userID"
	EmailKey  = "email"
)

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message, "code": "UNAUTHORIZED"})
}

func authenticate(c *gin.Context, authService services.AuthServiceInterface, extract func(*gin.Context) (string, error)) {
	tokenString, err := extract(c)
	if err != nil {
		abortUnauthorized(c, err.Error())
		return
	}

	claims, err := authService.ValidateToken(tokenString)
	if err != nil {
		abortUnauthorized(c, "Invalid or expired token")
		return
	}

	c.Set(UserIDKey, claims.UserID)
	c.Set(EmailKey, claims.Email)

	c.Next()
}

func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, authService, token.ExtractBearerToken)
	}
}
