package middleware

import (
	"github.com/gin-gonic/gin"
	"noteria/backend/services"
	"noteria/backend/utils/token"
)

// WebSocketAuthMiddleware accepts the token from the "token" query parameter, since
// browsers cannot set headers on a websocket handshake, and falls back to the header.
func WebSocketAuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, authService, token.ExtractToken)
	}
}
