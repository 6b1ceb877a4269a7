package routes

import (
	"github.com/gin-gonic/gin"
	"noteria/backend/middleware"
	"noteria/backend/services"
)

// RegisterWebSocketRoutes exposes the live update stream. The caller's identity comes
// from the token, never from the client.
func RegisterWebSocketRoutes(group *gin.RouterGroup, authService services.AuthServiceInterface, wsService services.WebSocketServiceInterface) {
	group.GET("/ws", middleware.WebSocketAuthMiddleware(authService), func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		wsService.HandleConnection(c.Writer, c.Request, userID)
	})
}
