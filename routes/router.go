package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"noteria/backend/config"
	"noteria/backend/middleware"
	"noteria/backend/services"
)

// Services bundles what the HTTP layer calls into. WebSocket may be nil.
type Services struct {
	Auth      services.AuthServiceInterface
	Rooms     services.RoomServiceInterface
	Notes     services.NoteServiceInterface
	WebSocket services.WebSocketServiceInterface
}

// NewRouter mounts every endpoint under /api. Room and note routes require a bearer token.
func NewRouter(cfg config.Config, svc Services, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	api := router.Group("/api")
	RegisterHealthRoutes(api, cfg.AppEnv)

	auth := api.Group("")
	if cfg.AuthRateLimit > 0 {
		auth.Use(middleware.RateLimitMiddleware(middleware.NewLimiter(cfg.AuthRateLimit, time.Minute)))
	}
	RegisterAuthRoutes(auth, svc.Auth)

	if svc.WebSocket != nil {
		RegisterWebSocketRoutes(api, svc.Auth, svc.WebSocket)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))
	RegisterRoomRoutes(protected, svc.Rooms)
	RegisterNoteRoutes(protected, svc.Notes)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found", "code": CodeNotFound})
	})

	return router
}
