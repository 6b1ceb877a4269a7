package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"noteria/backend/services"
	"noteria/backend/utils/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "middleware-test-secret"

type stubAuth struct {
	services.AuthServiceInterface
}

func (stubAuth) ValidateToken(tokenString string) (*services.JWTClaims, error) {
	return token.ValidateToken(tokenString, []byte(testSecret))
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthedRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/protected", mw, func(c *gin.Context) {
		userID, _ := c.Get(UserIDKey)
		c.JSON(http.StatusOK, gin.H{"user": userID.(uuid.UUID).String()})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid, err := token.GenerateToken(userID, "a@example.com", []byte(testSecret), time.Hour)
	assert.NoError(t, err)
	forged, err := token.GenerateToken(userID, "a@example.com", []byte("other"), time.Hour)
	assert.NoError(t, err)

	router := newAuthedRouter(AuthMiddleware(stubAuth{}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"Missing header", "", http.StatusUnauthorized},
		{"Wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"Forged token", "Bearer " + forged, http.StatusUnauthorized},
		{"Valid token", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), userID.String())
			} else {
				assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}

func TestWebSocketAuthMiddleware_QueryToken(t *testing.T) {
	userID := uuid.New()
	valid, err := token.GenerateToken(userID, "a@example.com", []byte(testSecret), time.Hour)
	assert.NoError(t, err)

	router := newAuthedRouter(WebSocketAuthMiddleware(stubAuth{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected?token="+valid, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOriginChecker(t *testing.T) {
	check := OriginChecker("https://app.noteria.io, https://*.preview.noteria.io")

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://app.noteria.io", true},
		{"https://pr-12.preview.noteria.io", true},
		{"https://evil.example.com", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, check(req), tt.origin)
	}

	assert.True(t, OriginChecker("*")(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware("https://app.noteria.io"))
	router.PATCH("/api/rooms/:roomId/move", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/rooms/x/move", nil)
	req.Header.Set("Origin", "https://app.noteria.io")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.noteria.io", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "path=/missing")
	assert.Contains(t, out, "status=404")
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(2, time.Minute)

	ok, _ := l.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, wait := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Positive(t, wait)

	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok)
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.POST("/api/auth/login", RateLimitMiddleware(NewLimiter(1, time.Hour)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}
