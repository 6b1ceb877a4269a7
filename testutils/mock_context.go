package testutils

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GetTestGinContext(w http.ResponseWriter, req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

// GetAuthenticatedGinContext is GetTestGinContext with the caller id already set,
// as AuthMiddleware would leave it.
func GetAuthenticatedGinContext(w http.ResponseWriter, req *http.Request, userID uuid.UUID) *gin.Context {
	c := GetTestGinContext(w, req)
	c.Set("userID", userID)
	return c
}

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
