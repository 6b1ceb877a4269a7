package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"noteria/backend/middleware"
	"noteria/backend/services"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_FAILED"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// respondError maps service errors onto status codes and the {error, code} body.
func respondError(c *gin.Context, err error) {
	var notFound *services.NotFoundError
	var invalid *services.ValidationError

	switch {
	case errors.As(err, &invalid):
		body := gin.H{"error": invalid.Message, "code": CodeValidation}
		if invalid.Field != "" {
			body["field"] = invalid.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error(), "code": CodeNotFound, "id": notFound.ID})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": CodeNotFound})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password", "code": CodeUnauthorized})
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": CodeUnauthorized})
	case errors.Is(err, services.ErrResourceExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists", "code": CodeConflict})
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": CodeValidation})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": CodeInternal})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": CodeValidation})
}

// currentUser returns the id AuthMiddleware stored on the context.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "code": CodeUnauthorized})
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "code": CodeUnauthorized})
		return uuid.Nil, false
	}
	return userID, true
}

// idParam parses a path id. An id that is not a uuid cannot name a record, so it
// is answered like any other missing resource.
func idParam(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found", "code": CodeNotFound, "id": raw})
		return uuid.Nil, false
	}
	return id, true
}

// optionalID parses a nullable id from a request body. Empty means no id.
func optionalID(c *gin.Context, raw *string, resource string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found", "code": CodeNotFound, "id": *raw})
		return nil, false
	}
	return &id, true
}
