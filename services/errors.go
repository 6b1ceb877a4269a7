package services

import (
	"errors"
	"fmt"

	"noteria/backend/store"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrResourceExists     = errors.New("resource already exists")
	ErrValidation         = errors.New("validation error")
	ErrRoomCycle          = errors.New("room cannot be moved beneath itself")
)

// NotFoundError reports a missing resource. A record owned by another user is
// reported the same way.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return true
	case ErrRoomNotFound:
		return e.Resource == "room"
	case ErrNoteNotFound:
		return e.Resource == "note"
	case ErrUserNotFound:
		return e.Resource == "user"
	}
	return false
}

// ValidationError names the offending input field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func roomNotFound(id uuid.UUID) error {
	return &NotFoundError{Resource: "room", ID: id}
}

func noteNotFound(id uuid.UUID) error {
	return &NotFoundError{Resource: "note", ID: id}
}

// storeErr maps store.ErrNotFound to notFound and passes anything else through.
func storeErr(err error, notFound error) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return err
}
