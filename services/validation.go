package services

import (
	"errors"
	"strings"

	"noteria/backend/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type roomNameInput struct {
	Name string
}

func (in roomNameInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, models.MaxRoomNameLength).Error("name must be at most 100 characters"),
		),
	)
}

type noteInput struct {
	Title  string
	RoomID string
}

func (in noteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.RuneLength(0, models.MaxNoteTitleLength).Error("title must be at most 200 characters"),
		),
		validation.Field(&in.RoomID,
			validation.Required.Error("roomId is required"),
			is.UUID.Error("roomId must be a valid id"),
		),
	)
}

// normalizeName trims and validates a room name.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := asValidationError(roomNameInput{Name: name}.Validate(), map[string]string{"Name": "name"}); err != nil {
		return "", err
	}
	return name, nil
}

func validateTitle(title string) error {
	err := validation.Validate(title,
		validation.RuneLength(0, models.MaxNoteTitleLength).Error("title must be at most 200 characters"),
	)
	if err != nil {
		return &ValidationError{Field: "title", Message: err.Error(), Err: err}
	}
	return nil
}

// asValidationError turns ozzo field errors into a ValidationError for the first
// failing field, renaming struct fields to their wire names.
func asValidationError(err error, fieldNames map[string]string) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &ValidationError{Message: err.Error(), Err: err}
	}
	for _, key := range []string{"Name", "RoomID", "Title"} {
		if fieldErr, ok := errs[key]; ok && fieldErr != nil {
			field := fieldNames[key]
			if field == "" {
				field = key
			}
			return &ValidationError{Field: field, Message: fieldErr.Error(), Err: fieldErr}
		}
	}
	return &ValidationError{Message: err.Error(), Err: err}
}
