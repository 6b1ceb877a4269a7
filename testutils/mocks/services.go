package mocks

import (
	"context"

	"noteria/backend/models"
	"noteria/backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRoomService mocks the RoomServiceInterface for testing
type MockRoomService struct {
	mock.Mock
}

func (m *MockRoomService) CreateRoom(ctx context.Context, owner uuid.UUID, name string, parent *uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, owner, name, parent)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *MockRoomService) GetRoom(ctx context.Context, owner, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, owner, id)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *MockRoomService) ListRooms(ctx context.Context, owner uuid.UUID) ([]models.Room, error) {
	args := m.Called(ctx, owner)
	rooms, _ := args.Get(0).([]models.Room)
	return rooms, args.Error(1)
}

func (m *MockRoomService) ListChildRooms(ctx context.Context, owner uuid.UUID, parent *uuid.UUID) ([]models.Room, error) {
	args := m.Called(ctx, owner, parent)
	rooms, _ := args.Get(0).([]models.Room)
	return rooms, args.Error(1)
}

func (m *MockRoomService) RenameRoom(ctx context.Context, owner, id uuid.UUID, name string) (*models.Room, error) {
	args := m.Called(ctx, owner, id, name)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *MockRoomService) MoveRoom(ctx context.Context, owner, id uuid.UUID, parent *uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, owner, id, parent)
	room, _ := args.Get(0).(*models.Room)
	return room, args.Error(1)
}

func (m *MockRoomService) GetBreadcrumb(ctx context.Context, owner, id uuid.UUID) ([]models.Room, error) {
	args := m.Called(ctx, owner, id)
	rooms, _ := args.Get(0).([]models.Room)
	return rooms, args.Error(1)
}

func (m *MockRoomService) DeleteRoom(ctx context.Context, owner, id uuid.UUID) (services.CascadeResult, error) {
	args := m.Called(ctx, owner, id)
	return args.Get(0).(services.CascadeResult), args.Error(1)
}

func (m *MockRoomService) SweepOrphans(ctx context.Context) (services.SweepResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(services.SweepResult), args.Error(1)
}

// MockNoteService mocks the NoteServiceInterface for testing
type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) CreateNote(ctx context.Context, owner uuid.UUID, input services.CreateNoteInput) (*models.Note, error) {
	args := m.Called(ctx, owner, input)
	note, _ := args.Get(0).(*models.Note)
	return note, args.Error(1)
}

func (m *MockNoteService) GetNote(ctx context.Context, owner, id uuid.UUID) (*models.Note, error) {
	args := m.Called(ctx, owner, id)
	note, _ := args.Get(0).(*models.Note)
	return note, args.Error(1)
}

func (m *MockNoteService) ListNotes(ctx context.Context, owner uuid.UUID, room *uuid.UUID) ([]models.Note, error) {
	args := m.Called(ctx, owner, room)
	notes, _ := args.Get(0).([]models.Note)
	return notes, args.Error(1)
}

func (m *MockNoteService) UpdateNote(ctx context.Context, owner, id uuid.UUID, patch models.NotePatch) (*models.Note, error) {
	args := m.Called(ctx, owner, id, patch)
	note, _ := args.Get(0).(*models.Note)
	return note, args.Error(1)
}

func (m *MockNoteService) DeleteNote(ctx context.Context, owner, id uuid.UUID) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

// MockAuthService mocks the AuthServiceInterface for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*services.JWTClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*services.JWTClaims)
	return claims, args.Error(1)
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ComparePasswords(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}
