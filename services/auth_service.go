package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"noteria/backend/models"
	"noteria/backend/store"
	"noteria/backend/utils/token"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

type JWTClaims = token.JWTClaims

type AuthServiceInterface interface {
	Signup(ctx context.Context, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) error
}

type AuthService struct {
	store         store.Store
	jwtSecret     []byte
	jwtExpiration time.Duration
	logger        *slog.Logger
}

func NewAuthService(s store.Store, jwtSecret string, jwtExpirationHours int, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:         s,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: time.Duration(jwtExpirationHours) * time.Hour,
		logger:        logger,
	}
}

type credentials struct {
	Email    string
	Password string
}

func (c credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required.Error("email is required"), is.EmailFormat.Error("email must be a valid address")),
		validation.Field(&c.Password,
			validation.Required.Error("password is required"),
			validation.RuneLength(MinPasswordLength, 0).Error("password must be at least 6 characters"),
			validation.Length(0, MaxPasswordBytes).Error("password must be at most 72 bytes"),
		),
	)
}

func (s *AuthService) Signup(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := credentialsError(credentials{Email: email, Password: password}.Validate()); err != nil {
		return nil, "", err
	}

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, "", ErrResourceExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, "", err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{Email: email, PasswordHash: hash}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", ErrResourceExists
		}
		return nil, "", err
	}

	tokenString, err := token.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user signed up", "user_id", user.ID)
	return user, tokenString, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.ComparePasswords(user.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	tokenString, err := token.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return nil, "", err
	}
	return user, tokenString, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims, err := token.ValidateToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func credentialsError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		for _, key := range []string{"Email", "Password"} {
			if fieldErr := errs[key]; fieldErr != nil {
				return &ValidationError{Field: strings.ToLower(key), Message: fieldErr.Error(), Err: fieldErr}
			}
		}
	}
	return &ValidationError{Message: err.Error(), Err: err}
}
