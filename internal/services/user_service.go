package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/isdelr/postboard-be/internal/apperr"
	"github.com/isdelr/postboard-be/internal/auth"
	"github.com/isdelr/postboard-be/internal/models"
	"github.com/isdelr/postboard-be/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const defaultStatus = "I am new!"

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(ctx context.Context, email, name, password string) (models.User, error)
	Login(ctx context.Context, email, password string) (token, userID string, err error)
	GetViewer(ctx context.Context) (models.User, error)
	GetStatus(ctx context.Context) (string, error)
	UpdateStatus(ctx context.Context, status string) (models.User, error)
}

// UserService provides business logic for accounts: signup, login and the
// profile status field.
type UserService struct {
	store *store.Store
	auth  *auth.Authenticator
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store, authenticator *auth.Authenticator) *UserService {
	return &UserService{store: st, auth: authenticator}
}

// Signup validates and creates a new account, hashing the password.
// Validation failures for all fields are aggregated into one error.
func (s *UserService) Signup(ctx context.Context, email, name, password string) (models.User, error) {
	var details []apperr.Detail
	if _, err := mail.ParseAddress(email); err != nil {
		details = append(details, apperr.Detail{Message: "E-Mail is not valid"})
	}
	if strings.TrimSpace(password) == "" || utf8.RuneCountInString(password) < 5 {
		details = append(details, apperr.Detail{Message: "Password too short"})
	}
	if len(details) > 0 {
		return models.User{}, apperr.InvalidInput("Invalid input", details)
	}

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return models.User{}, apperr.InvalidInput("Invalid input",
			[]apperr.Detail{{Message: "E-Mail address already exists"}})
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, apperr.Internal("Failed to look up user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperr.Internal("Failed to hash password", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
		Status:       defaultStatus,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return models.User{}, apperr.Internal("Failed to create user", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials and issues a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", apperr.Unauthenticated("User not found")
		}
		return "", "", apperr.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", apperr.Unauthenticated("Password is incorrect")
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return "", "", apperr.Internal("Failed to generate token", err)
	}
	return token, user.ID, nil
}

// GetViewer returns the authenticated caller's account.
func (s *UserService) GetViewer(ctx context.Context) (models.User, error) {
	claims, err := requireAuth(ctx)
	if err != nil {
		return models.User{}, err
	}
	user, err := s.store.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, apperr.NotFound("No user found")
		}
		return models.User{}, apperr.Internal("Failed to load user", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// GetStatus returns the authenticated caller's status line.
func (s *UserService) GetStatus(ctx context.Context) (string, error) {
	user, err := s.GetViewer(ctx)
	if err != nil {
		return "", err
	}
	return user.Status, nil
}

// UpdateStatus replaces the authenticated caller's status line.
func (s *UserService) UpdateStatus(ctx context.Context, status string) (models.User, error) {
	user, err := s.GetViewer(ctx)
	if err != nil {
		return models.User{}, err
	}
	user.Status = status
	if err := s.store.SaveUser(ctx, user); err != nil {
		return models.User{}, apperr.Internal("Failed to update status", err)
	}
	return user, nil
}

// requireAuth extracts the caller's identity or fails with Unauthenticated.
func requireAuth(ctx context.Context) (*auth.Claims, error) {
	claims, ok := auth.Identity(ctx)
	if !ok {
		return nil, apperr.Unauthenticated("Not authenticated")
	}
	return claims, nil
}
