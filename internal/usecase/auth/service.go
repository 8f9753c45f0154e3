package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"teachassist/internal/domain/user"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

const minPasswordLen = 8

type Credentials struct {
	Email    string
	Password string
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

// Register creates an account with default notification preferences and the
// onboarding flag unset. The gate middleware keeps the rest of the API closed
// until onboarding completes.
func (s *Service) Register(ctx context.Context, in Credentials) (user.User, error) {
	email := canonicalEmail(in.Email)
	if !strings.Contains(email, "@") || len(strings.TrimSpace(in.Password)) < minPasswordLen {
		return user.User{}, ErrInvalidInput
	}

	if exists, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return user.User{}, ErrInternal
	} else if exists {
		return user.User{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	u := user.User{
		ID:            uuid.New(),
		Email:         email,
		PasswordHash:  string(hash),
		Notifications: user.DefaultNotificationPreferences(),
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		// Lost a race on the unique email index.
		if exists, exErr := s.users.ExistsByEmail(ctx, email); exErr == nil && exists {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, ErrInternal
	}

	created, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return stripHash(created), nil
}

// Login verifies credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in Credentials) (user.User, error) {
	email := canonicalEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return stripHash(u), nil
}

func canonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func stripHash(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
