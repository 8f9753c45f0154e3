package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	UpdateProfile(ctx context.Context, u User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// SoftDelete clears profile data and marks the identity deleted in a
	// single transaction. The row survives so the email stays reserved.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
