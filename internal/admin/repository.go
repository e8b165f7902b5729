package admin

import (
	"context"
	"errors"
)

// ErrAdminNotFound is returned when no admin matches the lookup.
var ErrAdminNotFound = errors.New("admin not found")

// ErrInvalidCredentials is returned when email or password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Repository provides access to the admins table.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	Upsert(ctx context.Context, email, passwordHash string) error
}
