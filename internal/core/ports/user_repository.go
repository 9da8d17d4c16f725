package ports

import (
	"context"

	"github.com/userhub/identity-api/internal/core/domain"
)

// UserRepository defines the persistence interface for user records.
//
// Implementations must enforce email uniqueness at the storage layer (a
// unique index, not a read-then-write check) and report violations as
// domain.ErrEmailTaken so concurrent registrations with the same email
// cannot both succeed.
type UserRepository interface {
	// FindByEmail returns the user with the given normalized email, or
	// domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns the user with the given id, or domain.ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Insert persists a new user and returns it with the store-generated id.
	// Returns domain.ErrEmailTaken on a unique-constraint violation.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// ListAll returns every user record in store order.
	ListAll(ctx context.Context) ([]domain.User, error)
}
