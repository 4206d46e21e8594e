// Package repository defines the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
//
// WHY INTERFACES HERE AND NOT IN THE SQLITE PACKAGE?
// The service layer imports THIS package, never the sqlite one. That keeps
// the dependency arrow pointing inward: swap SQLite for Postgres by adding a
// new subpackage and changing one line in server.go, and test services with
// an in-memory fake that implements the same interface.
package repository

import (
	"context"

	"github.com/sakib/webstack/internal/model"
)

// ListOptions narrows a user listing. Zero values mean "no filter" and
// "default limit".
type ListOptions struct {
	Email string // exact-match filter; empty means all users
	Limit int    // max rows returned; 0 means the implementation's default
}

// UserRepository is the credential store: a single users table with a
// uniqueness constraint on email.
//
// CONTRACT:
//   - Create assigns ID/CreatedAt/UpdatedAt on the passed user and returns
//     apperror.EmailTaken if the email is already registered. The UNIQUE
//     constraint in the store is the source of truth — two concurrent
//     Creates for the same email can both pass an existence pre-check, but
//     only one insert wins; the loser gets the conflict error.
//   - GetByEmail/GetByID return apperror.NotFound when no row matches.
//   - ExistsByEmail is the cheap pre-check signup uses for a friendly 409
//     before paying for a password hash.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]model.User, error)
}
