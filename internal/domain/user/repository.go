package user

import (
	"context"

	"github.com/medremind/medremind/internal/domain"
)

type Repository interface {
	// Create persists a new user. Returns ErrDuplicateLoginName when the
	// login name is taken.
	Create(ctx context.Context, u *User) error

	// GetByKey retrieves a user by primary key. Returns ErrNotFound if absent.
	GetByKey(ctx context.Context, userKey string) (*User, error)

	// GetByLogin retrieves a user by (login_name, role). Returns ErrNotFound
	// if absent.
	GetByLogin(ctx context.Context, loginName string, role domain.Role) (*User, error)

	// ExistsByLogin checks login-name uniqueness across all roles without
	// fetching the record.
	ExistsByLogin(ctx context.Context, loginName string) (bool, error)

	// SetActive flips the account's active flag.
	SetActive(ctx context.Context, userKey string, active bool) error

	// TouchLastLogin stamps a successful authentication.
	TouchLastLogin(ctx context.Context, userKey string) error

	// Delete removes the user. The store cascades to the profile and every
	// owned entity, and nulls doctor references on surviving documents and
	// queries.
	Delete(ctx context.Context, userKey string) error
}
