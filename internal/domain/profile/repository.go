package profile

import "context"

type Repository interface {
	// Upsert inserts the profile row for a user or merges cmd into the
	// existing one. At most one profile exists per user.
	Upsert(ctx context.Context, userKey string, cmd *UpsertProfileCommand) (*Profile, error)

	// GetByUserKey returns the profile, or ErrNotFound when the user has not
	// filled one in yet.
	GetByUserKey(ctx context.Context, userKey string) (*Profile, error)
}
