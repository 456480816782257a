// Package repository holds the gorm-backed implementations of the domain
// repository interfaces. Multi-row invariants (dose taking, reschedules,
// request transitions) run inside a single transaction here, with FOR UPDATE
// row locks, so every public façade call stays atomic.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/medremind/medremind/pkg/keys"
)

// ErrStoreUnavailable wraps transient backend failures. Callers may retry;
// the core itself never does.
var ErrStoreUnavailable = errors.New("store unavailable")

const maxKeyAttempts = 5

// translate maps driver-level errors onto domain sentinels. Record misses
// become the caller's notFound sentinel; connectivity failures become
// ErrStoreUnavailable.
func translate(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, gorm.ErrInvalidDB):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		return err
	}
}

// createWithKey inserts model, minting a fresh prefixed key on every attempt
// and retrying on primary-key collisions. setKey must assign the key to the
// model's primary-key field.
func createWithKey(db *gorm.DB, prefix keys.Prefix, setKey func(string), model any) error {
	var err error
	for i := 0; i < maxKeyAttempts; i++ {
		setKey(keys.New(prefix))
		err = db.Create(model).Error
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}
