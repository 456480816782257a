package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medremind/medremind/internal/domain/profile"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

var _ profile.Repository = (*ProfileRepository)(nil)

// Upsert merges cmd into the user's profile row, creating it on first write.
// The row is locked so two concurrent partial updates cannot interleave.
func (r *ProfileRepository) Upsert(ctx context.Context, userKey string, cmd *profile.UpsertProfileCommand) (*profile.Profile, error) {
	var out *profile.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p profile.Profile
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "user_key = ?", userKey).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p = profile.Profile{UserKey: userKey}
			cmd.Apply(&p)
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			cmd.Apply(&p)
			if err := tx.Save(&p).Error; err != nil {
				return err
			}
		}
		out = &p
		return nil
	})
	if err != nil {
		return nil, translate(err, profile.ErrNotFound)
	}
	return out, nil
}

func (r *ProfileRepository) GetByUserKey(ctx context.Context, userKey string) (*profile.Profile, error) {
	var p profile.Profile
	err := r.db.WithContext(ctx).First(&p, "user_key = ?", userKey).Error
	if err != nil {
		return nil, translate(err, profile.ErrNotFound)
	}
	return &p, nil
}
