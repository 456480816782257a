package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/medremind/medremind/internal/domain"
	"github.com/medremind/medremind/internal/domain/user"
	"github.com/medremind/medremind/pkg/keys"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	prefix := keys.Prefix(u.Role.KeyPrefix())
	err := createWithKey(r.db.WithContext(ctx), prefix, func(k string) { u.UserKey = k }, u)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Key collisions are retried above, so a persistent duplicate is the
		// login_name unique index.
		return user.ErrDuplicateLoginName
	}
	return translate(err, user.ErrNotFound)
}

func (r *UserRepository) GetByKey(ctx context.Context, userKey string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).First(&u, "user_key = ?", userKey).Error
	if err != nil {
		return nil, translate(err, user.ErrNotFound)
	}
	return &u, nil
}

func (r *UserRepository) GetByLogin(ctx context.Context, loginName string, role domain.Role) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).First(&u, "login_name = ? AND role = ?", loginName, role).Error
	if err != nil {
		return nil, translate(err, user.ErrNotFound)
	}
	return &u, nil
}

func (r *UserRepository) ExistsByLogin(ctx context.Context, loginName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&user.User{}).
		Where("login_name = ?", loginName).
		Count(&count).Error
	if err != nil {
		return false, translate(err, user.ErrNotFound)
	}
	return count > 0, nil
}

func (r *UserRepository) SetActive(ctx context.Context, userKey string, active bool) error {
	res := r.db.WithContext(ctx).Model(&user.User{}).
		Where("user_key = ?", userKey).
		Update("is_active", active)
	if res.Error != nil {
		return translate(res.Error, user.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, userKey string) error {
	now := time.Now()
	return translate(r.db.WithContext(ctx).Model(&user.User{}).
		Where("user_key = ?", userKey).
		Update("last_login", now).Error, user.ErrNotFound)
}

// Delete removes the user row. Owned rows go with it through the ON DELETE
// rules installed by the migration: cascade for owned entities, set-null for
// doctor references on other patients' documents and queries.
func (r *UserRepository) Delete(ctx context.Context, userKey string) error {
	res := r.db.WithContext(ctx).Delete(&user.User{}, "user_key = ?", userKey)
	if res.Error != nil {
		return translate(res.Error, user.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}
