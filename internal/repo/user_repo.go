// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return gorm.ErrRecordNotFound
//     (also exported in this package as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
)

// CreateUser inserts a new User row. The caller supplies identity linkage
// (provider, provider id, email) and notification preferences; engagement
// state starts at the column defaults (exp 0, level 1, reliability 50).
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(u).Error
}

// GetUser fetches a user by primary key. Returns ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id int64) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "user_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserForUpdate fetches a user by primary key under a row-level exclusive
// lock (on dialects that support it). Use inside the transaction that will
// mutate the user's exp/level so concurrent applications serialize per user.
// Callers compute the new exp/level from the row read here and then persist
// the absolute values with UpdateUserExpLevel; the write is only safe inside
// the same transaction as this read.
func GetUserForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*domain.User, error) {
	var u domain.User
	if err := LockForUpdate(tx.WithContext(ctx)).First(&u, "user_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by unique email. Returns ErrNotFound if missing.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByProvider fetches a user by (provider, provider_id).
// Returns ErrNotFound if missing.
func GetUserByProvider(ctx context.Context, db *gorm.DB, provider, providerID string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("provider = ? AND provider_id = ?", provider, providerID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserExpLevel writes exp and level together in a single statement so a
// partial application (exp without level) can never be observed. Returns
// ErrNotFound when the user does not exist.
func UpdateUserExpLevel(ctx context.Context, db *gorm.DB, id int64, exp, level int) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("user_id = ?", id).
		Updates(map[string]any{"exp": exp, "level": level})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
