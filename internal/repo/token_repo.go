// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for refresh tokens
// and moderation reports.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
)

// CreateRefreshToken persists an issued refresh token for a user. Several
// rows may exist per user (one per device).
func CreateRefreshToken(ctx context.Context, db *gorm.DB, userID int64, token string) error {
	rt := &domain.RefreshToken{
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(rt).Error
}

// GetRefreshToken fetches the stored row matching (userID, token).
// Returns ErrNotFound when the token was never issued or already revoked.
func GetRefreshToken(ctx context.Context, db *gorm.DB, userID int64, token string) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	err := db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// DeleteRefreshToken revokes the row matching (userID, token), e.g. on logout.
// Returns ErrNotFound when no matching row existed.
func DeleteRefreshToken(ctx context.Context, db *gorm.DB, userID int64, token string) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&domain.RefreshToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateReport inserts a moderation report. A repeat report by the same user
// on the same post trips the unique (post, user) index; the raw error is
// propagated for the service layer to map to a conflict.
func CreateReport(ctx context.Context, db *gorm.DB, postID, userID int64, reason string) error {
	r := &domain.Report{
		PostID:    postID,
		UserID:    userID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(r).Error
}
