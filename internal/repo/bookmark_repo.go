// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Bookmark model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
)

// GetBookmark fetches the bookmark row for (userID, eventID).
// Returns ErrNotFound when the user has not bookmarked the event.
func GetBookmark(ctx context.Context, db *gorm.DB, userID, eventID int64) (*domain.Bookmark, error) {
	var b domain.Bookmark
	err := db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBookmark inserts a bookmark row. A concurrent duplicate insert trips
// the unique (user, event) index; the raw error is propagated.
func CreateBookmark(ctx context.Context, db *gorm.DB, userID, eventID int64) error {
	b := &domain.Bookmark{
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(b).Error
}

// DeleteBookmark removes a bookmark by primary key.
// Returns ErrNotFound when nothing was deleted.
func DeleteBookmark(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Delete(&domain.Bookmark{}, "bookmark_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListBookmarks returns all bookmarks for userID, most recent first.
func ListBookmarks(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Bookmark, error) {
	var out []domain.Bookmark
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}
