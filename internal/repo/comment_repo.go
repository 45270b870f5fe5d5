// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Comment model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
)

// CreateComment inserts a new Comment row.
func CreateComment(ctx context.Context, db *gorm.DB, c *domain.Comment) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return db.WithContext(ctx).Create(c).Error
}

// GetComment fetches a comment by primary key. Returns ErrNotFound if missing.
func GetComment(ctx context.Context, db *gorm.DB, id int64) (*domain.Comment, error) {
	var c domain.Comment
	if err := db.WithContext(ctx).First(&c, "comment_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CountComments returns the total number of comments on postID.
func CountComments(ctx context.Context, db *gorm.DB, postID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("post_id = ?", postID).
		Count(&total).Error
	return total, err
}

// ListCommentsPage returns a page of comments on postID, oldest first
// (reading order), with comment_id as the tie-breaker.
func ListCommentsPage(ctx context.Context, db *gorm.DB, postID int64, offset, limit int) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at asc").
		Order("comment_id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateCommentContent rewrites a comment body. Ownership is enforced by the
// caller. Returns ErrNotFound when the comment does not exist.
func UpdateCommentContent(ctx context.Context, db *gorm.DB, id int64, content string) error {
	res := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("comment_id = ?", id).
		Updates(map[string]any{"content": content, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteComment removes a comment by primary key.
// Returns ErrNotFound when nothing was deleted.
func DeleteComment(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Delete(&domain.Comment{}, "comment_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
