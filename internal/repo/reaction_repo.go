// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Reaction
// model, the source of truth behind the denormalized post counters.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
)

// GetReaction fetches the reaction row for (postID, userID).
// Returns ErrNotFound when the user has no reaction on the post.
func GetReaction(ctx context.Context, db *gorm.DB, postID, userID int64) (*domain.Reaction, error) {
	var r domain.Reaction
	err := db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReaction inserts a new reaction row. A concurrent duplicate insert
// for the same (post, user) pair trips the unique index; the raw error is
// propagated for the service layer to map to a conflict.
func CreateReaction(ctx context.Context, db *gorm.DB, postID, userID int64, kind domain.ReactionKind) error {
	r := &domain.Reaction{
		PostID:    postID,
		UserID:    userID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(r).Error
}

// UpdateReactionKind flips an existing reaction row to the opposite kind.
// Returns ErrNotFound when the row vanished under the caller.
func UpdateReactionKind(ctx context.Context, db *gorm.DB, id int64, kind domain.ReactionKind) error {
	res := db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Where("id = ?", id).
		Updates(map[string]any{"kind": kind, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteReaction removes a reaction row by primary key.
// Returns ErrNotFound when nothing was deleted.
func DeleteReaction(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Delete(&domain.Reaction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
