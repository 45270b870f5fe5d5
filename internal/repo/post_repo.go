// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Post model.
//
// Counter columns (like_count, dislike_count, views) are only ever written
// as relative deltas via gorm.Expr so that concurrent writers cannot lose
// updates regardless of locking granularity.
package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
)

// PostFilter narrows and orders post listings.
type PostFilter struct {
	EventID  int64  // 0 means all events
	Category string // empty means all categories
	Search   string // matches title or content, case-insensitive
	Sort     string // latest (default) | popular | views
}

// CreatePost inserts a new Post row.
func CreatePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return db.WithContext(ctx).Create(p).Error
}

// GetPost fetches a post by primary key. Returns ErrNotFound if missing.
func GetPost(ctx context.Context, db *gorm.DB, id int64) (*domain.Post, error) {
	var p domain.Post
	if err := db.WithContext(ctx).First(&p, "post_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPostForUpdate fetches a post by primary key under a row-level exclusive
// lock (on dialects that support it). Use inside the reaction-toggle
// transaction so toggles on the same post serialize while toggles on other
// posts stay independent.
func GetPostForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*domain.Post, error) {
	var p domain.Post
	if err := LockForUpdate(tx.WithContext(ctx)).First(&p, "post_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePostCounters applies relative deltas to like_count and dislike_count.
// Deltas may be -1, 0, or +1; zero deltas are still issued in one statement
// to keep the write atomic. Returns ErrNotFound when the post is missing.
func UpdatePostCounters(ctx context.Context, db *gorm.DB, id int64, likeDelta, dislikeDelta int) error {
	res := db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("post_id = ?", id).
		Updates(map[string]any{
			"like_count":    gorm.Expr("like_count + ?", likeDelta),
			"dislike_count": gorm.Expr("dislike_count + ?", dislikeDelta),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementPostViews bumps the view counter by one. Returns ErrNotFound when
// the post does not exist, which doubles as the existence check on detail reads.
func IncrementPostViews(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("post_id = ?", id).
		Update("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePostContent rewrites the owner-editable fields of a post. Ownership
// is enforced by the caller; this function only matches on the post id.
func UpdatePostContent(ctx context.Context, db *gorm.DB, id int64, category, title, content, imageURL string) error {
	res := db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("post_id = ?", id).
		Updates(map[string]any{
			"category":   category,
			"title":      title,
			"content":    content,
			"image_url":  imageURL,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePost removes a post by primary key. Dependent rows (comments,
// reactions, reports, notifications) cascade at the schema level.
// Returns ErrNotFound when nothing was deleted.
func DeletePost(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Delete(&domain.Post{}, "post_id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountPosts returns the number of posts matching the filter.
func CountPosts(ctx context.Context, db *gorm.DB, f PostFilter) (int64, error) {
	var total int64
	err := applyPostFilter(db.WithContext(ctx).Model(&domain.Post{}), f).Count(&total).Error
	return total, err
}

// ListPostsPage returns a page of posts matching the filter, ordered per
// f.Sort with post_id as the tie-breaker for stable pagination.
func ListPostsPage(ctx context.Context, db *gorm.DB, f PostFilter, offset, limit int) ([]domain.Post, error) {
	var out []domain.Post
	q := applyPostFilter(db.WithContext(ctx), f)

	switch strings.ToLower(f.Sort) {
	case "popular", "like", "likes":
		q = q.Order("like_count desc").Order("created_at desc").Order("post_id desc")
	case "views", "view":
		q = q.Order("views desc").Order("created_at desc").Order("post_id desc")
	default:
		q = q.Order("created_at desc").Order("post_id desc")
	}

	err := q.Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

func applyPostFilter(q *gorm.DB, f PostFilter) *gorm.DB {
	if f.EventID > 0 {
		q = q.Where("event_id = ?", f.EventID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like)
	}
	return q
}
