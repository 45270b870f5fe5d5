// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Event model.
// Events are imported by an external sync job; this service only reads them.
package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
)

// EventFilter narrows and orders event listings.
type EventFilter struct {
	Search string // matches title, artist, or venue, case-insensitive
	Sort   string // name (default) | latest | update
}

// GetEvent fetches an event by primary key. Returns ErrNotFound if missing.
func GetEvent(ctx context.Context, db *gorm.DB, id int64) (*domain.Event, error) {
	var e domain.Event
	if err := db.WithContext(ctx).First(&e, "event_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// CountEvents returns the number of events matching the filter.
func CountEvents(ctx context.Context, db *gorm.DB, f EventFilter) (int64, error) {
	var total int64
	err := applyEventFilter(db.WithContext(ctx).Model(&domain.Event{}), f).Count(&total).Error
	return total, err
}

// ListEventsPage returns a page of events matching the filter, ordered per
// f.Sort with event_id as the tie-breaker for stable pagination.
func ListEventsPage(ctx context.Context, db *gorm.DB, f EventFilter, offset, limit int) ([]domain.Event, error) {
	var out []domain.Event
	q := applyEventFilter(db.WithContext(ctx), f)

	switch strings.ToLower(f.Sort) {
	case "latest", "recent":
		q = q.Order("start_date desc").Order("event_id desc")
	case "update":
		q = q.Order("update_date desc").Order("event_id desc")
	default:
		q = q.Order("title asc").Order("event_id asc")
	}

	err := q.Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

func applyEventFilter(q *gorm.DB, f EventFilter) *gorm.DB {
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(artist) LIKE ? OR LOWER(venue) LIKE ?", like, like, like)
	}
	return q
}
