// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Notification model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
)

// CreateNotification inserts a notification row. Notifications are created
// unread; the owner flips the flag via MarkNotificationRead.
func CreateNotification(ctx context.Context, db *gorm.DB, n *domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.IsRead = false
	return db.WithContext(ctx).Create(n).Error
}

// CountNotifications returns the number of notifications for userID,
// optionally narrowed to one type.
func CountNotifications(ctx context.Context, db *gorm.DB, userID int64, typ domain.NotificationType) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Notification{}).Where("user_id = ?", userID)
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	err := q.Count(&total).Error
	return total, err
}

// ListNotificationsPage returns a page of notifications for userID, most
// recent first, optionally narrowed to one type.
func ListNotificationsPage(ctx context.Context, db *gorm.DB, userID int64, typ domain.NotificationType, offset, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	err := q.Order("created_at desc").
		Order("notification_id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkNotificationRead flips the read flag on a notification owned by userID.
// Returns ErrNotFound when the notification does not exist or belongs to a
// different user, so ownership never leaks through a different error shape.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id, userID int64) error {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
