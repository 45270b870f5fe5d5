// Package services – NotificationService
//
// This file implements the notification inbox and the best-effort Notify
// primitive used as a side effect by comment creation, reaction toggles, and
// level-ups. Notify never returns an error: notification delivery must never
// abort the primary user-facing action that triggered it, so persistence
// failures are logged and swallowed.
package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/repo"
)

// Notifier is the fire-and-forget notification surface consumed by the exp,
// reaction, and comment services. Implementations must swallow failures.
type Notifier interface {
	Notify(ctx context.Context, userID int64, typ domain.NotificationType, message, relateURL string, postID, eventID *int64)
}

// NotificationService implements Notifier on top of the database and also
// serves the user-facing inbox (list, mark-read).
type NotificationService struct {
	// DB is the database handle used for all notification operations.
	DB *gorm.DB
}

// Notify records a notification for userID. Best-effort by contract: any
// persistence error is logged for operational visibility and discarded.
func (s *NotificationService) Notify(ctx context.Context, userID int64, typ domain.NotificationType, message, relateURL string, postID, eventID *int64) {
	if !typ.Valid() {
		typ = domain.NotificationNotice
	}
	n := &domain.Notification{
		UserID:    userID,
		PostID:    postID,
		EventID:   eventID,
		Type:      typ,
		Message:   message,
		RelateURL: relateURL,
	}
	if err := repo.CreateNotification(ctx, s.DB, n); err != nil {
		log.Warn().
			Err(err).
			Int64("user_id", userID).
			Str("type", string(typ)).
			Msg("notification create failed")
	}
}

// ListPage returns a page of the user's notifications, most recent first,
// optionally narrowed to a single type, plus the total for pagination.
func (s *NotificationService) ListPage(ctx context.Context, userID int64, typ domain.NotificationType, page, pageSize int) ([]domain.Notification, int64, error) {
	total, err := repo.CountNotifications(ctx, s.DB, userID, typ)
	if err != nil {
		return nil, 0, err
	}
	out, err := repo.ListNotificationsPage(ctx, s.DB, userID, typ, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// MarkRead flips the read flag on one of the user's notifications.
// Returns ErrNotificationNotFound when the id does not exist or is owned by
// someone else.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	if err := repo.MarkNotificationRead(ctx, s.DB, id, userID); err != nil {
		if isNotFound(err) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
