// Package services defines the business logic for accounts, events, posts,
// comments, reactions, bookmarks, and notifications. This file centralizes
// common service-level error values so that they can be consistently returned
// by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/repo"
)

// Lookup errors.
var (
	// ErrUserNotFound indicates that the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEventNotFound indicates that the referenced event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrPostNotFound indicates that the referenced post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrCommentNotFound indicates that the referenced comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNotificationNotFound indicates that the referenced notification does
	// not exist or belongs to a different user.
	ErrNotificationNotFound = errors.New("notification not found")
)

// Authorization errors.
var (
	// ErrNotOwner is returned when a user acts on a post or comment they do
	// not own.
	ErrNotOwner = errors.New("not the owner of this resource")
)

// Validation errors.
var (
	// ErrInvalidCategory is returned when a post category is outside the
	// fixed board set.
	ErrInvalidCategory = errors.New("unknown post category")

	// ErrInvalidReaction is returned when a reaction kind is neither like
	// nor dislike.
	ErrInvalidReaction = errors.New("reaction must be like or dislike")

	// ErrEmptyContent is returned when a post or comment body is blank.
	ErrEmptyContent = errors.New("content is empty")

	// ErrEmptyTitle is returned when a post title is blank.
	ErrEmptyTitle = errors.New("title is empty")
)

// Conflict errors (uniqueness races); callers may retry once.
var (
	// ErrReactionConflict is returned when a concurrent duplicate insert
	// races the same toggle. No counter mutation should be assumed.
	ErrReactionConflict = errors.New("reaction changed concurrently")

	// ErrDuplicateReport is returned when a user reports the same post twice.
	ErrDuplicateReport = errors.New("report already exists")

	// ErrAlreadyRegistered is returned when signup targets an email or
	// provider identity that already has an account.
	ErrAlreadyRegistered = errors.New("account already exists")
)

// Authentication errors.
var (
	// ErrInvalidProviderToken is returned when the third-party identity
	// provider rejects the presented token.
	ErrInvalidProviderToken = errors.New("invalid provider token")

	// ErrInvalidRefreshToken is returned when a refresh token fails
	// verification or was revoked.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrInvalidRegistrationToken is returned when a registration token
	// fails verification.
	ErrInvalidRegistrationToken = errors.New("invalid registration token")
)

// isNotFound treats repo-level not found sentinels as "not found" in a
// driver-agnostic way. It also checks gorm.ErrRecordNotFound for safety.
func isNotFound(err error) bool {
	if errors.Is(err, repo.ErrNotFound) {
		return true
	}
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
