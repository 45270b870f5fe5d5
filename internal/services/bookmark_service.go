package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/repo"
)

// BookmarkService implements event bookmark toggling and listing.
type BookmarkService struct {
	DB *gorm.DB
}

// Toggle flips the bookmark state of (user, event): on when absent, off when
// present. Returns the resulting state. A raced duplicate insert resolves to
// the on state.
func (s *BookmarkService) Toggle(ctx context.Context, userID, eventID int64) (bool, error) {
	if _, err := repo.GetEvent(ctx, s.DB, eventID); err != nil {
		if isNotFound(err) {
			return false, ErrEventNotFound
		}
		return false, err
	}

	bm, err := repo.GetBookmark(ctx, s.DB, userID, eventID)
	if err != nil {
		if !isNotFound(err) {
			return false, err
		}
		if err := repo.CreateBookmark(ctx, s.DB, userID, eventID); err != nil {
			if isDuplicate(err) {
				return true, nil
			}
			return false, err
		}
		return true, nil
	}
	if err := repo.DeleteBookmark(ctx, s.DB, bm.ID); err != nil && !isNotFound(err) {
		return false, err
	}
	return false, nil
}

// List returns all of a user's bookmarks, newest first.
func (s *BookmarkService) List(ctx context.Context, userID int64) ([]domain.Bookmark, error) {
	return repo.ListBookmarks(ctx, s.DB, userID)
}
