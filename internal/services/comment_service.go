// Package services – CommentService
//
// Comments under posts. A new comment feeds the experience engine and pings
// the post author; both side effects are best effort.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/config"
	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/repo"
	"github.com/stagemate/go-community-backend/internal/sysutil"
	"github.com/stagemate/go-community-backend/internal/utils"
)

// CommentPage is one page of comments plus paging metadata. Comments are
// ordered oldest first.
type CommentPage struct {
	Comments   []domain.Comment `json:"comments"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// CommentService implements comment CRUD under posts.
type CommentService struct {
	// DB is the database handle.
	DB *gorm.DB

	// Exp awards activity experience after a successful create. Optional.
	Exp *ExpService

	// Notifier delivers the new-comment notice to the post author. Optional.
	Notifier Notifier

	// MaxPageSize caps the page size accepted from clients.
	MaxPageSize int
}

func (s *CommentService) maxPageSize() int {
	if s.MaxPageSize > 0 {
		return s.MaxPageSize
	}
	return config.DefaultMaxPageSize
}

// Create stores a comment under a post, awards commenting experience, and
// notifies the post author. Self-comments do not notify. Side effects are
// best effort and never fail the comment that triggered them.
func (s *CommentService) Create(ctx context.Context, postID, userID int64, content string) (*domain.Comment, *ExpResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, ErrEmptyContent
	}
	post, err := repo.GetPost(ctx, s.DB, postID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrPostNotFound
		}
		return nil, nil, err
	}

	comment := &domain.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := repo.CreateComment(ctx, s.DB, comment); err != nil {
		return nil, nil, err
	}

	var expResult *ExpResult
	if s.Exp != nil {
		res, err := s.Exp.Apply(ctx, userID, ActivityComment)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Int64("comment_id", comment.ID).
				Msg("comment created but exp award failed")
		} else {
			expResult = res
		}
	}

	if s.Notifier != nil && post.UserID != userID {
		nickname := s.authorNickname(ctx, userID)
		s.Notifier.Notify(ctx, post.UserID, domain.NotificationComment,
			fmt.Sprintf("%s commented on your post %q", nickname, post.Title),
			fmt.Sprintf("/posts/%d", post.ID), &post.ID, nil)
	}
	return comment, expResult, nil
}

// ListPage returns one page of a post's comments, oldest first.
func (s *CommentService) ListPage(ctx context.Context, postID int64, page, pageSize int) (*CommentPage, error) {
	if _, err := repo.GetPost(ctx, s.DB, postID); err != nil {
		if isNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	page, size := utils.ClampPage(page, pageSize, s.maxPageSize())
	total, err := repo.CountComments(ctx, s.DB, postID)
	if err != nil {
		return nil, err
	}
	comments, err := repo.ListCommentsPage(ctx, s.DB, postID, (page-1)*size, size)
	if err != nil {
		return nil, err
	}
	return &CommentPage{
		Comments:   comments,
		Total:      total,
		Page:       page,
		TotalPages: utils.TotalPages(total, size),
	}, nil
}

// Update rewrites a comment's content. Only the author may update.
func (s *CommentService) Update(ctx context.Context, id, userID int64, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	comment, err := repo.GetComment(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrNotOwner
	}
	if err := repo.UpdateCommentContent(ctx, s.DB, id, content); err != nil {
		return nil, err
	}
	return repo.GetComment(ctx, s.DB, id)
}

// Delete removes a comment. Only the author may delete.
func (s *CommentService) Delete(ctx context.Context, id, userID int64) error {
	comment, err := repo.GetComment(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != userID {
		return ErrNotOwner
	}
	return repo.DeleteComment(ctx, s.DB, id)
}

// authorNickname resolves the display name used in comment notifications.
// Falls back to a generic label when the lookup fails.
func (s *CommentService) authorNickname(ctx context.Context, userID int64) string {
	user, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		return "Someone"
	}
	return sysutil.FirstNonEmpty(user.Nickname, "Someone")
}
