// Package services – PostService
//
// Community post CRUD, listing, and moderation reports. Writing a post also
// feeds the experience engine; that award is best effort and never fails the
// write that earned it.
package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/config"
	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/repo"
	"github.com/stagemate/go-community-backend/internal/utils"
)

// PostInput carries the writable fields of a post.
type PostInput struct {
	EventID  int64
	Category string
	Title    string
	Content  string
	ImageURL string
}

// PostListOptions narrows and orders a post listing.
type PostListOptions struct {
	EventID  int64
	Category string
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// PostPage is one page of posts plus paging metadata.
type PostPage struct {
	Posts      []domain.Post `json:"posts"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// PostService implements post CRUD, listing, and reports.
type PostService struct {
	// DB is the database handle.
	DB *gorm.DB

	// Exp awards activity experience after a successful create. Optional.
	Exp *ExpService

	// MaxPageSize caps the page size accepted from clients.
	MaxPageSize int
}

func (s *PostService) maxPageSize() int {
	if s.MaxPageSize > 0 {
		return s.MaxPageSize
	}
	return config.DefaultMaxPageSize
}

// Create validates and stores a new post under an event, then awards posting
// experience. The experience award is best effort: its failure is logged and
// the created post is still returned. ExpResult is nil when no award ran.
func (s *PostService) Create(ctx context.Context, userID int64, in PostInput) (*domain.Post, *ExpResult, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, nil, ErrEmptyTitle
	}
	if content == "" {
		return nil, nil, ErrEmptyContent
	}
	if !domain.ValidPostCategory(in.Category) {
		return nil, nil, ErrInvalidCategory
	}
	if _, err := repo.GetEvent(ctx, s.DB, in.EventID); err != nil {
		if isNotFound(err) {
			return nil, nil, ErrEventNotFound
		}
		return nil, nil, err
	}

	post := &domain.Post{
		UserID:   userID,
		EventID:  in.EventID,
		Category: in.Category,
		Title:    title,
		Content:  content,
		ImageURL: in.ImageURL,
	}
	if err := repo.CreatePost(ctx, s.DB, post); err != nil {
		return nil, nil, err
	}

	var expResult *ExpResult
	if s.Exp != nil {
		res, err := s.Exp.Apply(ctx, userID, ActivityPost)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Int64("post_id", post.ID).
				Msg("post created but exp award failed")
		} else {
			expResult = res
		}
	}
	return post, expResult, nil
}

// Get fetches a post by id, counting the read as a view. The view bump and
// the read are two statements; a post deleted in between surfaces as not
// found either way.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	if err := repo.IncrementPostViews(ctx, s.DB, id); err != nil {
		if isNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	post, err := repo.GetPost(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// ListPage returns one page of posts matching the options.
func (s *PostService) ListPage(ctx context.Context, opts PostListOptions) (*PostPage, error) {
	page, size := utils.ClampPage(opts.Page, opts.PageSize, s.maxPageSize())
	f := repo.PostFilter{
		EventID:  opts.EventID,
		Category: opts.Category,
		Search:   strings.TrimSpace(opts.Search),
		Sort:     opts.Sort,
	}
	total, err := repo.CountPosts(ctx, s.DB, f)
	if err != nil {
		return nil, err
	}
	posts, err := repo.ListPostsPage(ctx, s.DB, f, (page-1)*size, size)
	if err != nil {
		return nil, err
	}
	return &PostPage{
		Posts:      posts,
		Total:      total,
		Page:       page,
		TotalPages: utils.TotalPages(total, size),
	}, nil
}

// Update rewrites a post's category, title, content, and image. Only the
// author may update; anyone else gets ErrNotOwner.
func (s *PostService) Update(ctx context.Context, id, userID int64, in PostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if content == "" {
		return nil, ErrEmptyContent
	}
	if !domain.ValidPostCategory(in.Category) {
		return nil, ErrInvalidCategory
	}

	post, err := repo.GetPost(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrNotOwner
	}
	if err := repo.UpdatePostContent(ctx, s.DB, id, in.Category, title, content, in.ImageURL); err != nil {
		return nil, err
	}
	return repo.GetPost(ctx, s.DB, id)
}

// Delete removes a post. Only the author may delete.
func (s *PostService) Delete(ctx context.Context, id, userID int64) error {
	post, err := repo.GetPost(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return ErrPostNotFound
		}
		return err
	}
	if post.UserID != userID {
		return ErrNotOwner
	}
	return repo.DeletePost(ctx, s.DB, id)
}

// Report files a moderation report against a post. A user may report a given
// post once; repeats yield ErrDuplicateReport.
func (s *PostService) Report(ctx context.Context, postID, userID int64, reason string) error {
	if _, err := repo.GetPost(ctx, s.DB, postID); err != nil {
		if isNotFound(err) {
			return ErrPostNotFound
		}
		return err
	}
	if err := repo.CreateReport(ctx, s.DB, postID, userID, strings.TrimSpace(reason)); err != nil {
		if isDuplicate(err) {
			return ErrDuplicateReport
		}
		return err
	}
	return nil
}
