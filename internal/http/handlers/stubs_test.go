package handlers

import (
	"bytes"
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/services"
	"github.com/stagemate/go-community-backend/internal/uploads"
)

// ---- function-field stubs for the service interfaces ----

type stubAuthSvc struct {
	login   func(ctx context.Context, provider, token string) (*services.LoginResult, error)
	signup  func(ctx context.Context, token string, in services.SignupInput) (*services.LoginResult, error)
	refresh func(ctx context.Context, token string) (string, error)
	logout  func(ctx context.Context, userID int64, token string) error
	me      func(ctx context.Context, userID int64) (*domain.User, error)
}

func (s stubAuthSvc) Login(ctx context.Context, provider, token string) (*services.LoginResult, error) {
	return s.login(ctx, provider, token)
}
func (s stubAuthSvc) Signup(ctx context.Context, token string, in services.SignupInput) (*services.LoginResult, error) {
	return s.signup(ctx, token, in)
}
func (s stubAuthSvc) Refresh(ctx context.Context, token string) (string, error) {
	return s.refresh(ctx, token)
}
func (s stubAuthSvc) Logout(ctx context.Context, userID int64, token string) error {
	return s.logout(ctx, userID, token)
}
func (s stubAuthSvc) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.me(ctx, userID)
}

type stubPostSvc struct {
	create func(ctx context.Context, userID int64, in services.PostInput) (*domain.Post, *services.ExpResult, error)
	get    func(ctx context.Context, id int64) (*domain.Post, error)
	list   func(ctx context.Context, opts services.PostListOptions) (*services.PostPage, error)
	update func(ctx context.Context, id, userID int64, in services.PostInput) (*domain.Post, error)
	del    func(ctx context.Context, id, userID int64) error
	report func(ctx context.Context, postID, userID int64, reason string) error
}

func (s stubPostSvc) Create(ctx context.Context, userID int64, in services.PostInput) (*domain.Post, *services.ExpResult, error) {
	return s.create(ctx, userID, in)
}
func (s stubPostSvc) Get(ctx context.Context, id int64) (*domain.Post, error) { return s.get(ctx, id) }
func (s stubPostSvc) ListPage(ctx context.Context, opts services.PostListOptions) (*services.PostPage, error) {
	return s.list(ctx, opts)
}
func (s stubPostSvc) Update(ctx context.Context, id, userID int64, in services.PostInput) (*domain.Post, error) {
	return s.update(ctx, id, userID, in)
}
func (s stubPostSvc) Delete(ctx context.Context, id, userID int64) error { return s.del(ctx, id, userID) }
func (s stubPostSvc) Report(ctx context.Context, postID, userID int64, reason string) error {
	return s.report(ctx, postID, userID, reason)
}

type stubReactionSvc struct {
	toggle func(ctx context.Context, postID, userID int64, target domain.ReactionKind) (*services.ToggleResult, error)
}

func (s stubReactionSvc) Toggle(ctx context.Context, postID, userID int64, target domain.ReactionKind) (*services.ToggleResult, error) {
	return s.toggle(ctx, postID, userID, target)
}

type stubCommentSvc struct {
	create func(ctx context.Context, postID, userID int64, content string) (*domain.Comment, *services.ExpResult, error)
	list   func(ctx context.Context, postID int64, page, pageSize int) (*services.CommentPage, error)
	update func(ctx context.Context, id, userID int64, content string) (*domain.Comment, error)
	del    func(ctx context.Context, id, userID int64) error
}

func (s stubCommentSvc) Create(ctx context.Context, postID, userID int64, content string) (*domain.Comment, *services.ExpResult, error) {
	return s.create(ctx, postID, userID, content)
}
func (s stubCommentSvc) ListPage(ctx context.Context, postID int64, page, pageSize int) (*services.CommentPage, error) {
	return s.list(ctx, postID, page, pageSize)
}
func (s stubCommentSvc) Update(ctx context.Context, id, userID int64, content string) (*domain.Comment, error) {
	return s.update(ctx, id, userID, content)
}
func (s stubCommentSvc) Delete(ctx context.Context, id, userID int64) error {
	return s.del(ctx, id, userID)
}

type stubBookmarkSvc struct {
	toggle func(ctx context.Context, userID, eventID int64) (bool, error)
	list   func(ctx context.Context, userID int64) ([]domain.Bookmark, error)
}

func (s stubBookmarkSvc) Toggle(ctx context.Context, userID, eventID int64) (bool, error) {
	return s.toggle(ctx, userID, eventID)
}
func (s stubBookmarkSvc) List(ctx context.Context, userID int64) ([]domain.Bookmark, error) {
	return s.list(ctx, userID)
}

type stubEventSvc struct {
	get  func(ctx context.Context, id int64) (*domain.Event, error)
	list func(ctx context.Context, opts services.EventListOptions) (*services.EventPage, error)
}

func (s stubEventSvc) Get(ctx context.Context, id int64) (*domain.Event, error) {
	return s.get(ctx, id)
}
func (s stubEventSvc) ListPage(ctx context.Context, opts services.EventListOptions) (*services.EventPage, error) {
	return s.list(ctx, opts)
}

type stubNotifSvc struct {
	list func(ctx context.Context, userID int64, typ domain.NotificationType, page, pageSize int) ([]domain.Notification, int64, error)
	read func(ctx context.Context, userID, id int64) error
}

func (s stubNotifSvc) ListPage(ctx context.Context, userID int64, typ domain.NotificationType, page, pageSize int) ([]domain.Notification, int64, error) {
	return s.list(ctx, userID, typ, page, pageSize)
}
func (s stubNotifSvc) MarkRead(ctx context.Context, userID, id int64) error {
	return s.read(ctx, userID, id)
}

type stubUploadSvc struct {
	presign func(ctx context.Context, userID int64, filename, contentType string) (*uploads.PresignedUpload, error)
}

func (s stubUploadSvc) PresignPut(ctx context.Context, userID int64, filename, contentType string) (*uploads.PresignedUpload, error) {
	return s.presign(ctx, userID, filename, contentType)
}

// jsonReader wraps a JSON literal for use as a request body.
func jsonReader(s string) io.Reader { return bytes.NewBufferString(s) }

// asUser injects an authenticated user id the way the auth middleware does.
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Next()
	}
}
