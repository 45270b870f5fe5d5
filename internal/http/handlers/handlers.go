// Handler wiring.
//
// Handlers are transport-thin: they validate input, call application
// services, and translate domain/service errors into HTTP results. They
// depend on abstract service interfaces so transport concerns stay separate
// from business logic and tests can substitute stubs.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/http/middleware"
	"github.com/stagemate/go-community-backend/internal/services"
	"github.com/stagemate/go-community-backend/internal/uploads"
)

// AuthService defines the session lifecycle operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type AuthService interface {
	Login(ctx context.Context, provider, providerToken string) (*services.LoginResult, error)
	Signup(ctx context.Context, registrationToken string, in services.SignupInput) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, userID int64, refreshToken string) error
	Me(ctx context.Context, userID int64) (*domain.User, error)
}

// PostService defines post CRUD, listing, and report operations.
type PostService interface {
	Create(ctx context.Context, userID int64, in services.PostInput) (*domain.Post, *services.ExpResult, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	ListPage(ctx context.Context, opts services.PostListOptions) (*services.PostPage, error)
	Update(ctx context.Context, id, userID int64, in services.PostInput) (*domain.Post, error)
	Delete(ctx context.Context, id, userID int64) error
	Report(ctx context.Context, postID, userID int64, reason string) error
}

// ReactionService defines the like/dislike toggle.
type ReactionService interface {
	Toggle(ctx context.Context, postID, userID int64, target domain.ReactionKind) (*services.ToggleResult, error)
}

// CommentService defines comment CRUD under posts.
type CommentService interface {
	Create(ctx context.Context, postID, userID int64, content string) (*domain.Comment, *services.ExpResult, error)
	ListPage(ctx context.Context, postID int64, page, pageSize int) (*services.CommentPage, error)
	Update(ctx context.Context, id, userID int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id, userID int64) error
}

// BookmarkService defines event bookmark toggling and listing.
type BookmarkService interface {
	Toggle(ctx context.Context, userID, eventID int64) (bool, error)
	List(ctx context.Context, userID int64) ([]domain.Bookmark, error)
}

// EventService defines read access to the event catalog.
type EventService interface {
	Get(ctx context.Context, id int64) (*domain.Event, error)
	ListPage(ctx context.Context, opts services.EventListOptions) (*services.EventPage, error)
}

// NotificationService defines per-user notification reads.
type NotificationService interface {
	ListPage(ctx context.Context, userID int64, typ domain.NotificationType, page, pageSize int) ([]domain.Notification, int64, error)
	MarkRead(ctx context.Context, userID, id int64) error
}

// UploadService issues presigned upload URLs.
type UploadService interface {
	PresignPut(ctx context.Context, userID int64, filename, contentType string) (*uploads.PresignedUpload, error)
}

// Handlers groups the HTTP endpoints for the public API.
type Handlers struct {
	authSvc     AuthService
	postSvc     PostService
	reactionSvc ReactionService
	commentSvc  CommentService
	bookmarkSvc BookmarkService
	eventSvc    EventService
	notifSvc    NotificationService
	uploadSvc   UploadService
}

// New constructs a Handlers instance bound to the given services. A nil
// uploadSvc disables the presign endpoint (503).
func New(
	authSvc AuthService,
	postSvc PostService,
	reactionSvc ReactionService,
	commentSvc CommentService,
	bookmarkSvc BookmarkService,
	eventSvc EventService,
	notifSvc NotificationService,
	uploadSvc UploadService,
) *Handlers {
	return &Handlers{
		authSvc:     authSvc,
		postSvc:     postSvc,
		reactionSvc: reactionSvc,
		commentSvc:  commentSvc,
		bookmarkSvc: bookmarkSvc,
		eventSvc:    eventSvc,
		notifSvc:    notifSvc,
		uploadSvc:   uploadSvc,
	}
}

// userID extracts the authenticated user id set by the auth middleware.
// Routes using it must be mounted behind RequireAuth, so 0 only occurs in
// misconfigured tests.
func userID(c *gin.Context) int64 {
	return middleware.UserIDFrom(c)
}
