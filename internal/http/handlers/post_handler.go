// Post HTTP handlers.
//
// This file exposes REST endpoints for community posts:
//   - POST   /posts               (create)
//   - GET    /posts               (list, paginated, filterable)
//   - GET    /posts/{id}          (read, counts a view)
//   - PUT    /posts/{id}          (update, author only)
//   - DELETE /posts/{id}          (delete, author only)
//   - POST   /posts/{id}/reaction (toggle like/dislike)
//   - POST   /posts/{id}/report   (file a moderation report)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/services"
	"github.com/stagemate/go-community-backend/internal/utils"
)

// CreatePostRequest is the JSON payload for creating or updating a post.
type CreatePostRequest struct {
	EventID  int64  `json:"event_id" binding:"required" example:"42"`
	Category string `json:"category" binding:"required" example:"free"`
	Title    string `json:"title" binding:"required,max=200"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
}

// ReactionRequest selects the reaction kind being toggled.
type ReactionRequest struct {
	Kind string `json:"kind" binding:"required,oneof=like dislike" example:"like"`
}

// ReportRequest carries the free-form reason for a moderation report.
type ReportRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// PostResponse wraps a created post with the experience gained by writing it.
type PostResponse struct {
	Post *domain.Post        `json:"post"`
	Exp  *services.ExpResult `json:"exp,omitempty"`
}

// CreatePost godoc
// @ID          createPost
// @Summary     Create a post
// @Description Creates a post under an event and awards posting experience.
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  handlers.CreatePostRequest  true  "Post payload"
// @Success     201  {object} handlers.PostResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object} handlers.ErrorResponse "Event not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /posts [post]
func (h *Handlers) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "event_id, category, title and content are required")
		return
	}

	post, exp, err := h.postSvc.Create(c.Request.Context(), userID(c), services.PostInput{
		EventID:  req.EventID,
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		failPost(c, err)
		return
	}
	ok(c, http.StatusCreated, PostResponse{Post: post, Exp: exp})
}

// ListPosts godoc
// @ID          listPosts
// @Summary     List posts
// @Tags        Posts
// @Produce     json
// @Param       event_id  query  int     false "Filter by event"
// @Param       category  query  string  false "Filter by category"
// @Param       search    query  string  false "Title/content search"
// @Param       sort      query  string  false "Sort order"  Enums(latest, popular, views)
// @Param       page      query  int     false "Page (1-based)"
// @Param       page_size query  int     false "Page size"
// @Success     200  {object} services.PostPage
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /posts [get]
func (h *Handlers) ListPosts(c *gin.Context) {
	page, err := h.postSvc.ListPage(c.Request.Context(), services.PostListOptions{
		EventID:  utils.ParseInt64(c.Query("event_id")),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     utils.AtoiDefault(c.Query("page"), 1),
		PageSize: utils.AtoiDefault(c.Query("page_size"), 20),
	})
	if err != nil {
		failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

// GetPost godoc
// @ID          getPost
// @Summary     Read a post
// @Description Fetches a post by id. Each read counts as a view.
// @Tags        Posts
// @Produce     json
// @Param       id  path  int  true  "Post ID"
// @Success     200  {object} domain.Post
// @Failure     404  {object} handlers.ErrorResponse "Post not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /posts/{id} [get]
func (h *Handlers) GetPost(c *gin.Context) {
	post, err := h.postSvc.Get(c.Request.Context(), utils.ParseInt64(c.Param("id")))
	if err != nil {
		failPost(c, err)
		return
	}
	ok(c, http.StatusOK, post)
}

// UpdatePost godoc
// @ID          updatePost
// @Summary     Update a post
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int                         true  "Post ID"
// @Param       body  body  handlers.CreatePostRequest  true  "Post payload"
// @Success     200  {object} domain.Post
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Post not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /posts/{id} [put]
func (h *Handlers) UpdatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category, title and content are required")
		return
	}

	post, err := h.postSvc.Update(c.Request.Context(), utils.ParseInt64(c.Param("id")), userID(c), services.PostInput{
		EventID:  req.EventID,
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		failPost(c, err)
		return
	}
	ok(c, http.StatusOK, post)
}

// DeletePost godoc
// @ID          deletePost
// @Summary     Delete a post
// @Tags        Posts
// @Security    BearerAuth
// @Param       id  path  int  true  "Post ID"
// @Success     204  {string} string "No Content"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Post not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /posts/{id} [delete]
func (h *Handlers) DeletePost(c *gin.Context) {
	if err := h.postSvc.Delete(c.Request.Context(), utils.ParseInt64(c.Param("id")), userID(c)); err != nil {
		failPost(c, err)
		return
	}
	noContent(c)
}

// ToggleReaction godoc
// @ID          toggleReaction
// @Summary     Toggle a like or dislike
// @Description Applies the reaction toggle: pressing the same button again removes the reaction; pressing the other switches it.
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int                       true  "Post ID"
// @Param       body  body  handlers.ReactionRequest  true  "Reaction kind"
// @Success     200  {object} services.ToggleResult
// @Failure     400  {object} handlers.ErrorResponse "Invalid kind"
// @Failure     404  {object} handlers.ErrorResponse "Post not found"
// @Failure     409  {object} handlers.ErrorResponse "Concurrent reaction conflict"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /posts/{id}/reaction [post]
func (h *Handlers) ToggleReaction(c *gin.Context) {
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "kind must be like or dislike")
		return
	}

	res, err := h.reactionSvc.Toggle(c.Request.Context(), utils.ParseInt64(c.Param("id")), userID(c), domain.ReactionKind(req.Kind))
	if err != nil {
		switch err {
		case services.ErrInvalidReaction:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "kind must be like or dislike")
		case services.ErrPostNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
		case services.ErrReactionConflict:
			fail(c, http.StatusConflict, ErrCodeConflict, "reaction changed concurrently, retry")
		default:
			failInternal(c, err)
		}
		return
	}
	ok(c, http.StatusOK, res)
}

// ReportPost godoc
// @ID          reportPost
// @Summary     Report a post
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int                     true  "Post ID"
// @Param       body  body  handlers.ReportRequest  true  "Report reason"
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object} handlers.ErrorResponse "Post not found"
// @Failure     409  {object} handlers.ErrorResponse "Already reported"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /posts/{id}/report [post]
func (h *Handlers) ReportPost(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reason is required")
		return
	}

	if err := h.postSvc.Report(c.Request.Context(), utils.ParseInt64(c.Param("id")), userID(c), req.Reason); err != nil {
		switch err {
		case services.ErrPostNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
		case services.ErrDuplicateReport:
			fail(c, http.StatusConflict, ErrCodeConflict, "post already reported")
		default:
			failInternal(c, err)
		}
		return
	}
	noContent(c)
}

// failPost maps the shared post service errors to HTTP results.
func failPost(c *gin.Context, err error) {
	switch err {
	case services.ErrEmptyTitle:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title must not be empty")
	case services.ErrEmptyContent:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content must not be empty")
	case services.ErrInvalidCategory:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown category")
	case services.ErrEventNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "event not found")
	case services.ErrPostNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
	case services.ErrNotOwner:
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the author may modify this post")
	default:
		failInternal(c, err)
	}
}
