// Comment HTTP handlers.
//
// This file exposes REST endpoints for comments under posts:
//   - POST   /posts/{id}/comments  (create)
//   - GET    /posts/{id}/comments  (list, paginated, oldest first)
//   - PUT    /comments/{id}        (update, author only)
//   - DELETE /comments/{id}        (delete, author only)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/services"
	"github.com/stagemate/go-community-backend/internal/utils"
)

// CommentRequest is the JSON payload for creating or updating a comment.
type CommentRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// CommentResponse wraps a created comment with the experience gained.
type CommentResponse struct {
	Comment *domain.Comment     `json:"comment"`
	Exp     *services.ExpResult `json:"exp,omitempty"`
}

// CreateComment godoc
// @ID          createComment
// @Summary     Comment on a post
// @Description Creates a comment, awards commenting experience, and notifies the post author.
// @Tags        Comments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int                      true  "Post ID"
// @Param       body  body  handlers.CommentRequest  true  "Comment payload"
// @Success     201  {object} handlers.CommentResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object} handlers.ErrorResponse "Post not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /posts/{id}/comments [post]
func (h *Handlers) CreateComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content is required")
		return
	}

	comment, exp, err := h.commentSvc.Create(c.Request.Context(), utils.ParseInt64(c.Param("id")), userID(c), req.Content)
	if err != nil {
		failComment(c, err)
		return
	}
	ok(c, http.StatusCreated, CommentResponse{Comment: comment, Exp: exp})
}

// ListComments godoc
// @ID          listComments
// @Summary     List a post's comments
// @Tags        Comments
// @Produce     json
// @Param       id        path   int  true  "Post ID"
// @Param       page      query  int  false "Page (1-based)"
// @Param       page_size query  int  false "Page size"
// @Success     200  {object} services.CommentPage
// @Failure     404  {object} handlers.ErrorResponse "Post not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /posts/{id}/comments [get]
func (h *Handlers) ListComments(c *gin.Context) {
	page, err := h.commentSvc.ListPage(c.Request.Context(), utils.ParseInt64(c.Param("id")),
		utils.AtoiDefault(c.Query("page"), 1), utils.AtoiDefault(c.Query("page_size"), 20))
	if err != nil {
		failComment(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

// UpdateComment godoc
// @ID          updateComment
// @Summary     Update a comment
// @Tags        Comments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int                      true  "Comment ID"
// @Param       body  body  handlers.CommentRequest  true  "Comment payload"
// @Success     200  {object} domain.Comment
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Comment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /comments/{id} [put]
func (h *Handlers) UpdateComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content is required")
		return
	}

	comment, err := h.commentSvc.Update(c.Request.Context(), utils.ParseInt64(c.Param("id")), userID(c), req.Content)
	if err != nil {
		failComment(c, err)
		return
	}
	ok(c, http.StatusOK, comment)
}

// DeleteComment godoc
// @ID          deleteComment
// @Summary     Delete a comment
// @Tags        Comments
// @Security    BearerAuth
// @Param       id  path  int  true  "Comment ID"
// @Success     204  {string} string "No Content"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Comment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /comments/{id} [delete]
func (h *Handlers) DeleteComment(c *gin.Context) {
	if err := h.commentSvc.Delete(c.Request.Context(), utils.ParseInt64(c.Param("id")), userID(c)); err != nil {
		failComment(c, err)
		return
	}
	noContent(c)
}

// failComment maps the shared comment service errors to HTTP results.
func failComment(c *gin.Context, err error) {
	switch err {
	case services.ErrEmptyContent:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content must not be empty")
	case services.ErrPostNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "post not found")
	case services.ErrCommentNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "comment not found")
	case services.ErrNotOwner:
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the author may modify this comment")
	default:
		failInternal(c, err)
	}
}
