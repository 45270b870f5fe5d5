// Upload HTTP handlers.
//
// This file exposes the presigned-upload endpoint. Clients ask for a
// time-limited S3 PUT URL, upload the file themselves, and store the
// returned public URL on the post.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/uploads"
)

// PresignRequest names the file about to be uploaded.
type PresignRequest struct {
	Filename    string `json:"filename" binding:"required,max=255" example:"concert.jpg"`
	ContentType string `json:"content_type" binding:"required" example:"image/jpeg"`
}

// PresignUpload godoc
// @ID          presignUpload
// @Summary     Presign a file upload
// @Description Issues a time-limited S3 PUT URL for a direct client upload.
// @Tags        Uploads
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  handlers.PresignRequest  true  "File metadata"
// @Success     200  {object} uploads.PresignedUpload
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload or unsupported file type"
// @Failure     503  {object} handlers.ErrorResponse "Object storage not configured"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /uploads/presign [post]
func (h *Handlers) PresignUpload(c *gin.Context) {
	if h.uploadSvc == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeInternal, "object storage not configured")
		return
	}

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "filename and content_type are required")
		return
	}

	res, err := h.uploadSvc.PresignPut(c.Request.Context(), userID(c), req.Filename, req.ContentType)
	if err != nil {
		if errors.Is(err, uploads.ErrUnsupportedFile) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "only png, jpg, jpeg, or webp images can be uploaded")
			return
		}
		failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}
