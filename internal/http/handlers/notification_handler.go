// Notification HTTP handlers.
//
// This file exposes per-user notification reads:
//   - GET /users/me/notifications            (list, paginated, newest first)
//   - PUT /users/me/notifications/{id}/read  (mark one as read)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/config"
	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/services"
	"github.com/stagemate/go-community-backend/internal/utils"
)

// NotificationPage is one page of notifications plus paging metadata.
type NotificationPage struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Page          int                   `json:"page"`
	TotalPages    int                   `json:"total_pages"`
}

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List own notifications
// @Tags        Notifications
// @Produce     json
// @Security    BearerAuth
// @Param       type      query  string  false "Filter by type"  Enums(comment, event, post_like, post_dislike, notice)
// @Param       page      query  int     false "Page (1-based)"
// @Param       page_size query  int     false "Page size"
// @Success     200  {object} handlers.NotificationPage
// @Failure     400  {object} handlers.ErrorResponse "Unknown type"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/me/notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	typ := domain.NotificationType(c.Query("type"))
	if typ != "" && !typ.Valid() {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown notification type")
		return
	}

	page, size := utils.ClampPage(
		utils.AtoiDefault(c.Query("page"), 1),
		utils.AtoiDefault(c.Query("page_size"), 20),
		config.DefaultMaxPageSize)
	items, total, err := h.notifSvc.ListPage(c.Request.Context(), userID(c), typ, page, size)
	if err != nil {
		failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, NotificationPage{
		Notifications: items,
		Total:         total,
		Page:          page,
		TotalPages:    utils.TotalPages(total, size),
	})
}

// ReadNotification godoc
// @ID          readNotification
// @Summary     Mark a notification as read
// @Tags        Notifications
// @Security    BearerAuth
// @Param       id  path  int  true  "Notification ID"
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Notification not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/me/notifications/{id}/read [put]
func (h *Handlers) ReadNotification(c *gin.Context) {
	if err := h.notifSvc.MarkRead(c.Request.Context(), userID(c), utils.ParseInt64(c.Param("id"))); err != nil {
		switch err {
		case services.ErrNotificationNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "notification not found")
		default:
			failInternal(c, err)
		}
		return
	}
	noContent(c)
}
