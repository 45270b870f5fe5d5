// Event and bookmark HTTP handlers.
//
// This file exposes read access to the synced event catalog and the per-user
// bookmark toggle:
//   - GET  /events                  (list, paginated, searchable)
//   - GET  /events/{id}             (read)
//   - POST /events/{id}/bookmark    (toggle bookmark)
//   - GET  /users/me/bookmarks      (list own bookmarks)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/services"
	"github.com/stagemate/go-community-backend/internal/utils"
)

// ListEvents godoc
// @ID          listEvents
// @Summary     List events
// @Tags        Events
// @Produce     json
// @Param       search    query  string  false "Title/artist/venue search"
// @Param       sort      query  string  false "Sort order"  Enums(latest, update, name)
// @Param       page      query  int     false "Page (1-based)"
// @Param       page_size query  int     false "Page size"
// @Success     200  {object} services.EventPage
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /events [get]
func (h *Handlers) ListEvents(c *gin.Context) {
	page, err := h.eventSvc.ListPage(c.Request.Context(), services.EventListOptions{
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

// GetEvent godoc
// @ID          getEvent
// @Summary     Read an event
// @Tags        Events
// @Produce     json
// @Param       id  path  int  true  "Event ID"
// @Success     200  {object} domain.Event
// @Failure     404  {object} handlers.ErrorResponse "Event not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /events/{id} [get]
func (h *Handlers) GetEvent(c *gin.Context) {
	ev, err := h.eventSvc.Get(c.Request.Context(), utils.ParseInt64(c.Param("id")))
	if err != nil {
		switch err {
		case services.ErrEventNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "event not found")
		default:
			failInternal(c, err)
		}
		return
	}
	ok(c, http.StatusOK, ev)
}

// ToggleBookmark godoc
// @ID          toggleBookmark
// @Summary     Toggle an event bookmark
// @Description Bookmarks the event when absent, removes the bookmark when present.
// @Tags        Events
// @Produce     json
// @Security    BearerAuth
// @Param       id  path  int  true  "Event ID"
// @Success     200  {object} map[string]bool
// @Failure     404  {object} handlers.ErrorResponse "Event not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /events/{id}/bookmark [post]
func (h *Handlers) ToggleBookmark(c *gin.Context) {
	on, err := h.bookmarkSvc.Toggle(c.Request.Context(), userID(c), utils.ParseInt64(c.Param("id")))
	if err != nil {
		switch err {
		case services.ErrEventNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "event not found")
		default:
			failInternal(c, err)
		}
		return
	}
	ok(c, http.StatusOK, gin.H{"bookmarked": on})
}

// ListBookmarks godoc
// @ID          listBookmarks
// @Summary     List own bookmarks
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
// @Success     200  {array} domain.Bookmark
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/me/bookmarks [get]
func (h *Handlers) ListBookmarks(c *gin.Context) {
	bms, err := h.bookmarkSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		failInternal(c, err)
		return
	}
	ok(c, http.StatusOK, bms)
}
