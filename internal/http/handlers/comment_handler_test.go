package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/services"
)

func commentRouter(svc CommentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(nil, nil, nil, svc, nil, nil, nil, nil)
	r := gin.New()
	r.GET("/posts/:id/comments", h.ListComments)
	auth := r.Group("", asUser(7))
	auth.POST("/posts/:id/comments", h.CreateComment)
	auth.PUT("/comments/:id", h.UpdateComment)
	auth.DELETE("/comments/:id", h.DeleteComment)
	return r
}

func TestCreateComment(t *testing.T) {
	r := commentRouter(stubCommentSvc{
		create: func(_ context.Context, postID, userID int64, content string) (*domain.Comment, *services.ExpResult, error) {
			if postID != 3 || userID != 7 || content != "great show" {
				t.Fatalf("args: %d %d %q", postID, userID, content)
			}
			return &domain.Comment{ID: 10, PostID: 3, UserID: 7, Content: content},
				&services.ExpResult{GainedExp: 10, CurrentLevel: 1}, nil
		},
	})

	w := postJSON(r, "/posts/3/comments", `{"content":"great show"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	var res CommentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("json: %v", err)
	}
	if res.Comment == nil || res.Comment.ID != 10 || res.Exp == nil || res.Exp.GainedExp != 10 {
		t.Fatalf("body: %s", w.Body.String())
	}
}

func TestCreateComment_PostNotFound(t *testing.T) {
	r := commentRouter(stubCommentSvc{
		create: func(context.Context, int64, int64, string) (*domain.Comment, *services.ExpResult, error) {
			return nil, nil, services.ErrPostNotFound
		},
	})

	if w := postJSON(r, "/posts/99/comments", `{"content":"x"}`); w.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", w.Code)
	}
}

func TestListComments(t *testing.T) {
	r := commentRouter(stubCommentSvc{
		list: func(_ context.Context, postID int64, page, pageSize int) (*services.CommentPage, error) {
			if postID != 3 || page != 2 || pageSize != 5 {
				t.Fatalf("args: %d %d %d", postID, page, pageSize)
			}
			return &services.CommentPage{Page: 2, Total: 12}, nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/3/comments?page=2&page_size=5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
}

func TestUpdateComment_ErrorMappings(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing", services.ErrCommentNotFound, http.StatusNotFound},
		{"not owner", services.ErrNotOwner, http.StatusForbidden},
		{"empty", services.ErrEmptyContent, http.StatusBadRequest},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := commentRouter(stubCommentSvc{
				update: func(context.Context, int64, int64, string) (*domain.Comment, error) {
					return nil, tc.err
				},
			})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/comments/10", jsonReader(`{"content":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("got %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}
}

func TestDeleteComment(t *testing.T) {
	r := commentRouter(stubCommentSvc{
		del: func(_ context.Context, id, userID int64) error {
			if id != 10 || userID != 7 {
				t.Fatalf("args: %d %d", id, userID)
			}
			return nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/comments/10", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("got %d, want 204", w.Code)
	}
}
