package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/auth"
	"github.com/stagemate/go-community-backend/internal/config"
)

func authTokens() *auth.Service {
	return auth.NewService(config.JWTConfig{
		Secret:          "middleware-test-secret",
		AccessTTL:       time.Minute,
		RefreshTTL:      time.Hour,
		RegistrationTTL: time.Minute,
	})
}

func newAuthRouter(tokens *auth.Service, required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if required {
		r.Use(RequireAuth(tokens))
	} else {
		r.Use(OptionalAuth(tokens))
	}
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, strconv.FormatInt(UserIDFrom(c), 10))
	})
	return r
}

func getWhoami(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := authTokens()
	r := newAuthRouter(tokens, true)

	tok, _, err := tokens.IssueAccess(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	w := getWhoami(r, "Bearer "+tok)
	if w.Code != http.StatusOK || w.Body.String() != "42" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}

func TestRequireAuth_MissingAndMalformed(t *testing.T) {
	r := newAuthRouter(authTokens(), true)

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer garbage"} {
		if w := getWhoami(r, header); w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: got %d, want 401", header, w.Code)
		}
	}
}

func TestRequireAuth_WrongKindRejected(t *testing.T) {
	tokens := authTokens()
	r := newAuthRouter(tokens, true)

	refresh, _, err := tokens.IssueRefresh(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if w := getWhoami(r, "Bearer "+refresh); w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token accepted as access: %d", w.Code)
	}
}

func TestRequireAuth_ExpiredGetsDistinctCode(t *testing.T) {
	expired := auth.NewService(config.JWTConfig{
		Secret:    "middleware-test-secret",
		AccessTTL: -time.Minute,
	})
	verifier := authTokens()
	r := newAuthRouter(verifier, true)

	tok, _, err := expired.IssueAccess(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	w := getWhoami(r, "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", w.Code)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "token_expired" {
		t.Fatalf("code = %q, want token_expired", body.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := authTokens()
	r := newAuthRouter(tokens, false)

	// Anonymous passes with no user id.
	if w := getWhoami(r, ""); w.Code != http.StatusOK || w.Body.String() != "0" {
		t.Fatalf("anonymous: got %d %q", w.Code, w.Body.String())
	}
	// Garbage is ignored, not rejected.
	if w := getWhoami(r, "Bearer nope"); w.Code != http.StatusOK || w.Body.String() != "0" {
		t.Fatalf("garbage: got %d %q", w.Code, w.Body.String())
	}

	tok, _, err := tokens.IssueAccess(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if w := getWhoami(r, "Bearer "+tok); w.Code != http.StatusOK || w.Body.String() != "7" {
		t.Fatalf("token: got %d %q", w.Code, w.Body.String())
	}
}
