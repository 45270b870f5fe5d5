// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides bearer-token authentication. RequireAuth rejects
// requests without a valid access token; OptionalAuth attaches the user id
// when a valid token is present and lets anonymous requests through.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/auth"
)

// RequireAuth returns middleware that verifies the Authorization bearer token
// as an access token and stores the user id (int64) in the Gin context under
// "userID". Missing, malformed, expired, or wrong-kind tokens all abort with
// 401; an expired token gets the distinct "token_expired" code so clients
// know to refresh instead of re-login.
func RequireAuth(tokens *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			unauthorized(c, "unauthorized", "missing bearer token")
			return
		}
		claims, err := tokens.VerifyKind(raw, auth.KindAccess)
		if err != nil {
			if err == auth.ErrTokenExpired {
				unauthorized(c, "token_expired", "access token expired")
				return
			}
			unauthorized(c, "unauthorized", "invalid access token")
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// OptionalAuth is RequireAuth without the rejection: a valid access token
// attaches the user id, anything else leaves the request anonymous.
func OptionalAuth(tokens *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if claims, err := tokens.VerifyKind(raw, auth.KindAccess); err == nil {
				c.Set(userIDKey, claims.UserID)
			}
		}
		c.Next()
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" when the header is absent or not a bearer scheme.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func unauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    message,
	})
}
