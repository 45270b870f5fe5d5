// Auth HTTP handlers.
//
// This file exposes the session lifecycle endpoints:
//   - POST /auth/login/{provider}  (social login / identity check)
//   - POST /auth/signup            (complete registration)
//   - POST /auth/refresh           (rotate access token)
//   - POST /auth/logout            (revoke refresh token)
//   - GET  /users/me               (current account)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stagemate/go-community-backend/internal/services"
)

// LoginRequest is the JSON payload for social login. AccessToken is the
// OAuth access token obtained from the provider by the client.
type LoginRequest struct {
	AccessToken string `json:"access_token" binding:"required" example:"ya29.a0AfH6..."`
}

// SignupRequest completes registration with the token handed out by login.
type SignupRequest struct {
	RegistrationToken       string `json:"registration_token" binding:"required"`
	Nickname                string `json:"nickname" binding:"required,min=1,max=30" example:"gigfan"`
	IsEmailSub              bool   `json:"is_email_sub"`
	IsEventsNotificationSub bool   `json:"is_events_notification_sub"`
	IsPostsNotificationSub  bool   `json:"is_posts_notification_sub"`
}

// RefreshRequest carries the refresh token being exchanged or revoked.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login godoc
// @ID          login
// @Summary     Social login
// @Description Exchanges a provider OAuth token for service credentials, or a registration token when no account exists yet.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       provider  path  string  true  "OAuth provider"  Enums(kakao, naver, google)
// @Param       body      body  handlers.LoginRequest  true  "Provider token"
// @Success     200  {object} services.LoginResult
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Provider rejected the token"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /auth/login/{provider} [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "access_token is required")
		return
	}

	res, err := h.authSvc.Login(c.Request.Context(), c.Param("provider"), req.AccessToken)
	if err != nil {
		switch err {
		case services.ErrInvalidProviderToken:
			fail(c, http.StatusUnauthorized, ErrCodeInvalidProvider, "provider token rejected")
		default:
			failInternal(c, err)
		}
		return
	}
	ok(c, http.StatusOK, res)
}

// Signup godoc
// @ID          signup
// @Summary     Complete registration
// @Description Consumes a registration token and creates the account, logging it in immediately.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.SignupRequest  true  "Registration payload"
// @Success     201  {object} services.LoginResult
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Registration token invalid or expired"
// @Failure     409  {object} handlers.ErrorResponse "Account already exists"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /auth/signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "registration_token and nickname are required")
		return
	}

	res, err := h.authSvc.Signup(c.Request.Context(), req.RegistrationToken, services.SignupInput{
		Nickname:                req.Nickname,
		IsEmailSub:              req.IsEmailSub,
		IsEventsNotificationSub: req.IsEventsNotificationSub,
		IsPostsNotificationSub:  req.IsPostsNotificationSub,
	})
	if err != nil {
		switch err {
		case services.ErrInvalidRegistrationToken:
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "registration token invalid or expired")
		case services.ErrAlreadyRegistered:
			fail(c, http.StatusConflict, ErrCodeAlreadyRegistered, "account already exists")
		default:
			failInternal(c, err)
		}
		return
	}
	ok(c, http.StatusCreated, res)
}

// Refresh godoc
// @ID          refresh
// @Summary     Refresh access token
// @Description Exchanges a valid, unrevoked refresh token for a new access token.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RefreshRequest  true  "Refresh token"
// @Success     200  {object} map[string]string
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Refresh token invalid, expired, or revoked"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /auth/refresh [post]
func (h *Handlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "refresh_token is required")
		return
	}

	access, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch err {
		case services.ErrInvalidRefreshToken:
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "refresh token invalid or revoked")
		default:
			failInternal(c, err)
		}
		return
	}
	ok(c, http.StatusOK, gin.H{"access": access})
}

// Logout godoc
// @ID          logout
// @Summary     Logout
// @Description Revokes the presented refresh token. Other devices stay logged in.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  handlers.RefreshRequest  true  "Refresh token to revoke"
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Unknown refresh token"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "refresh_token is required")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), userID(c), req.RefreshToken); err != nil {
		switch err {
		case services.ErrInvalidRefreshToken:
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "unknown refresh token")
		default:
			failInternal(c, err)
		}
		return
	}
	noContent(c)
}

// Me godoc
// @ID          me
// @Summary     Current account
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object} domain.User
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Account not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/me [get]
func (h *Handlers) Me(c *gin.Context) {
	user, err := h.authSvc.Me(c.Request.Context(), userID(c))
	if err != nil {
		switch err {
		case services.ErrUserNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "account not found")
		default:
			failInternal(c, err)
		}
		return
	}
	ok(c, http.StatusOK, user)
}
