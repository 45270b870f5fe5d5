// Package services – AuthService
//
// This file implements the session lifecycle: social login (provider token
// exchange), signup via registration token, access-token refresh, and
// logout. Known identities get an access/refresh pair (the refresh token is
// persisted per device so it can be revoked); unknown identities get a
// short-lived registration token that a subsequent signup call consumes.
//
// The registration token is not tracked server-side, so signup re-checks
// email/provider uniqueness inside its transaction; a replay before expiry
// loses that race and surfaces as ErrAlreadyRegistered.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stagemate/go-community-backend/internal/auth"
	"github.com/stagemate/go-community-backend/internal/domain"
	"github.com/stagemate/go-community-backend/internal/oauth"
	"github.com/stagemate/go-community-backend/internal/repo"
)

// TokenPair is the credential set returned on successful authentication.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResult is the outcome of a social login attempt. When Registered is
// false the identity was verified but no account exists yet; the caller must
// complete signup with RegistrationToken.
type LoginResult struct {
	Registered        bool         `json:"registered"`
	Tokens            *TokenPair   `json:"token,omitempty"`
	RegistrationToken string       `json:"registration_token,omitempty"`
	User              *domain.User `json:"user,omitempty"`
}

// SignupInput carries the self-chosen profile fields for account creation.
type SignupInput struct {
	Nickname                string
	IsEmailSub              bool
	IsEventsNotificationSub bool
	IsPostsNotificationSub  bool
}

// AuthService implements login, signup, refresh, and logout.
type AuthService struct {
	// DB is the database handle used for account and token persistence.
	DB *gorm.DB

	// Tokens signs and verifies the three bearer-token kinds.
	Tokens *auth.Service

	// OAuth resolves provider access tokens to verified identities.
	OAuth oauth.Verifier
}

// Login exchanges a provider access token for service credentials.
//
// Flow:
//  1. The provider verifies the token and returns the identity.
//  2. An account is looked up by (provider, provider_id), falling back to
//     the verified email (an earlier signup through another provider).
//  3. Known account: issue an access/refresh pair and persist the refresh
//     token row. Unknown: issue a registration token for signup.
//
// Errors: ErrInvalidProviderToken when the provider rejects the token or
// the provider name is unknown.
func (s *AuthService) Login(ctx context.Context, provider, providerToken string) (*LoginResult, error) {
	identity, err := s.OAuth.Verify(ctx, provider, providerToken)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidToken) || errors.Is(err, oauth.ErrUnknownProvider) {
			return nil, ErrInvalidProviderToken
		}
		return nil, err
	}

	user, err := repo.GetUserByProvider(ctx, s.DB, identity.Provider, identity.ProviderID)
	if err != nil && isNotFound(err) && identity.Email != "" {
		user, err = repo.GetUserByEmail(ctx, s.DB, identity.Email)
	}
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		// Identity verified, no account yet: hand back a registration token.
		regToken, _, err := s.Tokens.IssueRegistration(identity.Provider, identity.ProviderID, identity.Email)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Registered: false, RegistrationToken: regToken}, nil
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Registered: true, Tokens: pair, User: user}, nil
}

// Signup consumes a registration token and creates the account it describes.
//
// Uniqueness is re-checked inside the transaction that inserts the user, so
// a raced replay of the same token (or a second signup with the same email)
// resolves to ErrAlreadyRegistered for the loser. On success the new user is
// logged in immediately.
func (s *AuthService) Signup(ctx context.Context, registrationToken string, in SignupInput) (*LoginResult, error) {
	claims, err := s.Tokens.VerifyKind(registrationToken, auth.KindRegistration)
	if err != nil {
		return nil, ErrInvalidRegistrationToken
	}

	user := &domain.User{
		Email:                   claims.Email,
		Nickname:                in.Nickname,
		Provider:                claims.Provider,
		ProviderID:              claims.ProviderID,
		Level:                   1,
		ReliabilityScore:        50,
		IsEmailSub:              in.IsEmailSub,
		IsEventsNotificationSub: in.IsEventsNotificationSub,
		IsPostsNotificationSub:  in.IsPostsNotificationSub,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetUserByEmail(ctx, tx, claims.Email); err == nil {
			return ErrAlreadyRegistered
		} else if !isNotFound(err) {
			return err
		}
		if _, err := repo.GetUserByProvider(ctx, tx, claims.Provider, claims.ProviderID); err == nil {
			return ErrAlreadyRegistered
		} else if !isNotFound(err) {
			return err
		}
		if err := repo.CreateUser(ctx, tx, user); err != nil {
			if isDuplicate(err) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Registered: true, Tokens: pair, User: user}, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token.
// The stored row must still exist: a token deleted by logout fails here even
// before its expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.Tokens.VerifyKind(refreshToken, auth.KindRefresh)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if _, err := repo.GetRefreshToken(ctx, s.DB, claims.UserID, refreshToken); err != nil {
		if isNotFound(err) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}
	access, _, err := s.Tokens.IssueAccess(claims.UserID)
	return access, err
}

// Logout revokes the refresh token presented by the device. Other devices'
// tokens stay valid. An unknown token yields ErrInvalidRefreshToken.
func (s *AuthService) Logout(ctx context.Context, userID int64, refreshToken string) error {
	if err := repo.DeleteRefreshToken(ctx, s.DB, userID, refreshToken); err != nil {
		if isNotFound(err) {
			return ErrInvalidRefreshToken
		}
		return err
	}
	return nil
}

// Me returns the account behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issuePair(ctx context.Context, userID int64) (*TokenPair, error) {
	access, _, err := s.Tokens.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.Tokens.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	if err := repo.CreateRefreshToken(ctx, s.DB, userID, refresh); err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}
