// Package auth issues and verifies the three signed bearer-token kinds used
// by the API: short-lived access tokens, long-lived refresh tokens, and
// single-use-by-convention registration tokens that bridge a verified
// third-party identity to account creation.
//
// All three kinds share one HS256 secret and differ only in payload and TTL.
// Refresh tokens are additionally persisted per device by the caller; the
// registration token is not tracked server-side, so signup must re-check
// email/provider uniqueness when it consumes one.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stagemate/go-community-backend/internal/config"
)

// Token kinds carried in the "type" claim.
const (
	KindAccess       = "access"
	KindRefresh      = "refresh"
	KindRegistration = "registration"
)

var (
	// ErrTokenExpired indicates the signature was valid but the token is past
	// its expiry. Callers may surface a more specific message but must still
	// treat it as an authentication failure.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates a malformed token, a bad signature, or a
	// token of an unexpected kind.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the payload carried by every token kind. Access and refresh
// tokens carry UserID; registration tokens carry the verified third-party
// identity instead (the account does not exist yet).
type Claims struct {
	UserID     int64  `json:"user_id,omitempty"`
	Kind       string `json:"type"`
	Provider   string `json:"provider,omitempty"`
	ProviderID string `json:"provider_id,omitempty"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens. It is immutable after construction and
// safe for concurrent use.
type Service struct {
	secret          []byte
	accessTTL       time.Duration
	refreshTTL      time.Duration
	registrationTTL time.Duration

	now func() time.Time // clock seam for expiry tests
}

// NewService constructs a Service from the JWT configuration.
func NewService(cfg config.JWTConfig) *Service {
	return &Service{
		secret:          []byte(cfg.Secret),
		accessTTL:       cfg.AccessTTL,
		refreshTTL:      cfg.RefreshTTL,
		registrationTTL: cfg.RegistrationTTL,
		now:             time.Now,
	}
}

// IssueAccess returns a signed access token for userID and its expiry time.
func (s *Service) IssueAccess(userID int64) (string, time.Time, error) {
	return s.sign(Claims{UserID: userID, Kind: KindAccess}, s.accessTTL)
}

// IssueRefresh returns a signed refresh token for userID and its expiry time.
// The caller persists the token string as a RefreshToken row so it can be
// revoked on logout; several may be live per user (multi-device).
func (s *Service) IssueRefresh(userID int64) (string, time.Time, error) {
	return s.sign(Claims{UserID: userID, Kind: KindRefresh}, s.refreshTTL)
}

// IssueRegistration returns a short-lived token carrying a verified
// third-party identity. It is not tracked server-side; replay before expiry
// is possible and signup must re-check uniqueness at consumption time.
func (s *Service) IssueRegistration(provider, providerID, email string) (string, time.Time, error) {
	return s.sign(Claims{
		Kind:       KindRegistration,
		Provider:   provider,
		ProviderID: providerID,
		Email:      email,
	}, s.registrationTTL)
}

// Verify checks signature and expiry and returns the decoded claims.
// Expired tokens yield ErrTokenExpired; everything else yields
// ErrTokenInvalid. Both are authentication failures.
func (s *Service) Verify(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrTokenInvalid
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}

// VerifyKind verifies the token and additionally checks its kind claim, so a
// refresh token can never pass where an access token is expected and vice
// versa.
func (s *Service) VerifyKind(token, kind string) (*Claims, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *Service) sign(claims Claims, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	return signed, exp, err
}
