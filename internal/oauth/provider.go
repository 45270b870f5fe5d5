// Package oauth exchanges a third-party access token (Kakao, Naver, Google)
// for a verified identity by calling the provider's userinfo endpoint. Only
// the identity surface is modeled here; the OAuth authorization dance happens
// on the client.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Supported provider names.
const (
	ProviderKakao  = "kakao"
	ProviderNaver  = "naver"
	ProviderGoogle = "google"
)

var (
	// ErrUnknownProvider is returned for provider names outside the
	// supported set.
	ErrUnknownProvider = errors.New("unknown oauth provider")

	// ErrInvalidToken is returned when the provider rejects the token.
	ErrInvalidToken = errors.New("provider rejected the access token")
)

// Identity is the verified subject returned by a provider.
type Identity struct {
	Provider   string
	ProviderID string
	Email      string
	Nickname   string
}

// Verifier resolves a provider access token to a verified identity.
type Verifier interface {
	Verify(ctx context.Context, provider, accessToken string) (*Identity, error)
}

// HTTPVerifier implements Verifier against the real provider endpoints.
// Endpoint URLs are fields so tests can point them at a local server.
type HTTPVerifier struct {
	Client *http.Client

	KakaoUserInfoURL  string
	NaverUserInfoURL  string
	GoogleUserInfoURL string
}

// NewHTTPVerifier returns a verifier wired to the production endpoints with
// a bounded request timeout.
func NewHTTPVerifier() *HTTPVerifier {
	return &HTTPVerifier{
		Client:            &http.Client{Timeout: 10 * time.Second},
		KakaoUserInfoURL:  "https://kapi.kakao.com/v2/user/me",
		NaverUserInfoURL:  "https://openapi.naver.com/v1/nid/me",
		GoogleUserInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	}
}

// Verify calls the provider's userinfo endpoint with the bearer token and
// maps the response to an Identity. A non-200 answer means the token is
// invalid or expired and yields ErrInvalidToken.
func (v *HTTPVerifier) Verify(ctx context.Context, provider, accessToken string) (*Identity, error) {
	var url string
	switch provider {
	case ProviderKakao:
		url = v.KakaoUserInfoURL
	case ProviderNaver:
		url = v.NaverUserInfoURL
	case ProviderGoogle:
		url = v.GoogleUserInfoURL
	default:
		return nil, ErrUnknownProvider
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	switch provider {
	case ProviderKakao:
		return decodeKakao(resp)
	case ProviderNaver:
		return decodeNaver(resp)
	default:
		return decodeGoogle(resp)
	}
}

func decodeKakao(resp *http.Response) (*Identity, error) {
	var body struct {
		ID           int64 `json:"id"`
		KakaoAccount struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname string `json:"nickname"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &Identity{
		Provider:   ProviderKakao,
		ProviderID: strconv.FormatInt(body.ID, 10),
		Email:      body.KakaoAccount.Email,
		Nickname:   body.KakaoAccount.Profile.Nickname,
	}, nil
}

func decodeNaver(resp *http.Response) (*Identity, error) {
	var body struct {
		Response struct {
			ID       string `json:"id"`
			Email    string `json:"email"`
			Nickname string `json:"nickname"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &Identity{
		Provider:   ProviderNaver,
		ProviderID: body.Response.ID,
		Email:      body.Response.Email,
		Nickname:   body.Response.Nickname,
	}, nil
}

func decodeGoogle(resp *http.Response) (*Identity, error) {
	var body struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &Identity{
		Provider:   ProviderGoogle,
		ProviderID: body.Sub,
		Email:      body.Email,
		Nickname:   body.Name,
	}, nil
}
