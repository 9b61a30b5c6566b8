package supabase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ayurveda-repository/internal/platform/httpclient"
	"ayurveda-repository/internal/ports/auth"

	"github.com/patrickmn/go-cache"
)

const defaultVerifyCacheTTL = 30 * time.Second

// Auth implementa auth.SessionProvider y auth.AuthVerifier contra el servicio de identidad (GoTrue).
type Auth struct {
	c     *Client
	cache *cache.Cache
	now   func() time.Time
}

var (
	_ auth.SessionProvider = (*Auth)(nil)
	_ auth.AuthVerifier    = (*Auth)(nil)
)

func NewAuth(c *Client, verifyTTL time.Duration) *Auth {
	if verifyTTL <= 0 {
		verifyTTL = defaultVerifyCacheTTL
	}
	return &Auth{
		c:     c,
		cache: cache.New(verifyTTL, 2*verifyTTL),
		now:   time.Now,
	}
}

type passwordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         user   `json:"user"`
}

type user struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	var tr tokenResponse
	err := a.c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/token",
		Query:  url.Values{"grant_type": {"password"}},
		JSON:   passwordGrant{Email: strings.TrimSpace(email), Password: password},
	}, &tr)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity:
			return auth.Session{}, auth.ErrInvalidCredentials
		}
		return auth.Session{}, fmt.Errorf("supabase sign-in: %w", err)
	}
	if tr.AccessToken == "" || tr.User.ID == "" {
		return auth.Session{}, fmt.Errorf("supabase sign-in: incomplete token response")
	}

	expiresAt := a.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	if tr.ExpiresAt > 0 {
		expiresAt = time.Unix(tr.ExpiresAt, 0)
	}

	claims := auth.Claims{UserID: tr.User.ID, Email: tr.User.Email}
	a.cache.SetDefault(cacheKey(tr.AccessToken), claims)

	return auth.Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    expiresAt.UTC(),
		User:         claims,
	}, nil
}

func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	accessToken = strings.TrimSpace(accessToken)
	a.cache.Delete(cacheKey(accessToken))

	err := a.c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/auth/v1/logout",
		Headers: map[string]string{"Authorization": "Bearer " + accessToken},
	}, nil)
	if err != nil {
		// token ya vencido: para nosotros la sesión igual terminó
		if httpclient.StatusCode(err) == http.StatusUnauthorized {
			return nil
		}
		return fmt.Errorf("supabase sign-out: %w", err)
	}
	return nil
}

// Verify consulta /auth/v1/user. Los tokens válidos quedan cacheados un rato.
func (a *Auth) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	key := cacheKey(token)
	if v, ok := a.cache.Get(key); ok {
		return v.(auth.Claims), nil
	}

	var u user
	err := a.c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/auth/v1/user",
		Headers: map[string]string{"Authorization": "Bearer " + token},
	}, &u)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, auth.ErrInvalidToken
		}
		return auth.Claims{}, fmt.Errorf("supabase verify: %w", err)
	}
	if strings.TrimSpace(u.ID) == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	claims := auth.Claims{UserID: u.ID, Email: u.Email}
	a.cache.SetDefault(key, claims)
	return claims, nil
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
