// Package local es el proveedor de sesión para despliegues sin servicio de identidad:
// un único admin (email + hash bcrypt) y tokens HS256 firmados por la app.
package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ayurveda-repository/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL = 12 * time.Hour
	DefaultIssuer   = "ayurveda-repository"
)

var ErrNotConfigured = errors.New("local auth: admin email, password hash and secret are required")

type Config struct {
	Email        string
	PasswordHash string // bcrypt
	Secret       string
	TokenTTL     time.Duration
	Issuer       string
}

// Provider implementa auth.SessionProvider y auth.AuthVerifier.
type Provider struct {
	email  string
	hash   []byte
	secret []byte
	ttl    time.Duration
	issuer string
	userID string

	// jti revocados hasta que vence el token
	revoked *cache.Cache
	now     func() time.Time
}

var (
	_ auth.SessionProvider = (*Provider)(nil)
	_ auth.AuthVerifier    = (*Provider)(nil)
)

type tokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func New(cfg Config) (*Provider, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" || strings.TrimSpace(cfg.PasswordHash) == "" || cfg.Secret == "" {
		return nil, ErrNotConfigured
	}
	if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
		return nil, fmt.Errorf("local auth: invalid password hash: %w", err)
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = DefaultIssuer
	}

	return &Provider{
		email:   email,
		hash:    []byte(cfg.PasswordHash),
		secret:  []byte(cfg.Secret),
		ttl:     ttl,
		issuer:  issuer,
		userID:  uuid.NewSHA1(uuid.NameSpaceURL, []byte("admin:"+email)).String(),
		revoked: cache.New(ttl, 10*time.Minute),
		now:     time.Now,
	}, nil
}

func (p *Provider) SignIn(_ context.Context, email, password string) (auth.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// el hash se compara siempre, aunque el email no coincida
	hashErr := bcrypt.CompareHashAndPassword(p.hash, []byte(password))
	if email != p.email || hashErr != nil {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	now := p.now()
	exp := now.Add(p.ttl)

	claims := tokenClaims{
		Email: p.email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return auth.Session{}, fmt.Errorf("local auth: sign token: %w", err)
	}

	return auth.Session{
		AccessToken: signed,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        auth.Claims{UserID: p.userID, Email: p.email},
	}, nil
}

// SignOut revoca el token hasta su vencimiento.
func (p *Provider) SignOut(_ context.Context, accessToken string) error {
	claims, err := p.parse(accessToken)
	if err != nil {
		return nil
	}

	remaining := claims.ExpiresAt.Time.Sub(p.now())
	if remaining <= 0 {
		return nil
	}
	p.revoked.Set(claims.ID, struct{}{}, remaining)
	return nil
}

func (p *Provider) Verify(_ context.Context, token string) (auth.Claims, error) {
	claims, err := p.parse(token)
	if err != nil {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	if _, revoked := p.revoked.Get(claims.ID); revoked {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return auth.Claims{UserID: claims.Subject, Email: claims.Email}, nil
}

func (p *Provider) parse(token string) (*tokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, auth.ErrInvalidToken
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" || claims.Subject != p.userID {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}
