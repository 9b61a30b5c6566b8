package supabase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"ayurveda-repository/internal/platform/httpclient"
	"ayurveda-repository/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("supabase client not configured")
)

const (
	DefaultBucket = "plant-images"
	DefaultTable  = "plants"
)

// Config del backend. URL y Key vienen de env (SUPABASE_URL / SUPABASE_KEY).
type Config struct {
	URL    string
	Key    string
	Bucket string
	Table  string

	Timeout time.Duration
}

// Client comparte el transporte HTTP entre records, storage y auth.
type Client struct {
	http   *httpclient.Client
	url    string
	bucket string
	table  string
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	key := strings.TrimSpace(cfg.Key)
	if base == "" || key == "" {
		return nil, ErrNotConfigured
	}

	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	hc.DefaultHeaders = map[string]string{
		"apikey":        key,
		"Authorization": "Bearer " + key,
	}

	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		bucket = DefaultBucket
	}
	table := strings.TrimSpace(cfg.Table)
	if table == "" {
		table = DefaultTable
	}

	return &Client{
		http:   hc,
		url:    base,
		bucket: bucket,
		table:  table,
	}, nil
}

// HTTPClient expone el *http.Client (tests con httpmock).
func (c *Client) HTTPClient() *http.Client {
	return c.http.HTTP
}

// do manda el request como el usuario de la sesión si hay token en el contexto;
// sin token (p.ej. detalle público) queda la key del proyecto.
func (c *Client) do(ctx context.Context, req httpclient.Request, out any) error {
	if token, ok := auth.AccessTokenFrom(ctx); ok {
		headers := make(map[string]string, len(req.Headers)+1)
		for k, v := range req.Headers {
			headers[k] = v
		}
		headers["Authorization"] = "Bearer " + token
		req.Headers = headers
	}
	return c.http.Do(ctx, req, out)
}
