package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ayurveda-repository/internal/platform/httpclient"
	"ayurveda-repository/internal/ports/objectstore"
)

// Storage implementa objectstore.Store sobre el bucket público configurado.
type Storage struct {
	c *Client
}

var _ objectstore.Store = (*Storage)(nil)

func NewStorage(c *Client) *Storage {
	return &Storage{c: c}
}

func (s *Storage) Put(ctx context.Context, path string, data []byte, contentType string, upsert bool) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	err := s.c.do(ctx, httpclient.Request{
		Method:      http.MethodPost,
		Path:        "/storage/v1/object/" + url.PathEscape(s.c.bucket) + "/" + escapePath(path),
		Headers:     map[string]string{"x-upsert": strconv.FormatBool(upsert)},
		Body:        data,
		ContentType: contentType,
	}, nil)
	if err != nil {
		return fmt.Errorf("supabase upload %s: %w", path, err)
	}
	return nil
}

func (s *Storage) PublicURL(path string) string {
	return s.c.url + "/storage/v1/object/public/" + url.PathEscape(s.c.bucket) + "/" + escapePath(path)
}

// escapePath escapa cada segmento pero conserva las "/".
func escapePath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
