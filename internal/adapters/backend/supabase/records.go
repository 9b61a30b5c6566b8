package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ayurveda-repository/internal/domain/plants"
	"ayurveda-repository/internal/platform/httpclient"
)

// RecordsRepo implementa plants.Repository contra la API REST (PostgREST).
type RecordsRepo struct {
	c *Client
}

var _ plants.Repository = (*RecordsRepo)(nil)

func NewRecordsRepo(c *Client) *RecordsRepo {
	return &RecordsRepo{c: c}
}

type plantRow struct {
	ID             string     `json:"id,omitempty"`
	Name           string     `json:"name"`
	BotanicalName  *string    `json:"botanical_name"`
	Family         *string    `json:"family"`
	EnglishName    *string    `json:"english_name"`
	Shloka         *string    `json:"shloka"`
	SourceDocument *string    `json:"source_document"`
	Synonyms       []string   `json:"synonyms"`
	UsefulParts    []string   `json:"useful_parts"`
	Indications    []string   `json:"indications"`
	Images         []string   `json:"images"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type imagesPatch struct {
	Images    []string  `json:"images"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *RecordsRepo) path() string {
	return "/rest/v1/" + url.PathEscape(r.c.table)
}

func (r *RecordsRepo) List(ctx context.Context) ([]plants.Plant, error) {
	var rows []plantRow
	err := r.c.do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   r.path(),
		Query: url.Values{
			"select": {"*"},
			"order":  {"created_at.desc"},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("supabase list: %w", err)
	}

	out := make([]plants.Plant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toPlant())
	}
	return out, nil
}

func (r *RecordsRepo) Create(ctx context.Context, in plants.CreateInput) (plants.Plant, error) {
	body := plantRow{
		Name:           in.Name,
		BotanicalName:  in.BotanicalName,
		Family:         in.Family,
		EnglishName:    in.EnglishName,
		Shloka:         in.Shloka,
		SourceDocument: in.SourceDocument,
		Synonyms:       nonNil(in.Synonyms),
		UsefulParts:    nonNil(in.UsefulParts),
		Indications:    nonNil(in.Indications),
		Images:         nonNil(in.Images),
	}

	var rows []plantRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    r.path(),
		Headers: map[string]string{"Prefer": "return=representation"},
		JSON:    body,
	}, &rows)
	if err != nil {
		return plants.Plant{}, fmt.Errorf("supabase insert: %w", err)
	}
	if len(rows) == 0 {
		return plants.Plant{}, fmt.Errorf("supabase insert: empty representation")
	}
	return rows[0].toPlant(), nil
}

func (r *RecordsRepo) UpdateImages(ctx context.Context, id string, images []string, updatedAt time.Time) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return plants.ErrNotFound
	}

	var rows []plantRow
	err := r.c.do(ctx, httpclient.Request{
		Method:  http.MethodPatch,
		Path:    r.path(),
		Query:   url.Values{"id": {"eq." + id}},
		Headers: map[string]string{"Prefer": "return=representation"},
		JSON:    imagesPatch{Images: nonNil(images), UpdatedAt: updatedAt.UTC()},
	}, &rows)
	if err != nil {
		return fmt.Errorf("supabase update images: %w", err)
	}
	if len(rows) == 0 {
		return plants.ErrNotFound
	}
	return nil
}

func (r *RecordsRepo) GetByID(ctx context.Context, id string) (plants.Plant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return plants.Plant{}, plants.ErrNotFound
	}

	var rows []plantRow
	err := r.c.do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   r.path(),
		Query: url.Values{
			"select": {"*"},
			"id":     {"eq." + id},
			"limit":  {"1"},
		},
	}, &rows)
	if err != nil {
		// PostgREST responde 400 si el id no es un uuid válido
		if httpclient.StatusCode(err) == http.StatusBadRequest {
			return plants.Plant{}, plants.ErrNotFound
		}
		return plants.Plant{}, fmt.Errorf("supabase get: %w", err)
	}
	if len(rows) == 0 {
		return plants.Plant{}, plants.ErrNotFound
	}
	return rows[0].toPlant(), nil
}

func (row plantRow) toPlant() plants.Plant {
	p := plants.Plant{
		ID:             row.ID,
		Name:           row.Name,
		BotanicalName:  row.BotanicalName,
		Family:         row.Family,
		EnglishName:    row.EnglishName,
		Shloka:         row.Shloka,
		SourceDocument: row.SourceDocument,
		Synonyms:       nonNil(row.Synonyms),
		UsefulParts:    nonNil(row.UsefulParts),
		Indications:    nonNil(row.Indications),
		Images:         nonNil(row.Images),
		UpdatedAt:      row.UpdatedAt,
	}
	if row.CreatedAt != nil {
		p.CreatedAt = *row.CreatedAt
	}
	return p
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
