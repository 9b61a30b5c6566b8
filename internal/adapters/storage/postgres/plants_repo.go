package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ayurveda-repository/internal/domain/plants"

	"github.com/google/uuid"
)

const plantColumns = `
	id, name,
	botanical_name, family, english_name, shloka, source_document,
	synonyms, useful_parts, indications, images,
	created_at, updated_at`

type PlantsRepo struct {
	db *sql.DB
}

func NewPlantsRepo(db *sql.DB) *PlantsRepo {
	return &PlantsRepo{db: db}
}

func (r *PlantsRepo) Create(ctx context.Context, in plants.CreateInput) (plants.Plant, error) {
	lists, err := encodeLists(in.Synonyms, in.UsefulParts, in.Indications, in.Images)
	if err != nil {
		return plants.Plant{}, err
	}

	// id y created_at los pone la base (defaults de la tabla)
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO plants (
			name,
			botanical_name, family, english_name, shloka, source_document,
			synonyms, useful_parts, indications, images
		) VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8::jsonb,$9::jsonb,$10::jsonb)
		RETURNING`+plantColumns,
		in.Name,
		toNullString(in.BotanicalName),
		toNullString(in.Family),
		toNullString(in.EnglishName),
		toNullString(in.Shloka),
		toNullString(in.SourceDocument),
		lists[0],
		lists[1],
		lists[2],
		lists[3],
	)

	return scanPlant(row)
}

func (r *PlantsRepo) UpdateImages(ctx context.Context, id string, images []string, updatedAt time.Time) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return plants.ErrNotFound
	}

	encoded, err := encodeLists(images)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE plants
		SET
			images = $2::jsonb,
			updated_at = $3
		WHERE id = $1
	`,
		id,
		encoded[0],
		updatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return plants.ErrNotFound
	}
	return nil
}

func (r *PlantsRepo) GetByID(ctx context.Context, id string) (plants.Plant, error) {
	id = strings.TrimSpace(id)
	// un id que no es uuid no puede existir; evitamos el error de cast en la base
	if _, err := uuid.Parse(id); err != nil {
		return plants.Plant{}, plants.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT`+plantColumns+`
		FROM plants
		WHERE id = $1
	`, id)

	return scanPlant(row)
}

func (r *PlantsRepo) List(ctx context.Context) ([]plants.Plant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+plantColumns+`
		FROM plants
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plants.Plant, 0)
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(row rowScanner) (plants.Plant, error) {
	var (
		p                                       plants.Plant
		botanical, family, english, shloka, src sql.NullString
		synonyms, parts, indications, images    []byte
		updated                                 sql.NullTime
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&botanical,
		&family,
		&english,
		&shloka,
		&src,
		&synonyms,
		&parts,
		&indications,
		&images,
		&p.CreatedAt,
		&updated,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return plants.Plant{}, plants.ErrNotFound
		}
		return plants.Plant{}, err
	}

	p.BotanicalName = fromNullString(botanical)
	p.Family = fromNullString(family)
	p.EnglishName = fromNullString(english)
	p.Shloka = fromNullString(shloka)
	p.SourceDocument = fromNullString(src)

	var err error
	if p.Synonyms, err = decodeList(synonyms); err != nil {
		return plants.Plant{}, err
	}
	if p.UsefulParts, err = decodeList(parts); err != nil {
		return plants.Plant{}, err
	}
	if p.Indications, err = decodeList(indications); err != nil {
		return plants.Plant{}, err
	}
	if p.Images, err = decodeList(images); err != nil {
		return plants.Plant{}, err
	}

	if updated.Valid {
		t := updated.Time
		p.UpdatedAt = &t
	}
	return p, nil
}

// Las listas se guardan como jsonb; nil se guarda como [] (nunca null).
func encodeLists(lists ...[]string) ([]string, error) {
	out := make([]string, 0, len(lists))
	for _, l := range lists {
		if l == nil {
			l = []string{}
		}
		b, err := json.Marshal(l)
		if err != nil {
			return nil, fmt.Errorf("encode list: %w", err)
		}
		out = append(out, string(b))
	}
	return out, nil
}

func decodeList(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return out, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
