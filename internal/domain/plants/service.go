package plants

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// ListRecords trae todas las plantas (más nuevas primero). Sin filas => slice vacío.
func (s *Service) ListRecords(ctx context.Context) ([]Plant, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, backendError("list", "failed to load plants", err)
	}

	out := make([]Plant, 0, len(items))
	for _, p := range items {
		out = append(out, withDefaults(p))
	}
	return out, nil
}

// InsertRecord valida el nombre antes de tocar el backend e inserta con imágenes vacías.
func (s *Service) InsertRecord(ctx context.Context, in CreateInput) (Plant, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := ValidateName(in.Name); err != nil {
		return Plant{}, err
	}

	in.Synonyms = cleanList(in.Synonyms)
	in.UsefulParts = cleanList(in.UsefulParts)
	in.Indications = cleanList(in.Indications)
	// Las imágenes se adjuntan después de subirlas
	in.Images = []string{}

	p, err := s.repo.Create(ctx, in)
	if err != nil {
		return Plant{}, backendError("insert", "failed to add plant", err)
	}
	return withDefaults(p), nil
}

// AttachImages actualiza solo la lista de imágenes. El caller debe refrescar el listado.
func (s *Service) AttachImages(ctx context.Context, id string, urls []string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return validationError("attach", "plant id is required")
	}
	if urls == nil {
		urls = []string{}
	}

	if err := s.repo.UpdateImages(ctx, id, urls, s.now()); err != nil {
		return backendError("attach", "failed to attach images", err)
	}
	return nil
}

// ValidateName es la única validación previa al backend: nombre no vacío.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return validationError("validate", "plant name is required")
	}
	return nil
}

// cleanList aplica el mismo criterio que SplitList a listas que ya vienen partidas.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
