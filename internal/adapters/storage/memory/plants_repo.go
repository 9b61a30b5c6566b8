package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"ayurveda-repository/internal/domain/plants"

	"github.com/google/uuid"
)

type plantRepo struct {
	mu   sync.RWMutex
	byID map[string]plants.Plant
	now  func() time.Time
}

// NewPlantRepo devuelve un repo en memoria (modo dev y tests).
// Asigna id y created_at igual que lo haría el backend.
func NewPlantRepo() plants.Repository {
	return &plantRepo{
		byID: make(map[string]plants.Plant),
		now:  time.Now,
	}
}

func (r *plantRepo) Create(ctx context.Context, in plants.CreateInput) (plants.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(in.Name) == "" {
		return plants.Plant{}, errors.New("plant name required")
	}

	p := plants.Plant{
		ID:             uuid.NewString(),
		Name:           in.Name,
		BotanicalName:  in.BotanicalName,
		Family:         in.Family,
		EnglishName:    in.EnglishName,
		Shloka:         in.Shloka,
		SourceDocument: in.SourceDocument,
		Synonyms:       cloneList(in.Synonyms),
		UsefulParts:    cloneList(in.UsefulParts),
		Indications:    cloneList(in.Indications),
		Images:         cloneList(in.Images),
		CreatedAt:      r.now(),
	}
	r.byID[p.ID] = p
	return clonePlant(p), nil
}

func (r *plantRepo) UpdateImages(ctx context.Context, id string, images []string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return plants.ErrNotFound
	}
	p.Images = cloneList(images)
	t := updatedAt
	p.UpdatedAt = &t
	r.byID[id] = p
	return nil
}

func (r *plantRepo) GetByID(ctx context.Context, id string) (plants.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return plants.Plant{}, plants.ErrNotFound
	}
	return clonePlant(p), nil
}

func (r *plantRepo) List(ctx context.Context) ([]plants.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]plants.Plant, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, clonePlant(p))
	}

	// created_at desc; a igual timestamp, id para que sea estable
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// Copias para que el caller no mute el estado del repo.
func clonePlant(p plants.Plant) plants.Plant {
	p.Synonyms = cloneList(p.Synonyms)
	p.UsefulParts = cloneList(p.UsefulParts)
	p.Indications = cloneList(p.Indications)
	p.Images = cloneList(p.Images)
	return p
}

func cloneList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
