package plants

import (
	"context"
	"time"
)

// Repository es el acceso a filas del backend (sistema de registro).
type Repository interface {
	// List devuelve todas las plantas ordenadas por created_at desc.
	List(ctx context.Context) ([]Plant, error)
	// Create inserta y devuelve la fila creada (id y timestamps los asigna el backend).
	Create(ctx context.Context, in CreateInput) (Plant, error)
	// UpdateImages reemplaza solo la lista de imágenes. ErrNotFound si no existe.
	UpdateImages(ctx context.Context, id string, images []string, updatedAt time.Time) error
	GetByID(ctx context.Context, id string) (Plant, error)
}
