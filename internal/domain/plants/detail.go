package plants

import (
	"context"
	"strings"
)

// Resolve busca exactamente una planta para la página pública.
// Cualquier fallo (sin fila o error del backend) es not-found.
func (s *Service) Resolve(ctx context.Context, id string) (Plant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Plant{}, &Error{Kind: KindNotFound, Op: "resolve", Message: "plant not found"}
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Plant{}, &Error{Kind: KindNotFound, Op: "resolve", Message: "plant not found", Err: err}
	}
	return withDefaults(p), nil
}
