package admin

import (
	"strings"
	"sync"

	"ayurveda-repository/internal/domain/session"
)

// Registry mantiene un Controller por admin logueado.
type Registry struct {
	deps Deps

	mu     sync.Mutex
	byUser map[string]*Controller
}

func NewRegistry(d Deps) *Registry {
	return &Registry{
		deps:   d,
		byUser: map[string]*Controller{},
	}
}

// For devuelve (creándolo si hace falta) el controller del usuario.
func (r *Registry) For(userID string) *Controller {
	userID = strings.TrimSpace(userID)

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byUser[userID]
	if !ok {
		c = NewController(r.deps)
		r.byUser[userID] = c
	}
	return c
}

// Drop descarta el estado del usuario (form, archivos pendientes, listado).
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	delete(r.byUser, strings.TrimSpace(userID))
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}

// OnSessionChange se registra con session.Manager.Subscribe al arrancar.
func (r *Registry) OnSessionChange(e session.Event) {
	if e.Type == session.SignedOut {
		r.Drop(e.UserID)
	}
}
