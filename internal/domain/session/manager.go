package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"ayurveda-repository/internal/platform/logger"
	"ayurveda-repository/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("sign-in not configured")
	ErrNoSession     = errors.New("no active session")
)

type EventType string

const (
	SignedIn  EventType = "signed_in"
	SignedOut EventType = "signed_out"
)

// Event notifica un cambio de sesión a los suscriptores.
type Event struct {
	Type   EventType
	UserID string
	At     time.Time
}

// Manager es el contexto de sesión explícito: se pasa a los handlers que lo necesitan
// y reparte los cambios de sesión a quien se haya suscrito al arrancar.
type Manager struct {
	provider auth.SessionProvider // puede ser nil (modo dev)
	verifier auth.AuthVerifier    // puede ser nil (modo dev)
	log      logger.Logger
	now      func() time.Time

	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewManager(provider auth.SessionProvider, verifier auth.AuthVerifier, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		provider: provider,
		verifier: verifier,
		log:      log,
		now:      time.Now,
		subs:     map[int]func(Event){},
	}
}

// Verifier expone el verificador para el middleware. Nil => modo dev.
func (m *Manager) Verifier() auth.AuthVerifier {
	return m.verifier
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (auth.Session, error) {
	if m.provider == nil {
		return auth.Session{}, ErrNotConfigured
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return auth.Session{}, auth.ErrInvalidCredentials
	}

	s, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		m.log.Warn("sign-in failed", map[string]any{"email": email, "error": err})
		return auth.Session{}, err
	}

	m.log.Info("signed in", map[string]any{"user_id": s.User.UserID})
	m.publish(Event{Type: SignedIn, UserID: s.User.UserID, At: m.now()})
	return s, nil
}

// SignOut invalida el token en el proveedor y avisa a los suscriptores.
func (m *Manager) SignOut(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoSession
	}

	claims, err := m.Current(ctx, token)
	if err != nil {
		return err
	}

	if m.provider != nil {
		if err := m.provider.SignOut(ctx, token); err != nil {
			return err
		}
	}

	m.log.Info("signed out", map[string]any{"user_id": claims.UserID})
	m.publish(Event{Type: SignedOut, UserID: claims.UserID, At: m.now()})
	return nil
}

// Current devuelve los claims del token si la sesión sigue activa.
func (m *Manager) Current(ctx context.Context, token string) (auth.Claims, error) {
	if m.verifier == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	claims, err := m.verifier.Verify(ctx, token)
	if err != nil {
		return auth.Claims{}, ErrNoSession
	}
	return claims, nil
}

// Subscribe registra fn y devuelve la función para darse de baja.
// Los eventos se entregan sincrónicamente, en el goroutine que hizo el cambio.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// Notify publica un evento generado fuera del manager (p.ej. modo dev).
func (m *Manager) Notify(e Event) {
	if e.At.IsZero() {
		e.At = m.now()
	}
	m.publish(e)
}

func (m *Manager) publish(e Event) {
	m.mu.RLock()
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
