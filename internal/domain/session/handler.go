package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"ayurveda-repository/internal/middleware"
	"ayurveda-repository/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, m *Manager) {
	r.Post("/login", loginHandler(m))
	r.Post("/logout", logoutHandler(m))
	r.Get("/login", loginInfoHandler())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        userInfo  `json:"user"`
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// loginHandler godoc
// @Summary  Sign in with email and password
// @Tags     session
// @Accept   json
// @Produce  json
// @Success  200 {object} sessionResponse
// @Failure  401 {string} string "invalid credentials"
// @Router   /login [post]
func loginHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		} else {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "invalid form", http.StatusBadRequest)
				return
			}
			req.Email = r.PostForm.Get("email")
			req.Password = r.PostForm.Get("password")
		}

		s, err := m.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotConfigured):
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
			case errors.Is(err, auth.ErrInvalidCredentials):
				http.Error(w, "login failed: invalid credentials", http.StatusUnauthorized)
			default:
				http.Error(w, "login failed", http.StatusBadGateway)
			}
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    s.AccessToken,
			Path:     "/",
			Expires:  s.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil,
		})

		writeJSON(w, http.StatusOK, sessionResponse{
			AccessToken: s.AccessToken,
			ExpiresAt:   s.ExpiresAt,
			User:        userInfo{ID: s.User.UserID, Email: s.User.Email},
		})
	}
}

// logoutHandler godoc
// @Summary  Sign out the current admin session
// @Tags     session
// @Success  204
// @Router   /logout [post]
func logoutHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearCookie(w)

		token := middleware.TokenFromRequest(r)
		if token == "" || m.Verifier() == nil {
			// Modo dev (X-Debug-User-ID): no hay token que invalidar, solo avisamos.
			if claims, ok := middleware.GetClaims(r.Context()); ok && claims.UserID != "" {
				m.Notify(Event{Type: SignedOut, UserID: claims.UserID})
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if err := m.SignOut(r.Context(), token); err != nil && !errors.Is(err, ErrNoSession) {
			http.Error(w, "logout failed", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// La vista de login vive en el frontend; acá solo indicamos cómo postear.
func loginInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"action": "/login",
			"method": http.MethodPost,
			"fields": []string{"email", "password"},
		})
	}
}

func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
