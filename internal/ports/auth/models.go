package auth

import "time"

// Claims representa la información extraída del token de sesión.
type Claims struct {
	UserID string
	Email  string
}

// Session es lo que devuelve un sign-in exitoso.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         Claims
}
