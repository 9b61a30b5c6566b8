package auth

import "context"

type accessTokenKey struct{}

// WithAccessToken guarda el token de sesión ya verificado del request.
// Los adapters remotos lo reenvían para que el backend aplique sus políticas por usuario.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func AccessTokenFrom(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(accessTokenKey{}).(string)
	return t, ok && t != ""
}
