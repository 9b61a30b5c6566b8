package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "plant-images", cfg.Supabase.Bucket)
	assert.Equal(t, "plants", cfg.Supabase.Table)
	assert.Equal(t, 5*time.Second, cfg.AdminSuccessTTL)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Supabase.Enabled())
	assert.False(t, cfg.Auth.LocalEnabled())
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_URL", "https://plants.example.org/")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_KEY", "anon")
	t.Setenv("ADMIN_SUCCESS_TTL", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("AUTH_JWT_SECRET", "s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://plants.example.org", cfg.BaseURL)
	assert.True(t, cfg.Supabase.Enabled())
	assert.True(t, cfg.Auth.LocalEnabled())
	assert.Equal(t, 2*time.Second, cfg.AdminSuccessTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7070"
base_url: https://from-file.example
log:
  level: debug
cors:
  allowed_origins:
    - https://file.example
`), 0o600))

	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "https://from-file.example", cfg.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"https://file.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_RejectsHalfConfiguredBackend(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_KEY")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
