// Package config carga la configuración del servicio: defaults, archivo YAML opcional y env.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config es la configuración completa ya resuelta.
type Config struct {
	Port    string
	AppName string
	BaseURL string

	Log LogConfig

	DBDSN    string
	MediaDir string

	Supabase SupabaseConfig
	Auth     AuthConfig

	CORSAllowedOrigins []string
	AdminSuccessTTL    time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type SupabaseConfig struct {
	URL    string
	Key    string
	Bucket string
	Table  string
}

// Enabled: con URL y key, records/storage/auth van al backend remoto.
func (s SupabaseConfig) Enabled() bool {
	return strings.TrimSpace(s.URL) != "" && strings.TrimSpace(s.Key) != ""
}

type AuthConfig struct {
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	TokenTTL          time.Duration
	CacheTTL          time.Duration
}

// LocalEnabled: admin único con hash bcrypt y tokens propios.
func (a AuthConfig) LocalEnabled() bool {
	return strings.TrimSpace(a.AdminEmail) != "" &&
		strings.TrimSpace(a.AdminPasswordHash) != "" &&
		a.JWTSecret != ""
}

type envBinding struct {
	key string
	env string
}

// Nombres de variables de entorno por clave de config.
var envBindings = []envBinding{
	{"port", "PORT"},
	{"app_name", "APP_NAME"},
	{"base_url", "BASE_URL"},
	{"log.level", "LOG_LEVEL"},
	{"log.format", "LOG_FORMAT"},
	{"db.dsn", "DB_DSN"},
	{"media.dir", "MEDIA_DIR"},
	{"supabase.url", "SUPABASE_URL"},
	{"supabase.key", "SUPABASE_KEY"},
	{"supabase.bucket", "SUPABASE_BUCKET"},
	{"supabase.table", "SUPABASE_TABLE"},
	{"auth.admin_email", "ADMIN_EMAIL"},
	{"auth.admin_password_hash", "ADMIN_PASSWORD_HASH"},
	{"auth.jwt_secret", "AUTH_JWT_SECRET"},
	{"auth.token_ttl", "AUTH_TOKEN_TTL"},
	{"auth.cache_ttl", "AUTH_CACHE_TTL"},
	{"cors.allowed_origins", "CORS_ALLOWED_ORIGINS"},
	{"admin.success_ttl", "ADMIN_SUCCESS_TTL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("app_name", "ayurveda-repository")
	v.SetDefault("base_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("media.dir", "")
	v.SetDefault("supabase.bucket", "plant-images")
	v.SetDefault("supabase.table", "plants")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("auth.cache_ttl", "30s")
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("admin.success_ttl", "5s")
}

// Load arma la config. path vacío => solo defaults + env.
func Load(path string) (Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (Config, error) {
	setDefaults(v)

	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", b.env, err)
		}
	}

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:    strings.TrimPrefix(strings.TrimSpace(v.GetString("port")), ":"),
		AppName: v.GetString("app_name"),
		BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("base_url")), "/"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		DBDSN:    strings.TrimSpace(v.GetString("db.dsn")),
		MediaDir: strings.TrimSpace(v.GetString("media.dir")),
		Supabase: SupabaseConfig{
			URL:    strings.TrimSpace(v.GetString("supabase.url")),
			Key:    strings.TrimSpace(v.GetString("supabase.key")),
			Bucket: v.GetString("supabase.bucket"),
			Table:  v.GetString("supabase.table"),
		},
		Auth: AuthConfig{
			AdminEmail:        strings.TrimSpace(v.GetString("auth.admin_email")),
			AdminPasswordHash: strings.TrimSpace(v.GetString("auth.admin_password_hash")),
			JWTSecret:         v.GetString("auth.jwt_secret"),
			TokenTTL:          v.GetDuration("auth.token_ttl"),
			CacheTTL:          v.GetDuration("auth.cache_ttl"),
		},
		CORSAllowedOrigins: splitOrigins(v.GetStringSlice("cors.allowed_origins")),
		AdminSuccessTTL:    v.GetDuration("admin.success_ttl"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.AdminSuccessTTL <= 0 {
		errs = append(errs, errors.New("admin.success_ttl must be positive"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if (c.Supabase.URL == "") != (c.Supabase.Key == "") {
		errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_KEY must be set together"))
	}
	return errors.Join(errs...)
}

// Addr es la dirección de escucha del server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// CORS_ALLOWED_ORIGINS llega como "a,b" desde env o como lista desde YAML.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}
