package main

import (
	"database/sql"
	"fmt"

	"ayurveda-repository/internal/adapters/auth/local"
	"ayurveda-repository/internal/adapters/backend/supabase"
	"ayurveda-repository/internal/adapters/objectstore/localfs"
	pg "ayurveda-repository/internal/adapters/storage/postgres"
	"ayurveda-repository/internal/domain/plants"
	"ayurveda-repository/internal/domain/share"
	"ayurveda-repository/internal/ports/auth"
	"ayurveda-repository/internal/ports/objectstore"
	"ayurveda-repository/internal/router"
)

// backend agrupa los adapters elegidos según la config.
// Campos nil => el router usa los in-memory (o modo dev para auth).
type backend struct {
	name     string
	authName string

	db       *sql.DB
	records  plants.Repository
	objects  objectstore.Store
	sessions auth.SessionProvider
	verifier auth.AuthVerifier
}

func (a *app) openBackend(autoMigrate bool) (*backend, error) {
	cfg := a.cfg
	b := &backend{name: "memory", authName: "dev"}

	switch {
	case cfg.Supabase.Enabled():
		client, err := supabase.NewClient(supabase.Config{
			URL:    cfg.Supabase.URL,
			Key:    cfg.Supabase.Key,
			Bucket: cfg.Supabase.Bucket,
			Table:  cfg.Supabase.Table,
		})
		if err != nil {
			return nil, fmt.Errorf("supabase client: %w", err)
		}
		remoteAuth := supabase.NewAuth(client, cfg.Auth.CacheTTL)

		b.name = "supabase"
		b.records = supabase.NewRecordsRepo(client)
		b.objects = supabase.NewStorage(client)
		b.sessions = remoteAuth
		b.verifier = remoteAuth
		b.authName = "supabase"

	case cfg.DBDSN != "":
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if autoMigrate {
			if err := pg.Migrate(db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		b.name = "postgres"
		b.db = db
	}

	// Imágenes en disco cuando no hay storage remoto
	if b.objects == nil && cfg.MediaDir != "" {
		store, err := localfs.New(cfg.MediaDir, share.BaseURLOr(cfg.BaseURL)+router.MediaPath)
		if err != nil {
			b.close()
			return nil, err
		}
		b.objects = store
	}

	// Admin local si no hay servicio de identidad remoto
	if b.verifier == nil && cfg.Auth.LocalEnabled() {
		p, err := local.New(local.Config{
			Email:        cfg.Auth.AdminEmail,
			PasswordHash: cfg.Auth.AdminPasswordHash,
			Secret:       cfg.Auth.JWTSecret,
			TokenTTL:     cfg.Auth.TokenTTL,
			Issuer:       cfg.AppName,
		})
		if err != nil {
			b.close()
			return nil, err
		}
		b.sessions = p
		b.verifier = p
		b.authName = "local"
	}

	if b.verifier == nil {
		a.log.Warn("no auth configured: admin routes accept X-Debug-User-ID", nil)
	}
	return b, nil
}

func (b *backend) close() {
	if b.db != nil {
		_ = b.db.Close()
	}
}
