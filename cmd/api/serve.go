package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ayurveda-repository/internal/router"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "apply database migrations before serving (requires DB_DSN)")
	return cmd
}

func (a *app) serve(ctx context.Context, autoMigrate bool) error {
	b, err := a.openBackend(autoMigrate)
	if err != nil {
		return err
	}
	defer b.close()

	handler, teardown := router.NewRouter(router.Options{
		Logger:      a.log,
		Records:     b.records,
		DB:          b.db,
		Objects:     b.objects,
		Sessions:    b.sessions,
		Verifier:    b.verifier,
		BaseURL:     a.cfg.BaseURL,
		SuccessTTL:  a.cfg.AdminSuccessTTL,
		CORSOrigins: a.cfg.CORSAllowedOrigins,
	})
	defer teardown()

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("starting server", map[string]any{"addr": srv.Addr, "backend": b.name, "auth": b.authName})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		a.log.Info("shutting down server", nil)
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
