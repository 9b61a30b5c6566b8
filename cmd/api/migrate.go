package main

import (
	"errors"

	pg "ayurveda-repository/internal/adapters/storage/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded Postgres migrations (DB_DSN)",
		RunE: func(*cobra.Command, []string) error {
			if a.cfg.DBDSN == "" {
				return errors.New("DB_DSN is required to run migrations")
			}

			db, err := pg.Open(a.cfg.DBDSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := pg.Migrate(db); err != nil {
				return err
			}
			a.log.Info("migrations applied", nil)
			return nil
		},
	}
}
