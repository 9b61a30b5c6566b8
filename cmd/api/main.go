package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ayurveda-repository/internal/config"
	"ayurveda-repository/internal/platform/logger"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app es lo que comparten los subcomandos una vez cargada la config.
type app struct {
	cfgFile string
	cfg     config.Config
	log     logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ayurveda-api",
		Short:         "Ayurveda medicinal plant repository API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.log = logger.New(logger.Options{
				Level:  logger.ParseLevel(cfg.Log.Level),
				Format: logger.ParseFormat(cfg.Log.Format),
				App:    cfg.AppName,
			})
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "optional YAML config file (env vars take precedence)")

	serve := newServeCmd(a)
	root.AddCommand(serve, newMigrateCmd(a))

	// sin subcomando => serve
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}
