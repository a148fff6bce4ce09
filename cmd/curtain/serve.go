package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/aretw0/curtain/internal/adapters/http"
	"github.com/aretw0/curtain/internal/site"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control server",
	Long: `Mounts the simulated site and exposes it over HTTP: navigate, read the
displayed page, stream status changes, read the journal and scrape metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		logger, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := site.New(ctx, cfg, site.WithLogger(logger))
		if err != nil {
			return err
		}
		defer s.Close()

		handler := httpAdapter.NewHandler(s, logger)
		if err := httpAdapter.ListenAndServe(ctx, cfg.Server.Addr, handler, cfg.Server.ShutdownTimeout, logger); err != nil {
			return err
		}
		logger.Info("curtain server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on (overrides server.addr)")
}
