package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/curtain/internal/config"
	"github.com/aretw0/curtain/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "curtain",
	Short: "Curtain orchestrates page transitions",
	Long: `Curtain keeps the outgoing page on screen until every exit animation has
finished, then swaps in the new page. This tool drives a simulated site
described by a YAML or TOML file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Site configuration file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides the config file)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
}

// loadConfig reads the configuration file and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	return logging.NewWithWriter(cmd.ErrOrStderr(), level, jsonLogs), nil
}
