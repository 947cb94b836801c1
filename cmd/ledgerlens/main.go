package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openledger/ledgerlens/internal/config"
	"github.com/openledger/ledgerlens/internal/definitions"
	"github.com/openledger/ledgerlens/internal/registry"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "ledgerlens",
		Short: "ledgerlens — configurable entity resolution for record streams",
		Long:  "ledgerlens resolves free-text record fields (merchants, banks, accounts, categories) to canonical registry entries using declarative entity definitions, tiered fuzzy matching, and confidence scoring.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		resolveCmd(),
		batchCmd(),
		definitionsCmd(),
		registryCmd(),
		statsCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newDefinitions(logger *slog.Logger) (*definitions.Registry, error) {
	return definitions.NewRegistry(cfg.Engine.DefinitionsPath, logger)
}

func newCatalog(logger *slog.Logger) (*registry.Catalog, error) {
	return registry.NewCatalog(cfg.Engine.RegistriesDir, logger)
}
