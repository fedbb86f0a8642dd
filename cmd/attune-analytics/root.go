package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/attune-health/attune/backend/internal/config"
	"github.com/attune-health/attune/backend/internal/logger"
	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/output"
	"github.com/attune-health/attune/backend/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "attune-analytics",
	Short: "Attune analytics engine",
	Long:  `Analyzes emotional check-in history and recommends regulation tools.`,
}

var noColor bool

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(recommendCmd)
}

// setup loads configuration, installs the logger, validates the built-in
// catalogs, and opens the store. Shared by every subcommand.
func setup() (*config.Config, *store.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.SetDefault(logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	}))

	output.SetNoColor(noColor)

	if err := models.ValidateCatalogs(); err != nil {
		return nil, nil, fmt.Errorf("catalog validation: %w", err)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	return cfg, db, nil
}
