package main

import (
	"context"
	"fmt"

	"github.com/mcunha12/medstudent/internal/app"
	"github.com/mcunha12/medstudent/internal/config"
	"github.com/mcunha12/medstudent/internal/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "medstudent-admin",
	Short:         "Maintenance tasks for the study platform",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(importQuestionsCmd)
	rootCmd.AddCommand(warmConceptsCmd)
}

// withApp loads configuration, builds the application container and runs fn.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
