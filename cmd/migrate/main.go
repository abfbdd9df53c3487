package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/mcunha12/medstudent/internal/config"
	"github.com/mcunha12/medstudent/internal/database"
	"github.com/mcunha12/medstudent/internal/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Apply or roll back the embedded schema migrations",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), database.MigrateUp)
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), database.MigrateDown)
	},
}

func withDB(ctx context.Context, run func(db *sql.DB, driverName string) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	driverName, err := database.DriverName(cfg.DB.Driver)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return run(db.DB, driverName)
}

func main() {
	rootCmd.AddCommand(upCmd, downCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
