package database

import (
	"context"
	"fmt"
	"time"

	"github.com/mcunha12/medstudent/internal/config"
	"github.com/mcunha12/medstudent/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers "sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DriverName maps the configured backend to its database/sql driver name.
func DriverName(backend string) (string, error) {
	switch backend {
	case config.DriverPostgres:
		return "pgx", nil
	case config.DriverSQLite, "":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", backend)
	}
}

// Connect opens and pings the configured database.
func Connect(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	driverName, err := DriverName(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DB.Driver, err)
	}

	if driverName == "sqlite" {
		// SQLite allows a single writer; serialising through one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.DB.Driver, err)
	}

	logger.Get().Info("Connected to database", zap.String("driver", driverName))
	return db, nil
}
