package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/01moynul/mayaj-store/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// normalizeDSN forces parseTime so DATETIME columns scan into time.Time.
func normalizeDSN(dsn string, multiStatements bool) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.MultiStatements = multiStatements
	// UPDATE reports matched rows, so conditional updates can be checked by RowsAffected.
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// Open creates and verifies the primary connection pool.
func Open(ctx context.Context, dsn string, log *logger.Logger) (*sqlx.DB, error) {
	// 1. Normalize the DSN
	normalized, err := normalizeDSN(dsn, false)
	if err != nil {
		return nil, err
	}

	// 2. Open a new connection pool.
	db, err := sqlx.Open("mysql", normalized)
	if err != nil {
		return nil, err
	}

	// 3. Configure the connection pool settings.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 4. Ping the database to verify the connection.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("Database connection pool established")
	return db, nil
}

// Migrate applies the embedded migrations. direction is "up" (all pending) or
// "down" (one step back).
func Migrate(dsn, direction string, log *logger.Logger) error {
	normalized, err := normalizeDSN(dsn, true)
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}
	conn, err := sql.Open("mysql", normalized)
	if err != nil {
		return err
	}
	driver, err := migratemysql.WithInstance(conn, &migratemysql.Config{})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("migrate init: %w", err)
	}
	// Closes the source, the driver and conn.
	defer m.Close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("Migrations: no change")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	version, dirty, _ := m.Version()
	log.Info("Migrations applied", "direction", direction, "version", version, "dirty", dirty)
	return nil
}

// WithTx runs fn inside a transaction. fn's error rolls everything back.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback is a no-op once Commit has succeeded.
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
