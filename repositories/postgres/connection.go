package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/sumeet-singh-parmar/aws-commander/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Per-user AWS credential sets, one row per chat user
		CREATE TABLE IF NOT EXISTS credentials (
			user_id VARCHAR(255) PRIMARY KEY,
			access_key_id VARCHAR(255) NOT NULL,
			secret_access_key TEXT NOT NULL,
			session_token TEXT,
			region VARCHAR(50),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Consent grants for metered action categories
		CREATE TABLE IF NOT EXISTS consent_grants (
			user_id VARCHAR(255) NOT NULL,
			category_id VARCHAR(100) NOT NULL,
			granted BOOLEAN NOT NULL DEFAULT false,
			granted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, category_id)
		);

		-- Dynamic per-type notification routing overrides.
		-- enabled is stored as 'TRUE'/'FALSE' text for compatibility with
		-- rows imported from the original settings sheet.
		CREATE TABLE IF NOT EXISTS notification_preferences (
			user_id VARCHAR(255) NOT NULL,
			notification_type VARCHAR(100) NOT NULL,
			channel TEXT NOT NULL DEFAULT '',
			enabled VARCHAR(5) NOT NULL DEFAULT 'FALSE',
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, notification_type)
		);

		-- Legacy single global notification record per user
		CREATE TABLE IF NOT EXISTS legacy_preferences (
			user_id VARCHAR(255) PRIMARY KEY,
			channel TEXT NOT NULL DEFAULT '',
			realtime_enabled BOOLEAN NOT NULL DEFAULT false,
			daily_digest_enabled BOOLEAN NOT NULL DEFAULT false,
			weekly_digest_enabled BOOLEAN NOT NULL DEFAULT false,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_consent_grants_user_id ON consent_grants(user_id);
		CREATE INDEX IF NOT EXISTS idx_notification_preferences_user_id ON notification_preferences(user_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}
