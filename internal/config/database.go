package config

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// InitDatabase creates the records table if it does not exist
func InitDatabase(db *sql.DB, log zerolog.Logger) error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create records table: %w", err)
	}
	log.Debug().Msg("database schema initialized")
	return nil
}

// ConnectDatabase establishes a connection to PostgreSQL with retry logic
func ConnectDatabase(databaseURL string, maxRetries int, retryDelay time.Duration, log zerolog.Logger) (*sql.DB, error) {
	var err error
	for i := 0; i < maxRetries; i++ {
		var db *sql.DB
		db, err = sql.Open("postgres", databaseURL)
		if err != nil {
			log.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries).Msg("failed to open database connection")
		} else if err = db.Ping(); err != nil {
			log.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries).Msg("failed to ping database")
			db.Close()
		} else {
			// single-user tool; a small pool is plenty
			db.SetMaxOpenConns(5)
			db.SetMaxIdleConns(2)
			db.SetConnMaxLifetime(5 * time.Minute)
			log.Info().Msg("database connection established")
			return db, nil
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}
