package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures the circuit breaker that guards remote stores
type BreakerSettings struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
}

// DefaultBreakerSettings trips after more than five consecutive failures
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
	}
}

func newBreaker(name string, s BreakerSettings) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		// a missing key is an answer, not a failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrKeyNotFound)
		},
	})
}

// SQLStore implements KeyValueStore on a PostgreSQL "records" table.
// Includes retry logic and a circuit breaker for resilience.
type SQLStore struct {
	db         *sql.DB
	cb         *gobreaker.CircuitBreaker
	maxRetries int
	retryDelay time.Duration
}

// NewSQLStore creates a PostgreSQL-backed store; the schema must exist (see config.InitDatabase)
func NewSQLStore(db *sql.DB, settings BreakerSettings) *SQLStore {
	return &SQLStore{
		db:         db,
		cb:         newBreaker("database", settings),
		maxRetries: 3,
		retryDelay: 1 * time.Second,
	}
}

// executeWithRetry executes a database operation with retry logic
func (s *SQLStore) executeWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error
	for i := 0; i < s.maxRetries; i++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err
		// Not transient
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if i < s.maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}
	}
	return fmt.Errorf("operation failed after %d retries: %w", s.maxRetries, lastErr)
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		var value []byte
		err := s.executeWithRetry(ctx, func() error {
			query := `SELECT value FROM records WHERE key = $1`
			return s.db.QueryRowContext(ctx, query, key).Scan(&value)
		})
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrKeyNotFound
		}
		if err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.executeWithRetry(ctx, func() error {
			query := `INSERT INTO records (key, value, updated_at) VALUES ($1, $2, now())
				ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
			_, err := s.db.ExecContext(ctx, query, key, value)
			return err
		})
	})
	return err
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ ports.KeyValueStore = (*SQLStore)(nil)
