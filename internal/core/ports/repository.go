package ports

import (
	"context"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
)

// KeyValueStore is the persistence boundary: raw serialized values under string keys.
// Get returns domain.ErrKeyNotFound when nothing has been stored under key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// RecordRepository loads and saves whole entities under their record key.
// Values round-trip exactly through serialization; a Save replaces the stored value atomically.
type RecordRepository interface {
	// Load decodes the value stored under key into dst.
	// It reports false, leaving dst untouched, when the key has never been written.
	Load(ctx context.Context, key domain.RecordKey, dst any) (bool, error)

	// Save replaces the value under key and notifies subscribers
	Save(ctx context.Context, key domain.RecordKey, value any) error
}

// ChangeSubscriber is implemented by repositories that publish write notifications
type ChangeSubscriber interface {
	// Subscribe returns a channel of change events and a function that ends the subscription
	Subscribe() (<-chan domain.ChangeEvent, func())
}
