package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/rs/zerolog"
)

const subscriberBuffer = 16

// Records stores whole entities as JSON under their record key and fans out
// a change event to every subscriber after each successful write.
type Records struct {
	store     ports.KeyValueStore
	log       zerolog.Logger
	telemetry ports.Telemetry
	now       func() time.Time

	mu   sync.Mutex
	subs map[int]chan domain.ChangeEvent
	next int
}

// NewRecords wraps a key-value store. telemetry may be nil.
func NewRecords(store ports.KeyValueStore, log zerolog.Logger, telemetry ports.Telemetry) *Records {
	return &Records{
		store:     store,
		log:       log.With().Str("component", "records").Logger(),
		telemetry: telemetry,
		now:       time.Now,
		subs:      make(map[int]chan domain.ChangeEvent),
	}
}

func (r *Records) Load(ctx context.Context, key domain.RecordKey, dst any) (bool, error) {
	raw, err := r.store.Get(ctx, string(key))
	if errors.Is(err, domain.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Records) Save(ctx context.Context, key domain.RecordKey, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, string(key), raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	r.log.Debug().Str("key", string(key)).Int("bytes", len(raw)).Msg("record saved")
	if r.telemetry != nil {
		r.telemetry.RecordWritten(key)
	}
	r.publish(domain.ChangeEvent{Key: key, ChangedAt: r.now()})
	return nil
}

// Subscribe registers a listener. Slow listeners miss events instead of blocking writers.
func (r *Records) Subscribe() (<-chan domain.ChangeEvent, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	ch := make(chan domain.ChangeEvent, subscriberBuffer)
	r.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (r *Records) publish(ev domain.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ch := range r.subs {
		select {
		case ch <- ev:
		default:
			r.log.Warn().Int("subscriber", id).Str("key", string(ev.Key)).Msg("subscriber is full, dropping change event")
		}
	}
}

// Ping checks the underlying store
func (r *Records) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// Close releases the underlying store
func (r *Records) Close() error {
	return r.store.Close()
}

var (
	_ ports.RecordRepository = (*Records)(nil)
	_ ports.ChangeSubscriber = (*Records)(nil)
)
