package services

import (
	"context"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// loadOrDefault reads key, returning def when nothing has been stored yet
func loadOrDefault[T any](ctx context.Context, repo ports.RecordRepository, key domain.RecordKey, def T) (T, error) {
	v := def
	found, err := repo.Load(ctx, key, &v)
	if err != nil {
		return def, err
	}
	if !found {
		return def, nil
	}
	return v, nil
}

type noopTelemetry struct{}

func (noopTelemetry) SweepCompleted(time.Duration, int) {}
func (noopTelemetry) NotificationResult(string)         {}
func (noopTelemetry) ReportGenerated(string)            {}
func (noopTelemetry) RecordWritten(domain.RecordKey)    {}

func telemetryOrNoop(t ports.Telemetry) ports.Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// confirmed treats a nil confirmer as a refusal
func confirmed(c ports.Confirmer, prompt string) bool {
	return c != nil && c.Confirm(prompt)
}
