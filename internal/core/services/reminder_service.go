package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notification outcomes reported to telemetry
const (
	NotificationDelivered = "delivered"
	NotificationFailed    = "failed"
	NotificationSkipped   = "skipped"
)

// ReminderService stores reminders and fires the ones that come due.
// A reminder is marked triggered only after its notification was delivered;
// without permission, or when delivery fails, it stays eligible for the next sweep.
type ReminderService struct {
	repo      ports.RecordRepository
	notifier  ports.Notifier
	telemetry ports.Telemetry
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string

	// serializes read-modify-write of the reminder collection within this process
	mu sync.Mutex
}

func NewReminderService(repo ports.RecordRepository, notifier ports.Notifier, telemetry ports.Telemetry, log zerolog.Logger) *ReminderService {
	return &ReminderService{
		repo:      repo,
		notifier:  notifier,
		telemetry: telemetryOrNoop(telemetry),
		log:       log.With().Str("service", "reminder").Logger(),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

func (s *ReminderService) load(ctx context.Context) ([]domain.Reminder, error) {
	reminders, err := loadOrDefault(ctx, s.repo, domain.KeyReminders, []domain.Reminder{})
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	return reminders, nil
}

func (s *ReminderService) save(ctx context.Context, reminders []domain.Reminder) error {
	if err := s.repo.Save(ctx, domain.KeyReminders, reminders); err != nil {
		return fmt.Errorf("failed to save reminders: %w", err)
	}
	return nil
}

func (s *ReminderService) List(ctx context.Context) ([]domain.Reminder, error) {
	return s.load(ctx)
}

func (s *ReminderService) Upcoming(ctx context.Context, now time.Time) ([]domain.Reminder, error) {
	reminders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return domain.UpcomingReminders(reminders, now), nil
}

// Create stores a new untriggered reminder. A clinic picked from the saved list
// without an address gets the saved address.
func (s *ReminderService) Create(ctx context.Context, r domain.Reminder) (domain.Reminder, error) {
	r.Title = strings.TrimSpace(r.Title)
	if err := validate.Struct(r); err != nil {
		return domain.Reminder{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	r.ID = s.newID()
	r.Triggered = false

	if r.ClinicName != "" && r.ClinicAddress == "" {
		clinics, err := loadOrDefault(ctx, s.repo, domain.KeySavedClinics, []domain.Clinic{})
		if err != nil {
			return domain.Reminder{}, fmt.Errorf("failed to load clinics: %w", err)
		}
		if c, ok := domain.FindClinic(clinics, r.ClinicName); ok {
			r.ClinicAddress = c.Address
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	reminders, err := s.load(ctx)
	if err != nil {
		return domain.Reminder{}, err
	}
	if err := s.save(ctx, append(reminders, r)); err != nil {
		return domain.Reminder{}, err
	}
	s.log.Info().Str("reminder_id", r.ID).Time("due_at", r.DateTime).Msg("reminder created")
	return r, nil
}

func (s *ReminderService) Delete(ctx context.Context, id string, confirm ports.Confirmer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reminders, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, r := range reminders {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("reminder %s: %w", id, domain.ErrNotFound)
	}
	if !confirmed(confirm, fmt.Sprintf("Delete the reminder %q?", reminders[idx].Title)) {
		return domain.ErrNotConfirmed
	}
	if err := s.save(ctx, append(reminders[:idx], reminders[idx+1:]...)); err != nil {
		return err
	}
	s.log.Info().Str("reminder_id", id).Msg("reminder deleted")
	return nil
}

// Sweep notifies every due reminder and persists all triggered flags in a single write
func (s *ReminderService) Sweep(ctx context.Context, now time.Time) (ports.SweepResult, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	var res ports.SweepResult
	reminders, err := s.load(ctx)
	if err != nil {
		return res, err
	}
	var due []int
	for i, r := range reminders {
		if r.IsDue(now) {
			due = append(due, i)
		}
	}
	res.Due = len(due)
	if res.Due == 0 {
		s.telemetry.SweepCompleted(time.Since(start), 0)
		return res, nil
	}

	if perm := s.notifier.Permission(ctx); perm != domain.PermissionGranted {
		res.Skipped = res.Due
		for range due {
			s.telemetry.NotificationResult(NotificationSkipped)
		}
		s.log.Warn().Int("due", res.Due).Str("permission", string(perm)).Msg("notification permission not granted, reminders kept pending")
		s.telemetry.SweepCompleted(time.Since(start), 0)
		return res, nil
	}

	for _, i := range due {
		r := reminders[i]
		if err := s.notifier.Notify(ctx, domain.NotificationFor(r)); err != nil {
			res.Failed++
			s.telemetry.NotificationResult(NotificationFailed)
			s.log.Error().Err(err).Str("reminder_id", r.ID).Msg("failed to deliver reminder, will retry")
			continue
		}
		reminders[i].Triggered = true
		res.Delivered++
		s.telemetry.NotificationResult(NotificationDelivered)
	}

	if res.Delivered > 0 {
		if err := s.save(ctx, reminders); err != nil {
			return res, err
		}
	}
	s.telemetry.SweepCompleted(time.Since(start), res.Delivered)
	s.log.Debug().Int("due", res.Due).Int("delivered", res.Delivered).Int("failed", res.Failed).Msg("reminder sweep finished")
	return res, nil
}

// Start asks for notification permission once, then sweeps immediately and on every tick until ctx is done
func (s *ReminderService) Start(ctx context.Context, interval time.Duration) {
	if s.notifier.Permission(ctx) == domain.PermissionDefault {
		perm, err := s.notifier.RequestPermission(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("notification permission request failed")
		} else {
			s.log.Info().Str("permission", string(perm)).Msg("notification permission")
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx, s.now()); err != nil {
			s.log.Error().Err(err).Msg("reminder sweep failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

var _ ports.ReminderService = (*ReminderService)(nil)
