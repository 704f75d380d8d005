package ports

import (
	"context"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
)

// CountdownService owns the due-date state. Calculations that fail leave the stored state untouched.
type CountdownService interface {
	Get(ctx context.Context) (domain.CountdownData, error)
	CalculateFromLMP(ctx context.Context, lmp domain.Date, cycleLengthDays int) (domain.CountdownData, error)
	CalculateFromCRL(ctx context.Context, crlMillimeters float64, measuredOn domain.Date) (domain.CountdownData, error)
	SetDirect(ctx context.Context, edd domain.Date) (domain.CountdownData, error)
	Reset(ctx context.Context) error
	// Progress returns nil when no due date is set
	Progress(ctx context.Context, today domain.Date) (*domain.Progress, error)
}

// CheckupService manages the visit collection, its lab results and the saved clinic list
type CheckupService interface {
	List(ctx context.Context) ([]domain.Checkup, error)
	Get(ctx context.Context, id string) (domain.Checkup, error)
	Save(ctx context.Context, c domain.Checkup) (domain.Checkup, error)
	Delete(ctx context.Context, id string, confirm Confirmer) error

	AddLabTest(ctx context.Context, checkupID, testKey string) (domain.Checkup, error)
	RemoveLabTest(ctx context.Context, checkupID, testKey string) (domain.Checkup, error)
	SetLabResult(ctx context.Context, checkupID, testKey, content string) (domain.Checkup, error)
	AttachLabFiles(ctx context.Context, checkupID, testKey string, paths []string) (domain.Checkup, error)
	RemoveLabFile(ctx context.Context, checkupID, testKey string, index int) (domain.Checkup, error)

	Clinics(ctx context.Context) ([]domain.Clinic, error)
	RebuildClinics(ctx context.Context) ([]domain.Clinic, error)
}

// SweepResult summarizes one reminder sweep
type SweepResult struct {
	Due       int
	Delivered int
	Skipped   int // permission not granted
	Failed    int
}

// ReminderService manages reminders and runs the trigger sweep
type ReminderService interface {
	List(ctx context.Context) ([]domain.Reminder, error)
	Upcoming(ctx context.Context, now time.Time) ([]domain.Reminder, error)
	Create(ctx context.Context, r domain.Reminder) (domain.Reminder, error)
	Delete(ctx context.Context, id string, confirm Confirmer) error
	Sweep(ctx context.Context, now time.Time) (SweepResult, error)
	Start(ctx context.Context, interval time.Duration)
}

// FamilyService edits the two parent profiles
type FamilyService interface {
	Get(ctx context.Context, role domain.ParentRole) (domain.ParentInfo, error)
	SetField(ctx context.Context, role domain.ParentRole, field, value string) (domain.ParentInfo, error)
	SetAvatar(ctx context.Context, role domain.ParentRole, path string) (domain.ParentInfo, error)
	RemoveAvatar(ctx context.Context, role domain.ParentRole) (domain.ParentInfo, error)
}

// SettingsService is the single owner of the display settings
type SettingsService interface {
	Get(ctx context.Context) (domain.AppSettings, error)
	Update(ctx context.Context, s domain.AppSettings) (domain.AppSettings, error)
	SetBackgroundColor(ctx context.Context, color string) (domain.AppSettings, error)
	SetBackgroundImage(ctx context.Context, path string) (domain.AppSettings, error)
	RemoveBackgroundImage(ctx context.Context) (domain.AppSettings, error)
}

// ReportService builds and exports the printable record
type ReportService interface {
	Build(ctx context.Context, now time.Time) (domain.Report, error)
	// Generate writes the document into dir and returns its path
	Generate(ctx context.Context, now time.Time, dir string) (string, error)
}
