package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/rs/zerolog"
)

// ReportService gathers the stored record and hands it to a document renderer
type ReportService struct {
	repo      ports.RecordRepository
	renderer  ports.DocumentRenderer
	telemetry ports.Telemetry
	log       zerolog.Logger
}

func NewReportService(repo ports.RecordRepository, renderer ports.DocumentRenderer, telemetry ports.Telemetry, log zerolog.Logger) *ReportService {
	return &ReportService{
		repo:      repo,
		renderer:  renderer,
		telemetry: telemetryOrNoop(telemetry),
		log:       log.With().Str("service", "report").Logger(),
	}
}

// Build reads every record the report needs. Nothing is written.
func (s *ReportService) Build(ctx context.Context, now time.Time) (domain.Report, error) {
	var in domain.ReportInput
	var err error
	if in.Mother, err = loadOrDefault(ctx, s.repo, domain.KeyMotherInfo, domain.ParentInfo{}); err != nil {
		return domain.Report{}, fmt.Errorf("failed to load mother: %w", err)
	}
	if in.Father, err = loadOrDefault(ctx, s.repo, domain.KeyFatherInfo, domain.ParentInfo{}); err != nil {
		return domain.Report{}, fmt.Errorf("failed to load father: %w", err)
	}
	if in.Checkups, err = loadOrDefault(ctx, s.repo, domain.KeyCheckups, []domain.Checkup{}); err != nil {
		return domain.Report{}, fmt.Errorf("failed to load checkups: %w", err)
	}
	if in.Countdown, err = loadOrDefault(ctx, s.repo, domain.KeyCountdown, domain.DefaultCountdown()); err != nil {
		return domain.Report{}, fmt.Errorf("failed to load countdown: %w", err)
	}
	return domain.BuildReport(in, domain.ExportStamp(now)), nil
}

// Generate writes PregnancyRecord_<date>.<ext> into dir, replacing a report of the same day
func (s *ReportService) Generate(ctx context.Context, now time.Time, dir string) (path string, err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.telemetry.ReportGenerated(status)
	}()

	rep, err := s.Build(ctx, now)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path = filepath.Join(dir, domain.ReportFileName(rep.ExportedOn, s.renderer.Extension()))

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.renderer.Render(ctx, rep, tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	if err := errors.Join(tmp.Sync(), tmp.Close()); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	s.log.Info().Str("path", path).Int("visits", len(rep.Visits)).Msg("report generated")
	return path, nil
}

var _ ports.ReportService = (*ReportService)(nil)
