package services

import (
	"context"
	"fmt"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/rs/zerolog"
)

// CountdownService stores the due date computed by one of the three dating methods
type CountdownService struct {
	repo ports.RecordRepository
	log  zerolog.Logger
}

func NewCountdownService(repo ports.RecordRepository, log zerolog.Logger) *CountdownService {
	return &CountdownService{
		repo: repo,
		log:  log.With().Str("service", "countdown").Logger(),
	}
}

func (s *CountdownService) Get(ctx context.Context) (domain.CountdownData, error) {
	return loadOrDefault(ctx, s.repo, domain.KeyCountdown, domain.DefaultCountdown())
}

func (s *CountdownService) CalculateFromLMP(ctx context.Context, lmp domain.Date, cycleLengthDays int) (domain.CountdownData, error) {
	cycle, err := domain.NormalizeCycleLength(cycleLengthDays)
	if err != nil {
		return domain.CountdownData{}, err
	}
	edd, err := domain.EDDFromLMP(lmp, cycle)
	if err != nil {
		return domain.CountdownData{}, err
	}
	data := domain.CountdownData{
		EDD:    edd,
		Method: domain.MethodLMP,
		Inputs: domain.CountdownInputs{LMP: lmp, CycleLength: cycle},
	}
	return data, s.store(ctx, data)
}

func (s *CountdownService) CalculateFromCRL(ctx context.Context, crlMillimeters float64, measuredOn domain.Date) (domain.CountdownData, error) {
	edd, err := domain.EDDFromCRL(crlMillimeters, measuredOn)
	if err != nil {
		return domain.CountdownData{}, err
	}
	crl := crlMillimeters
	data := domain.CountdownData{
		EDD:    edd,
		Method: domain.MethodCRL,
		Inputs: domain.CountdownInputs{CRLMillimeters: &crl, CRLDate: measuredOn},
	}
	return data, s.store(ctx, data)
}

func (s *CountdownService) SetDirect(ctx context.Context, edd domain.Date) (domain.CountdownData, error) {
	if edd.IsZero() {
		return domain.CountdownData{}, domain.ErrMissingDate
	}
	data := domain.CountdownData{EDD: edd, Method: domain.MethodDirect}
	return data, s.store(ctx, data)
}

func (s *CountdownService) Reset(ctx context.Context) error {
	if err := s.repo.Save(ctx, domain.KeyCountdown, domain.DefaultCountdown()); err != nil {
		return fmt.Errorf("failed to reset countdown: %w", err)
	}
	s.log.Info().Msg("countdown reset")
	return nil
}

func (s *CountdownService) Progress(ctx context.Context, today domain.Date) (*domain.Progress, error) {
	data, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !data.IsSet() {
		return nil, nil
	}
	return domain.DeriveProgress(data.EDD, today), nil
}

func (s *CountdownService) store(ctx context.Context, data domain.CountdownData) error {
	if err := s.repo.Save(ctx, domain.KeyCountdown, data); err != nil {
		return fmt.Errorf("failed to save countdown: %w", err)
	}
	s.log.Info().Str("method", string(data.Method)).Str("edd", data.EDD.String()).Msg("due date set")
	return nil
}

var _ ports.CountdownService = (*CountdownService)(nil)
