package services

import (
	"context"
	"fmt"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/rs/zerolog"
)

// SettingsService is the only reader and writer of the display settings
type SettingsService struct {
	repo     ports.RecordRepository
	ingester ports.FileIngester
	log      zerolog.Logger
}

func NewSettingsService(repo ports.RecordRepository, ingester ports.FileIngester, log zerolog.Logger) *SettingsService {
	return &SettingsService{
		repo:     repo,
		ingester: ingester,
		log:      log.With().Str("service", "settings").Logger(),
	}
}

func (s *SettingsService) Get(ctx context.Context) (domain.AppSettings, error) {
	return loadOrDefault(ctx, s.repo, domain.KeySettings, domain.DefaultSettings())
}

// Update replaces theme, fonts and colour. The stored background image is kept
// only while the colour is unchanged; a new colour drops it.
func (s *SettingsService) Update(ctx context.Context, in domain.AppSettings) (domain.AppSettings, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return domain.AppSettings{}, err
	}
	in.BackgroundImage = ""
	if in.Background == cur.Background {
		in.BackgroundImage = cur.BackgroundImage
	}
	return s.store(ctx, in)
}

// SetBackgroundColor switches to a solid colour and drops any image
func (s *SettingsService) SetBackgroundColor(ctx context.Context, color string) (domain.AppSettings, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return domain.AppSettings{}, err
	}
	cur.Background = color
	cur.BackgroundImage = ""
	return s.store(ctx, cur)
}

// SetBackgroundImage accepts images strictly smaller than domain.MaxBackgroundImageBytes
func (s *SettingsService) SetBackgroundImage(ctx context.Context, path string) (domain.AppSettings, error) {
	size, err := s.ingester.Size(ctx, path)
	if err != nil {
		return domain.AppSettings{}, err
	}
	if size >= domain.MaxBackgroundImageBytes {
		return domain.AppSettings{}, fmt.Errorf("%w: background image must be smaller than 2MB", domain.ErrFileTooLarge)
	}
	att, err := s.ingester.ReadFileAsEmbeddedData(ctx, path)
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("failed to read background image: %w", err)
	}
	if !att.IsImage() {
		return domain.AppSettings{}, fmt.Errorf("%w: background must be an image, got %s", domain.ErrInvalidSetting, att.MimeType)
	}
	cur, err := s.Get(ctx)
	if err != nil {
		return domain.AppSettings{}, err
	}
	cur.BackgroundImage = att.Data
	return s.store(ctx, cur)
}

// RemoveBackgroundImage falls back to the stored colour
func (s *SettingsService) RemoveBackgroundImage(ctx context.Context) (domain.AppSettings, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return domain.AppSettings{}, err
	}
	cur.BackgroundImage = ""
	return s.store(ctx, cur)
}

func (s *SettingsService) store(ctx context.Context, in domain.AppSettings) (domain.AppSettings, error) {
	if err := validate.Struct(in); err != nil {
		return domain.AppSettings{}, fmt.Errorf("%w: %v", domain.ErrInvalidSetting, err)
	}
	if err := s.repo.Save(ctx, domain.KeySettings, in); err != nil {
		return domain.AppSettings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	s.log.Debug().Str("theme", string(in.Theme)).Msg("settings saved")
	return in, nil
}

var _ ports.SettingsService = (*SettingsService)(nil)
