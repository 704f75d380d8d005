package services

import (
	"context"
	"fmt"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/rs/zerolog"
)

// FamilyService edits the mother and father profiles field by field
type FamilyService struct {
	repo     ports.RecordRepository
	ingester ports.FileIngester
	log      zerolog.Logger
}

func NewFamilyService(repo ports.RecordRepository, ingester ports.FileIngester, log zerolog.Logger) *FamilyService {
	return &FamilyService{
		repo:     repo,
		ingester: ingester,
		log:      log.With().Str("service", "family").Logger(),
	}
}

func (s *FamilyService) Get(ctx context.Context, role domain.ParentRole) (domain.ParentInfo, error) {
	key, err := role.Key()
	if err != nil {
		return domain.ParentInfo{}, err
	}
	return loadOrDefault(ctx, s.repo, key, domain.ParentInfo{})
}

func (s *FamilyService) SetField(ctx context.Context, role domain.ParentRole, field, value string) (domain.ParentInfo, error) {
	f, ok := domain.LookupParentField(field)
	if !ok {
		return domain.ParentInfo{}, fmt.Errorf("%w: unknown field %q", domain.ErrInvalidInput, field)
	}
	if err := f.Validate(value); err != nil {
		return domain.ParentInfo{}, err
	}
	return s.update(ctx, role, func(p *domain.ParentInfo) { f.Set(p, value) })
}

// SetAvatar embeds an image file as the profile picture
func (s *FamilyService) SetAvatar(ctx context.Context, role domain.ParentRole, path string) (domain.ParentInfo, error) {
	att, err := s.ingester.ReadFileAsEmbeddedData(ctx, path)
	if err != nil {
		return domain.ParentInfo{}, fmt.Errorf("failed to read avatar: %w", err)
	}
	if !att.IsImage() {
		return domain.ParentInfo{}, fmt.Errorf("%w: avatar must be an image, got %s", domain.ErrInvalidInput, att.MimeType)
	}
	return s.update(ctx, role, func(p *domain.ParentInfo) { p.Avatar = att.Data })
}

func (s *FamilyService) RemoveAvatar(ctx context.Context, role domain.ParentRole) (domain.ParentInfo, error) {
	return s.update(ctx, role, func(p *domain.ParentInfo) { p.Avatar = "" })
}

func (s *FamilyService) update(ctx context.Context, role domain.ParentRole, fn func(*domain.ParentInfo)) (domain.ParentInfo, error) {
	key, err := role.Key()
	if err != nil {
		return domain.ParentInfo{}, err
	}
	p, err := loadOrDefault(ctx, s.repo, key, domain.ParentInfo{})
	if err != nil {
		return domain.ParentInfo{}, fmt.Errorf("failed to load %s: %w", role, err)
	}
	fn(&p)
	if err := s.repo.Save(ctx, key, p); err != nil {
		return domain.ParentInfo{}, fmt.Errorf("failed to save %s: %w", role, err)
	}
	s.log.Debug().Str("parent", string(role)).Msg("profile updated")
	return p, nil
}

var _ ports.FamilyService = (*FamilyService)(nil)
