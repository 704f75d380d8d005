package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// CheckupService implements the visit collection on top of the record store.
// Every mutation is one read-modify-write of the whole collection.
type CheckupService struct {
	repo     ports.RecordRepository
	ingester ports.FileIngester
	log      zerolog.Logger
	newID    func() string
}

func NewCheckupService(repo ports.RecordRepository, ingester ports.FileIngester, log zerolog.Logger) *CheckupService {
	return &CheckupService{
		repo:     repo,
		ingester: ingester,
		log:      log.With().Str("service", "checkup").Logger(),
		newID:    func() string { return uuid.NewString() },
	}
}

func (s *CheckupService) load(ctx context.Context) ([]domain.Checkup, error) {
	checkups, err := loadOrDefault(ctx, s.repo, domain.KeyCheckups, []domain.Checkup{})
	if err != nil {
		return nil, fmt.Errorf("failed to load checkups: %w", err)
	}
	return checkups, nil
}

func (s *CheckupService) save(ctx context.Context, checkups []domain.Checkup) error {
	if err := s.repo.Save(ctx, domain.KeyCheckups, checkups); err != nil {
		return fmt.Errorf("failed to save checkups: %w", err)
	}
	return nil
}

// List returns all visits, most recent first
func (s *CheckupService) List(ctx context.Context) ([]domain.Checkup, error) {
	checkups, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(checkups, func(i, j int) bool {
		return checkups[j].Date.Before(checkups[i].Date)
	})
	return checkups, nil
}

func (s *CheckupService) Get(ctx context.Context, id string) (domain.Checkup, error) {
	checkups, err := s.load(ctx)
	if err != nil {
		return domain.Checkup{}, err
	}
	i := indexOfCheckup(checkups, id)
	if i < 0 {
		return domain.Checkup{}, fmt.Errorf("checkup %s: %w", id, domain.ErrNotFound)
	}
	return checkups[i], nil
}

// Save creates the visit when its ID is empty and replaces the stored one otherwise.
// A place with a clinic address is remembered in the saved clinic list.
func (s *CheckupService) Save(ctx context.Context, c domain.Checkup) (domain.Checkup, error) {
	if c.Date.IsZero() {
		return domain.Checkup{}, fmt.Errorf("%w: visit date is required", domain.ErrInvalidInput)
	}
	if err := validate.Struct(c); err != nil {
		return domain.Checkup{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	checkups, err := s.load(ctx)
	if err != nil {
		return domain.Checkup{}, err
	}
	if c.ID == "" {
		c.ID = s.newID()
		checkups = append(checkups, c)
	} else if i := indexOfCheckup(checkups, c.ID); i >= 0 {
		checkups[i] = c
	} else {
		return domain.Checkup{}, fmt.Errorf("checkup %s: %w", c.ID, domain.ErrNotFound)
	}
	if err := s.save(ctx, checkups); err != nil {
		return domain.Checkup{}, err
	}
	s.log.Info().Str("checkup_id", c.ID).Str("date", c.Date.String()).Msg("checkup saved")

	if err := s.rememberClinic(ctx, c.Place, c.ClinicAddress); err != nil {
		return c, err
	}
	return c, nil
}

func (s *CheckupService) Delete(ctx context.Context, id string, confirm ports.Confirmer) error {
	checkups, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexOfCheckup(checkups, id)
	if i < 0 {
		return fmt.Errorf("checkup %s: %w", id, domain.ErrNotFound)
	}
	if !confirmed(confirm, fmt.Sprintf("Delete the visit of %s?", checkups[i].Date.Display())) {
		return domain.ErrNotConfirmed
	}
	checkups = append(checkups[:i], checkups[i+1:]...)
	if err := s.save(ctx, checkups); err != nil {
		return err
	}
	s.log.Info().Str("checkup_id", id).Msg("checkup deleted")
	return nil
}

// AddLabTest adds an empty result for key; adding a key already present changes nothing
func (s *CheckupService) AddLabTest(ctx context.Context, checkupID, testKey string) (domain.Checkup, error) {
	if testKey == "" {
		return domain.Checkup{}, fmt.Errorf("%w: test key is required", domain.ErrInvalidInput)
	}
	return s.update(ctx, checkupID, func(c *domain.Checkup) error {
		if !c.LabTests.Has(testKey) {
			c.LabTests.Set(testKey, domain.NewLabTestResult(testKey))
		}
		return nil
	})
}

func (s *CheckupService) RemoveLabTest(ctx context.Context, checkupID, testKey string) (domain.Checkup, error) {
	return s.update(ctx, checkupID, func(c *domain.Checkup) error {
		if !c.LabTests.Has(testKey) {
			return fmt.Errorf("%s: %w", testKey, domain.ErrUnknownLabTest)
		}
		c.LabTests.Delete(testKey)
		return nil
	})
}

// SetLabResult sets the manual result, or the caption of a file-backed one
func (s *CheckupService) SetLabResult(ctx context.Context, checkupID, testKey, content string) (domain.Checkup, error) {
	if testKey == "" {
		return domain.Checkup{}, fmt.Errorf("%w: test key is required", domain.ErrInvalidInput)
	}
	return s.update(ctx, checkupID, func(c *domain.Checkup) error {
		r, ok := c.LabTests.Get(testKey)
		if !ok {
			r = domain.NewLabTestResult(testKey)
		}
		r.Content = content
		c.LabTests.Set(testKey, r)
		return nil
	})
}

// AttachLabFiles ingests all files concurrently and applies them in one write.
// Ultrasound results accumulate attachments; other tests hold a single one, which is replaced.
func (s *CheckupService) AttachLabFiles(ctx context.Context, checkupID, testKey string, paths []string) (domain.Checkup, error) {
	if len(paths) == 0 {
		return domain.Checkup{}, fmt.Errorf("%w: no files given", domain.ErrInvalidInput)
	}
	multiple := domain.IsUltrasoundTest(testKey)
	if !multiple && len(paths) > 1 {
		return domain.Checkup{}, fmt.Errorf("%w: %s takes a single attachment", domain.ErrInvalidInput, testKey)
	}
	if _, err := s.Get(ctx, checkupID); err != nil {
		return domain.Checkup{}, err
	}

	attachments := make([]domain.FileAttachment, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			a, err := s.ingester.ReadFileAsEmbeddedData(gctx, p)
			if err != nil {
				return err
			}
			attachments[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Checkup{}, fmt.Errorf("failed to ingest attachments: %w", err)
	}

	return s.update(ctx, checkupID, func(c *domain.Checkup) error {
		r, ok := c.LabTests.Get(testKey)
		if !ok {
			r = domain.NewLabTestResult(testKey)
		}
		r.Type = domain.LabResultFile
		if multiple {
			r.Files = append(append([]domain.FileAttachment(nil), r.Files...), attachments...)
		} else {
			r.Files = attachments
		}
		c.LabTests.Set(testKey, r)
		return nil
	})
}

func (s *CheckupService) RemoveLabFile(ctx context.Context, checkupID, testKey string, index int) (domain.Checkup, error) {
	return s.update(ctx, checkupID, func(c *domain.Checkup) error {
		r, ok := c.LabTests.Get(testKey)
		if !ok {
			return fmt.Errorf("%s: %w", testKey, domain.ErrUnknownLabTest)
		}
		if index < 0 || index >= len(r.Files) {
			return fmt.Errorf("%w: attachment %d of %s", domain.ErrNotFound, index, testKey)
		}
		files := make([]domain.FileAttachment, 0, len(r.Files)-1)
		files = append(files, r.Files[:index]...)
		r.Files = append(files, r.Files[index+1:]...)
		c.LabTests.Set(testKey, r)
		return nil
	})
}

// update applies fn to a copy of the visit and saves the collection when fn succeeds
func (s *CheckupService) update(ctx context.Context, id string, fn func(*domain.Checkup) error) (domain.Checkup, error) {
	checkups, err := s.load(ctx)
	if err != nil {
		return domain.Checkup{}, err
	}
	i := indexOfCheckup(checkups, id)
	if i < 0 {
		return domain.Checkup{}, fmt.Errorf("checkup %s: %w", id, domain.ErrNotFound)
	}
	c := checkups[i].Clone()
	if err := fn(&c); err != nil {
		return domain.Checkup{}, err
	}
	checkups[i] = c
	if err := s.save(ctx, checkups); err != nil {
		return domain.Checkup{}, err
	}
	return c, nil
}

func (s *CheckupService) Clinics(ctx context.Context) ([]domain.Clinic, error) {
	return loadOrDefault(ctx, s.repo, domain.KeySavedClinics, []domain.Clinic{})
}

// RebuildClinics rescans every visit in chronological order
func (s *CheckupService) RebuildClinics(ctx context.Context) ([]domain.Clinic, error) {
	checkups, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	clinics := []domain.Clinic{}
	for _, c := range domain.SortCheckupsByDate(checkups) {
		clinics, _ = domain.UpsertClinic(clinics, c.Place, c.ClinicAddress)
	}
	if err := s.repo.Save(ctx, domain.KeySavedClinics, clinics); err != nil {
		return nil, fmt.Errorf("failed to save clinics: %w", err)
	}
	return clinics, nil
}

func (s *CheckupService) rememberClinic(ctx context.Context, name, address string) error {
	clinics, err := s.Clinics(ctx)
	if err != nil {
		return err
	}
	updated, changed := domain.UpsertClinic(clinics, name, address)
	if !changed {
		return nil
	}
	if err := s.repo.Save(ctx, domain.KeySavedClinics, updated); err != nil {
		return fmt.Errorf("failed to save clinics: %w", err)
	}
	return nil
}

func indexOfCheckup(checkups []domain.Checkup, id string) int {
	for i, c := range checkups {
		if c.ID == id {
			return i
		}
	}
	return -1
}

var _ ports.CheckupService = (*CheckupService)(nil)
