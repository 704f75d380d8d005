package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/services"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCheckupService(ingester *MockIngester) *services.CheckupService {
	if ingester == nil {
		ingester = new(MockIngester)
	}
	return services.NewCheckupService(newRecords(), ingester, zerolog.Nop())
}

func TestCheckupService_SaveEditDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newCheckupService(nil)

	other, err := svc.Save(ctx, domain.Checkup{Date: domain.MustParseDate("2024-01-10"), Place: "City Hospital"})
	require.NoError(t, err)

	created, err := svc.Save(ctx, domain.Checkup{Date: domain.MustParseDate("2024-02-15"), Doctor: "Dr. Hoa"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.NotEqual(t, other.ID, created.ID)

	edited := created
	edited.Doctor = "Dr. Lan"
	edited.Conclusion = "Healthy"
	_, err = svc.Save(ctx, edited)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Lan", got.Doctor)
	assert.Equal(t, "Healthy", got.Conclusion)

	confirm := new(MockConfirmer)
	confirm.On("Confirm", mock.Anything).Return(true)
	require.NoError(t, svc.Delete(ctx, created.ID, confirm))

	all, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, other.ID, all[0].ID)
	confirm.AssertExpectations(t)
}

func TestCheckupService_DeleteDeclinedKeepsVisit(t *testing.T) {
	ctx := context.Background()
	svc := newCheckupService(nil)
	c, err := svc.Save(ctx, domain.Checkup{Date: domain.MustParseDate("2024-01-10")})
	require.NoError(t, err)

	confirm := new(MockConfirmer)
	confirm.On("Confirm", mock.Anything).Return(false)
	err = svc.Delete(ctx, c.ID, confirm)
	assert.ErrorIs(t, err, domain.ErrNotConfirmed)

	err = svc.Delete(ctx, c.ID, nil)
	assert.ErrorIs(t, err, domain.ErrNotConfirmed)

	_, err = svc.Get(ctx, c.ID)
	assert.NoError(t, err)

	err = svc.Delete(ctx, "missing", confirm)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckupService_SaveRequiresDateAndKnownID(t *testing.T) {
	ctx := context.Background()
	svc := newCheckupService(nil)

	_, err := svc.Save(ctx, domain.Checkup{Place: "Clinic"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Save(ctx, domain.Checkup{ID: "ghost", Date: domain.MustParseDate("2024-01-01")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckupService_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newCheckupService(nil)
	for _, d := range []string{"2024-03-01", "2024-01-10", "2024-02-15"} {
		_, err := svc.Save(ctx, domain.Checkup{Date: domain.MustParseDate(d)})
		require.NoError(t, err)
	}
	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-03-01", all[0].Date.String())
	assert.Equal(t, "2024-02-15", all[1].Date.String())
	assert.Equal(t, "2024-01-10", all[2].Date.String())
}

func TestCheckupService_SavedClinics(t *testing.T) {
	ctx := context.Background()
	svc := newCheckupService(nil)

	_, err := svc.Save(ctx, domain.Checkup{Date: domain.MustParseDate("2024-01-10"), Place: "Tu Du", ClinicAddress: "284 Cong Quynh"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, domain.Checkup{Date: domain.MustParseDate("2024-02-10"), Place: "tu du", ClinicAddress: "286 Cong Quynh"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, domain.Checkup{Date: domain.MustParseDate("2024-02-20"), Place: "No address"})
	require.NoError(t, err)

	clinics, err := svc.Clinics(ctx)
	require.NoError(t, err)
	require.Len(t, clinics, 1)
	assert.Equal(t, "Tu Du", clinics[0].Name)
	assert.Equal(t, "286 Cong Quynh", clinics[0].Address)

	rebuilt, err := svc.RebuildClinics(ctx)
	require.NoError(t, err)
	assert.Equal(t, clinics, rebuilt)
}

func TestCheckupService_LabTests(t *testing.T) {
	ctx := context.Background()
	svc := newCheckupService(nil)
	c, err := svc.Save(ctx, domain.Checkup{Date: domain.MustParseDate("2024-01-10")})
	require.NoError(t, err)

	c, err = svc.AddLabTest(ctx, c.ID, domain.LabCBC)
	require.NoError(t, err)
	c, err = svc.AddLabTest(ctx, c.ID, domain.LabFetalUltrasound)
	require.NoError(t, err)
	c, err = svc.AddLabTest(ctx, c.ID, domain.LabCBC)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.LabCBC, domain.LabFetalUltrasound}, c.LabTests.Keys())

	us, _ := c.LabTests.Get(domain.LabFetalUltrasound)
	assert.Equal(t, domain.LabResultFile, us.Type)
	cbc, _ := c.LabTests.Get(domain.LabCBC)
	assert.Equal(t, domain.LabResultManual, cbc.Type)

	c, err = svc.SetLabResult(ctx, c.ID, domain.LabCBC, "Hb 11.8 g/dL")
	require.NoError(t, err)
	cbc, _ = c.LabTests.Get(domain.LabCBC)
	assert.Equal(t, "Hb 11.8 g/dL", cbc.Content)

	c, err = svc.RemoveLabTest(ctx, c.ID, domain.LabCBC)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.LabFetalUltrasound}, c.LabTests.Keys())

	_, err = svc.RemoveLabTest(ctx, c.ID, domain.LabCBC)
	assert.ErrorIs(t, err, domain.ErrUnknownLabTest)

	stored, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.LabTests.Keys(), stored.LabTests.Keys())
}

func TestCheckupService_AttachLabFiles_UltrasoundAccumulates(t *testing.T) {
	ctx := context.Background()
	ingester := new(MockIngester)
	ingester.On("ReadFileAsEmbeddedData", mock.Anything, "a.png").Return(attachment("a.png", "image/png"), nil)
	ingester.On("ReadFileAsEmbeddedData", mock.Anything, "b.png").Return(attachment("b.png", "image/png"), nil)
	ingester.On("ReadFileAsEmbeddedData", mock.Anything, "c.jpg").Return(attachment("c.jpg", "image/jpeg"), nil)
	svc := newCheckupService(ingester)

	c, err := svc.Save(ctx, domain.Checkup{Date: domain.MustParseDate("2024-01-10")})
	require.NoError(t, err)

	c, err = svc.AttachLabFiles(ctx, c.ID, domain.LabFetalUltrasound, []string{"a.png", "b.png"})
	require.NoError(t, err)
	c, err = svc.AttachLabFiles(ctx, c.ID, domain.LabFetalUltrasound, []string{"c.jpg"})
	require.NoError(t, err)

	r, ok := c.LabTests.Get(domain.LabFetalUltrasound)
	require.True(t, ok)
	require.Len(t, r.Files, 3)
	assert.Equal(t, "a.png", r.Files[0].Name)
	assert.Equal(t, "b.png", r.Files[1].Name)
	assert.Equal(t, "c.jpg", r.Files[2].Name)

	c, err = svc.RemoveLabFile(ctx, c.ID, domain.LabFetalUltrasound, 1)
	require.NoError(t, err)
	r, _ = c.LabTests.Get(domain.LabFetalUltrasound)
	require.Len(t, r.Files, 2)
	assert.Equal(t, "c.jpg", r.Files[1].Name)

	_, err = svc.RemoveLabFile(ctx, c.ID, domain.LabFetalUltrasound, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	ingester.AssertExpectations(t)
}

func TestCheckupService_AttachLabFiles_SingleAttachmentReplaced(t *testing.T) {
	ctx := context.Background()
	ingester := new(MockIngester)
	ingester.On("ReadFileAsEmbeddedData", mock.Anything, "old.pdf").Return(attachment("old.pdf", "application/pdf"), nil)
	ingester.On("ReadFileAsEmbeddedData", mock.Anything, "new.pdf").Return(attachment("new.pdf", "application/pdf"), nil)
	svc := newCheckupService(ingester)

	c, err := svc.Save(ctx, domain.Checkup{Date: domain.MustParseDate("2024-01-10")})
	require.NoError(t, err)
	c, err = svc.SetLabResult(ctx, c.ID, domain.LabBiochemistry, "see attachment")
	require.NoError(t, err)

	_, err = svc.AttachLabFiles(ctx, c.ID, domain.LabBiochemistry, []string{"old.pdf"})
	require.NoError(t, err)
	c, err = svc.AttachLabFiles(ctx, c.ID, domain.LabBiochemistry, []string{"new.pdf"})
	require.NoError(t, err)

	r, _ := c.LabTests.Get(domain.LabBiochemistry)
	assert.Equal(t, domain.LabResultFile, r.Type)
	assert.Equal(t, "see attachment", r.Content)
	require.Len(t, r.Files, 1)
	assert.Equal(t, "new.pdf", r.Files[0].Name)

	_, err = svc.AttachLabFiles(ctx, c.ID, domain.LabBiochemistry, []string{"old.pdf", "new.pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckupService_AttachLabFiles_FailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	ingester := new(MockIngester)
	ingester.On("ReadFileAsEmbeddedData", mock.Anything, "ok.png").Return(attachment("ok.png", "image/png"), nil)
	ingester.On("ReadFileAsEmbeddedData", mock.Anything, "broken.png").Return(domain.FileAttachment{}, errors.New("permission denied"))
	svc := newCheckupService(ingester)

	c, err := svc.Save(ctx, domain.Checkup{Date: domain.MustParseDate("2024-01-10")})
	require.NoError(t, err)

	_, err = svc.AttachLabFiles(ctx, c.ID, domain.LabAbdominalUltrasound, []string{"ok.png", "broken.png"})
	require.Error(t, err)

	stored, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, stored.LabTests.Has(domain.LabAbdominalUltrasound))
}
