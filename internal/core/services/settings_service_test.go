package services_test

import (
	"context"
	"testing"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/services"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_Defaults(t *testing.T) {
	svc := services.NewSettingsService(newRecords(), new(MockIngester), zerolog.Nop())
	s, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)
	assert.Equal(t, domain.Backdrop{Color: "#f3f4f6"}, s.EffectiveBackdrop())
}

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()
	svc := services.NewSettingsService(newRecords(), new(MockIngester), zerolog.Nop())

	s, err := svc.Update(ctx, domain.AppSettings{Theme: domain.ThemeDark, FontFamily: domain.FontSerif, FontSize: domain.FontSizeLarge, Background: "#ffffff"})
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, s.Theme)

	_, err = svc.Update(ctx, domain.AppSettings{Theme: "neon", FontFamily: domain.FontSerif, FontSize: domain.FontSizeLarge, Background: "#ffffff"})
	assert.ErrorIs(t, err, domain.ErrInvalidSetting)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, got.Theme)
}

func TestSettingsService_BackgroundImageAndColour(t *testing.T) {
	ctx := context.Background()
	ingester := new(MockIngester)
	ingester.On("Size", mock.Anything, "small.png").Return(int64(domain.MaxBackgroundImageBytes-1), nil)
	ingester.On("Size", mock.Anything, "big.png").Return(int64(domain.MaxBackgroundImageBytes), nil)
	ingester.On("Size", mock.Anything, "notes.txt").Return(int64(12), nil)
	ingester.On("ReadFileAsEmbeddedData", mock.Anything, "small.png").Return(attachment("small.png", "image/png"), nil)
	ingester.On("ReadFileAsEmbeddedData", mock.Anything, "notes.txt").Return(attachment("notes.txt", "text/plain"), nil)
	svc := services.NewSettingsService(newRecords(), ingester, zerolog.Nop())

	s, err := svc.SetBackgroundImage(ctx, "small.png")
	require.NoError(t, err)
	assert.Equal(t, domain.Backdrop{Image: "data:image/png;base64,AAAA"}, s.EffectiveBackdrop())

	_, err = svc.SetBackgroundImage(ctx, "big.png")
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	ingester.AssertNotCalled(t, "ReadFileAsEmbeddedData", mock.Anything, "big.png")

	_, err = svc.SetBackgroundImage(ctx, "notes.txt")
	assert.ErrorIs(t, err, domain.ErrInvalidSetting)

	s, err = svc.Get(ctx)
	require.NoError(t, err)
	s.Theme = domain.ThemeDark
	s, err = svc.Update(ctx, s)
	require.NoError(t, err)
	assert.NotEmpty(t, s.BackgroundImage, "same colour keeps the image")

	s.Background = "#f0fdf4"
	s, err = svc.Update(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, s.BackgroundImage)
	assert.Equal(t, domain.Backdrop{Color: "#f0fdf4"}, s.EffectiveBackdrop())

	stored, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored.BackgroundImage)

	_, err = svc.SetBackgroundImage(ctx, "small.png")
	require.NoError(t, err)

	s, err = svc.SetBackgroundColor(ctx, "#fdf2f8")
	require.NoError(t, err)
	assert.Empty(t, s.BackgroundImage)
	assert.Equal(t, domain.Backdrop{Color: "#fdf2f8"}, s.EffectiveBackdrop())

	_, err = svc.SetBackgroundColor(ctx, "pink")
	assert.ErrorIs(t, err, domain.ErrInvalidSetting)

	_, err = svc.SetBackgroundImage(ctx, "small.png")
	require.NoError(t, err)
	s, err = svc.RemoveBackgroundImage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#fdf2f8", s.Background)
	assert.Empty(t, s.BackgroundImage)
}
