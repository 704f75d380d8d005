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

func TestFamilyService_SetField(t *testing.T) {
	ctx := context.Background()
	svc := services.NewFamilyService(newRecords(), new(MockIngester), zerolog.Nop())

	empty, err := svc.Get(ctx, domain.ParentMother)
	require.NoError(t, err)
	assert.Equal(t, domain.ParentInfo{}, empty)

	_, err = svc.SetField(ctx, domain.ParentMother, "fullName", "Nguyen Thi Mai")
	require.NoError(t, err)
	p, err := svc.SetField(ctx, domain.ParentMother, "dob", "1994-07-12")
	require.NoError(t, err)
	assert.Equal(t, "Nguyen Thi Mai", p.FullName)
	assert.Equal(t, "1994-07-12", p.DOB)

	father, err := svc.Get(ctx, domain.ParentFather)
	require.NoError(t, err)
	assert.Empty(t, father.FullName)
}

func TestFamilyService_SetFieldRejects(t *testing.T) {
	ctx := context.Background()
	svc := services.NewFamilyService(newRecords(), new(MockIngester), zerolog.Nop())

	tests := []struct {
		name  string
		role  domain.ParentRole
		field string
		value string
	}{
		{name: "unknown field", role: domain.ParentMother, field: "shoeSize", value: "38"},
		{name: "bad date", role: domain.ParentMother, field: "dob", value: "12/07/1994"},
		{name: "bad gender", role: domain.ParentFather, field: "gender", value: "robot"},
		{name: "unknown parent", role: domain.ParentRole("aunt"), field: "fullName", value: "X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetField(ctx, tt.role, tt.field, tt.value)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestFamilyService_Avatar(t *testing.T) {
	ctx := context.Background()
	ingester := new(MockIngester)
	ingester.On("ReadFileAsEmbeddedData", mock.Anything, "me.jpg").Return(attachment("me.jpg", "image/jpeg"), nil)
	ingester.On("ReadFileAsEmbeddedData", mock.Anything, "cv.pdf").Return(attachment("cv.pdf", "application/pdf"), nil)
	svc := services.NewFamilyService(newRecords(), ingester, zerolog.Nop())

	p, err := svc.SetAvatar(ctx, domain.ParentFather, "me.jpg")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", p.Avatar)

	_, err = svc.SetAvatar(ctx, domain.ParentFather, "cv.pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err = svc.RemoveAvatar(ctx, domain.ParentFather)
	require.NoError(t, err)
	assert.Empty(t, p.Avatar)
}
