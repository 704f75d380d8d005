package services_test

import (
	"context"
	"io"

	"github.com/IANDYI/pregnancy-tracker/internal/adapters/repository"
	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of ports.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Permission(ctx context.Context) domain.NotificationPermission {
	args := m.Called(ctx)
	return args.Get(0).(domain.NotificationPermission)
}

func (m *MockNotifier) RequestPermission(ctx context.Context) (domain.NotificationPermission, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.NotificationPermission), args.Error(1)
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockConfirmer is a mock implementation of ports.Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(prompt string) bool {
	args := m.Called(prompt)
	return args.Bool(0)
}

// MockIngester is a mock implementation of ports.FileIngester
type MockIngester struct {
	mock.Mock
}

func (m *MockIngester) ReadFileAsEmbeddedData(ctx context.Context, path string) (domain.FileAttachment, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(domain.FileAttachment), args.Error(1)
}

func (m *MockIngester) Size(ctx context.Context, path string) (int64, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(int64), args.Error(1)
}

// MockRenderer is a mock implementation of ports.DocumentRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, rep domain.Report, w io.Writer) error {
	args := m.Called(ctx, rep, w)
	if args.Error(0) == nil {
		_, _ = io.WriteString(w, "%PDF-fake")
	}
	return args.Error(0)
}

func (m *MockRenderer) Extension() string {
	return m.Called().String(0)
}

func newRecords() *repository.Records {
	return repository.NewRecords(repository.NewMemoryStore(), zerolog.Nop(), nil)
}

func attachment(name, mime string) domain.FileAttachment {
	return domain.FileAttachment{Name: name, Data: "data:" + mime + ";base64,AAAA", MimeType: mime}
}
