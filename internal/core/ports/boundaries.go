package ports

import (
	"context"
	"io"
	"time"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
)

// Notifier delivers user-facing notifications.
// Callers check Permission before Notify and never block on the user's response.
type Notifier interface {
	Permission(ctx context.Context) domain.NotificationPermission
	RequestPermission(ctx context.Context) (domain.NotificationPermission, error)
	Notify(ctx context.Context, n domain.Notification) error
}

// FileIngester turns an uploaded file into an embedded, storable attachment
type FileIngester interface {
	ReadFileAsEmbeddedData(ctx context.Context, path string) (domain.FileAttachment, error)
	// Size returns the file size in bytes without reading its content
	Size(ctx context.Context, path string) (int64, error)
}

// DocumentRenderer lays a report out into a document written to w
type DocumentRenderer interface {
	Render(ctx context.Context, report domain.Report, w io.Writer) error
	// Extension is the file extension of the produced documents, without the dot
	Extension() string
}

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(prompt string) bool
}

// Telemetry receives operational counters from services; a nil Telemetry is allowed
type Telemetry interface {
	SweepCompleted(duration time.Duration, triggered int)
	NotificationResult(status string)
	ReportGenerated(status string)
	RecordWritten(key domain.RecordKey)
}
