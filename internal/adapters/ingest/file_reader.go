package ingest

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/IANDYI/pregnancy-tracker/internal/core/domain"
	"github.com/IANDYI/pregnancy-tracker/internal/core/ports"
	"github.com/gabriel-vasile/mimetype"
)

// FileReader embeds local files as base64 data URLs, sniffing the content type from the bytes
type FileReader struct{}

func NewFileReader() *FileReader {
	return &FileReader{}
}

func (FileReader) Size(_ context.Context, path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	return info.Size(), nil
}

func (FileReader) ReadFileAsEmbeddedData(ctx context.Context, path string) (domain.FileAttachment, error) {
	if err := ctx.Err(); err != nil {
		return domain.FileAttachment{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.FileAttachment{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	mimeType := MediaType(raw)
	return domain.FileAttachment{
		Name:     filepath.Base(path),
		Data:     DataURL(mimeType, raw),
		MimeType: mimeType,
	}, nil
}

// MediaType returns the detected media type without parameters
func MediaType(raw []byte) string {
	mt, _, _ := strings.Cut(mimetype.Detect(raw).String(), ";")
	return strings.TrimSpace(mt)
}

// DataURL encodes raw as a data URL of the given media type
func DataURL(mimeType string, raw []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

var _ ports.FileIngester = (*FileReader)(nil)
