package ingest_test

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IANDYI/pregnancy-tracker/internal/adapters/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
var pixelPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func TestReadFileAsEmbeddedData_PNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(path, pixelPNG, 0o600))

	r := ingest.NewFileReader()
	att, err := r.ReadFileAsEmbeddedData(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "scan.png", att.Name)
	assert.Equal(t, "image/png", att.MimeType)
	assert.True(t, att.IsImage())
	assert.True(t, strings.HasPrefix(att.Data, "data:image/png;base64,"))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(att.Data, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, pixelPNG, decoded)
}

func TestReadFileAsEmbeddedData_TextDropsCharset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("protein negative"), 0o600))

	att, err := ingest.NewFileReader().ReadFileAsEmbeddedData(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", att.MimeType)
	assert.False(t, att.IsImage())
}

func TestSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 1234), 0o600))

	r := ingest.NewFileReader()
	n, err := r.Size(context.Background(), path)
	require.NoError(t, err)
	assert.EqualValues(t, 1234, n)

	_, err = r.Size(context.Background(), dir)
	assert.Error(t, err)

	_, err = r.Size(context.Background(), filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
