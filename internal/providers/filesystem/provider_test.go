package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
)

func handleFor(t *testing.T, path, mimeType string) *domain.FileHandle {
	t.Helper()
	base := filepath.Base(path)
	prefix, suffix := domain.SplitBasename(base)
	return &domain.FileHandle{AbsPath: path, Basename: base, Prefix: prefix, Suffix: suffix, MIMEType: mimeType, Size: 5}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Provider = (*Provider)(nil)
}

func TestMetainfo(t *testing.T) {
	p := New()
	assert.Equal(t, Name, p.Name())
	assert.Equal(t, "extractor.filesystem.xplat", p.URIPrefix().String())

	ext, ok := p.Metainfo()["basename.extension"]
	require.True(t, ok)
	assert.Equal(t, domain.PathComponentCoercer, ext.Coercer)
	assert.Equal(t, "generic.filesystem.extension", ext.Generic.String())
	assert.Equal(t, []domain.WeightedFieldMapping{{Field: domain.FieldExtension, Weight: 1}}, ext.MappedFields)
}

func TestCanHandle(t *testing.T) {
	p := New()
	assert.True(t, p.CanHandle(&domain.FileHandle{Basename: "a.txt"}))
	assert.False(t, p.CanHandle(&domain.FileHandle{Basename: "  "}))
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	raw, err := New().Extract(context.Background(), handleFor(t, path, "application/gzip"))

	require.NoError(t, err)
	assert.Equal(t, path, raw["abspath.full"])
	assert.Equal(t, "report.tar.gz", raw["basename.full"])
	assert.Equal(t, "report", raw["basename.prefix"])
	assert.Equal(t, "tar.gz", raw["basename.suffix"])
	assert.Equal(t, "tar.gz", raw["basename.extension"])
	assert.Equal(t, dir, raw["pathname.full"])
	assert.Equal(t, "application/gzip", raw["contents.mime_type"])
	assert.Equal(t, int64(5), raw["contents.size"])
	assert.True(t, mtime.Equal(raw["date_modified"].(time.Time)))
}

func TestExtract_NoSuffix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".bashrc")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	raw, err := New().Extract(context.Background(), handleFor(t, path, ""))

	require.NoError(t, err)
	assert.NotContains(t, raw, "basename.extension")
	assert.NotContains(t, raw, "contents.mime_type")
	assert.Equal(t, ".bashrc", raw["basename.prefix"])
}

func TestExtract_StatError(t *testing.T) {
	p := &Provider{stat: func(string) (os.FileInfo, error) { return nil, errors.New("gone") }}

	_, err := p.Extract(context.Background(), handleFor(t, "/nowhere/a.txt", "text/plain"))

	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name     string
		suffix   string
		mimeType string
		want     string
	}{
		{"known suffix", "PDF", "application/pdf", "pdf"},
		{"unknown suffix uses mime", "bin4", "application/pdf", "pdf"},
		{"unknown suffix and mime", "bin4", "", "bin4"},
		{"compound suffix kept", "tar.gz", "application/gzip", "tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extension(&domain.FileHandle{Suffix: tt.suffix, MIMEType: tt.mimeType}))
		})
	}
}
