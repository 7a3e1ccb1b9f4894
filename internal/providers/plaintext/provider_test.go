package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Provider = (*Provider)(nil)
}

func TestCanHandle(t *testing.T) {
	p := New()
	assert.True(t, p.CanHandle(&domain.FileHandle{MIMEType: "text/plain"}))
	assert.True(t, p.CanHandle(&domain.FileHandle{MIMEType: "text/markdown"}))
	assert.False(t, p.CanHandle(&domain.FileHandle{MIMEType: "application/pdf"}))
}

func TestMetainfo(t *testing.T) {
	full, ok := New().Metainfo()["full"]
	require.True(t, ok)
	assert.Equal(t, "generic.contents.text", full.Generic.String())
}

func TestExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("\r\nMeeting Notes\r\nbody\r\n"), 0o600))

	raw, err := New().Extract(context.Background(), &domain.FileHandle{AbsPath: path, MIMEType: "text/plain"})

	require.NoError(t, err)
	assert.Equal(t, "\nMeeting Notes\nbody\n", raw["full"])
	assert.Equal(t, "Meeting Notes", raw["title"])
}

func TestExtract_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	raw, err := New().Extract(context.Background(), &domain.FileHandle{AbsPath: path})

	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestExtract_Missing(t *testing.T) {
	_, err := New().Extract(context.Background(), &domain.FileHandle{AbsPath: filepath.Join(t.TempDir(), "nope.txt")})

	assert.ErrorIs(t, err, os.ErrNotExist)
}
