package choice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

func TestBatch_Choose(t *testing.T) {
	fh := &domain.FileHandle{AbsPath: "/tmp/a.txt", Basename: "a.txt"}
	candidates := []domain.DataBundle{{Value: "A"}, {Value: "B"}}

	got, err := NewBatch().Choose(context.Background(), fh, domain.FieldTitle, candidates)

	require.NoError(t, err)
	assert.Nil(t, got)
}
