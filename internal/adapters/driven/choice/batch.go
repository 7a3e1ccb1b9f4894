// Package choice provides non-interactive choice handlers.
package choice

import (
	"context"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// Ensure Batch implements the interface.
var _ driven.ChoiceHandler = (*Batch)(nil)

// Batch never picks between tied candidates; the file is skipped.
type Batch struct{}

// NewBatch creates a batch choice handler.
func NewBatch() *Batch {
	return &Batch{}
}

// Choose always skips.
func (b *Batch) Choose(_ context.Context, fh *domain.FileHandle, field domain.NameTemplateField,
	candidates []domain.DataBundle) (*domain.DataBundle, error) {
	logger.Debug("%s: %d tied candidates for %s, skipping", fh.Basename, len(candidates), field)
	return nil, nil
}
