package driven

import (
	"context"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

// ChoiceHandler resolves ties between candidates for a placeholder.
type ChoiceHandler interface {
	// Choose returns the selected candidate, or nil to skip the file.
	Choose(ctx context.Context, fh *domain.FileHandle, field domain.NameTemplateField,
		candidates []domain.DataBundle) (*domain.DataBundle, error)
}

// RenameHandler executes, confirms or logs a proposed rename.
type RenameHandler interface {
	Rename(ctx context.Context, fh *domain.FileHandle, newBasename string) (domain.RenameOutcome, error)
}

// FileInspector builds FileHandles for paths.
type FileInspector interface {
	// Inspect reads the file at path.
	Inspect(path string) (*domain.FileHandle, error)

	// Collect expands path into the regular files it names.
	// Directories are descended only when recursive is set.
	Collect(path string, recursive bool) ([]string, error)
}

// CommandRunner runs external tools and returns their stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RenameConfirmer asks whether a proposed rename should go ahead.
type RenameConfirmer interface {
	Confirm(ctx context.Context, delta domain.FilenameDelta) (bool, error)
}
