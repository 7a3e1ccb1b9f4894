package disk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// ErrDestinationExists indicates the new name is taken by another file.
var ErrDestinationExists = errors.New("destination exists")

// Ensure Renamer implements the interface.
var _ driven.RenameHandler = (*Renamer)(nil)

// Renamer renames files in place, never overwriting another file.
type Renamer struct {
	confirm driven.RenameConfirmer
}

// NewRenamer creates a renamer. When confirm is non-nil every rename
// is confirmed first.
func NewRenamer(confirm driven.RenameConfirmer) *Renamer {
	return &Renamer{confirm: confirm}
}

// Rename gives fh the basename newBasename within its directory.
func (r *Renamer) Rename(ctx context.Context, fh *domain.FileHandle, newBasename string) (domain.RenameOutcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.RenameIOFailure, err
	}
	if err := validBasename(newBasename); err != nil {
		return domain.RenameIOFailure, err
	}

	delta := domain.FilenameDelta{OldPath: fh.AbsPath, NewBasename: newBasename}
	if r.confirm != nil {
		ok, err := r.confirm.Confirm(ctx, delta)
		if err != nil {
			return domain.RenameIOFailure, fmt.Errorf("confirm: %w", err)
		}
		if !ok {
			logger.Debug("rename of %s declined", fh.Basename)
			return domain.RenameDeclined, nil
		}
	}

	dest := delta.NewPath()
	taken, err := occupied(fh.AbsPath, dest)
	if err != nil {
		return domain.RenameIOFailure, err
	}
	if taken {
		return domain.RenameConflict, fmt.Errorf("%s: %w", dest, ErrDestinationExists)
	}

	if err := os.Rename(fh.AbsPath, dest); err != nil {
		return domain.RenameIOFailure, fmt.Errorf("rename %s: %w", fh.AbsPath, err)
	}
	logger.Info("renamed %q -> %q", fh.Basename, newBasename)
	return domain.RenameDone, nil
}

func validBasename(name string) error {
	switch {
	case strings.TrimSpace(name) == "", name == ".", name == "..":
		return fmt.Errorf("invalid basename %q: %w", name, domain.ErrInvalidInput)
	case strings.ContainsRune(name, '/'), strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("basename %q contains a path separator: %w", name, domain.ErrInvalidInput)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("basename %q contains NUL: %w", name, domain.ErrInvalidInput)
	}
	return nil
}

// occupied reports whether dest names a file other than src. On
// case-insensitive filesystems a case-only rename resolves to src itself.
func occupied(src, dest string) (bool, error) {
	destInfo, err := os.Lstat(dest)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	srcInfo, err := os.Lstat(src)
	if err != nil {
		return false, err
	}
	return !os.SameFile(srcInfo, destInfo), nil
}
