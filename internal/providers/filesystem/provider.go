// Package filesystem provides the cross-platform filesystem producer.
// It reports path parts, MIME type, size and timestamps for any file.
package filesystem

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/providers/metainfo"
)

// Name identifies the producer.
const Name = "xplat"

// DefaultPriority ranks the producer for generic lookups.
const DefaultPriority = 50

//go:embed metainfo.yaml
var metainfoYAML []byte

var (
	prefix    = domain.MustParseURI("extractor.filesystem.xplat")
	fieldMeta = metainfo.MustParse(metainfoYAML)
)

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)

// Provider reads filesystem attributes.
type Provider struct {
	stat func(name string) (os.FileInfo, error)
}

// New creates a filesystem provider.
func New() *Provider {
	return &Provider{stat: os.Stat}
}

// Factory returns a factory for the provider registry.
func Factory() driven.ProviderFactory {
	return func() (driven.Provider, error) { return New(), nil }
}

// Name returns the producer identifier.
func (p *Provider) Name() string { return Name }

// URIPrefix returns the root of the producer's leaves.
func (p *Provider) URIPrefix() domain.DataURI { return prefix }

// Metainfo returns the leaf declarations.
func (p *Provider) Metainfo() domain.Metainfo { return fieldMeta }

// CanHandle accepts every file with a non-blank basename.
func (p *Provider) CanHandle(fh *domain.FileHandle) bool {
	return strings.TrimSpace(fh.Basename) != ""
}

// Extract returns the filesystem attributes of fh.
func (p *Provider) Extract(_ context.Context, fh *domain.FileHandle) (map[string]any, error) {
	out := map[string]any{
		"abspath.full":    fh.AbsPath,
		"basename.full":   fh.Basename,
		"pathname.full":   filepath.Dir(fh.AbsPath),
		"pathname.parent": filepath.Base(filepath.Dir(fh.AbsPath)),
		"contents.size":   fh.Size,
	}
	if fh.Prefix != "" {
		out["basename.prefix"] = fh.Prefix
	}
	if fh.Suffix != "" {
		out["basename.suffix"] = fh.Suffix
		out["basename.extension"] = extension(fh)
	}
	if fh.MIMEType != "" {
		out["contents.mime_type"] = fh.MIMEType
	}

	info, err := p.stat(fh.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", fh.AbsPath, err)
	}
	out["date_modified"] = info.ModTime().Truncate(time.Second)
	if atime, ok := accessTime(info); ok {
		out["date_accessed"] = atime.Truncate(time.Second)
	}
	return out, nil
}

// extension returns the lowercased suffix, or the conventional extension
// for the detected MIME type when a simple suffix is not a known one.
func extension(fh *domain.FileHandle) string {
	suffix := strings.ToLower(fh.Suffix)
	if strings.Contains(suffix, ".") || fh.MIMEType == "" {
		return suffix
	}
	if _, known := domain.MIMETypeForExtension(suffix); known {
		return suffix
	}
	if ext, ok := domain.ExtensionForMIMEType(fh.MIMEType); ok {
		return ext
	}
	return suffix
}
