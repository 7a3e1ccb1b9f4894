// Package plaintext provides a producer reading the contents of text files.
package plaintext

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/providers/metainfo"
	"github.com/custodia-labs/autoname-cli/internal/providers/textual"
)

// Name identifies the producer.
const Name = "plaintext"

// DefaultPriority ranks the producer for generic lookups.
const DefaultPriority = 30

// MaxBytes is the amount of content read from each file.
const MaxBytes = 1 << 20

//go:embed metainfo.yaml
var metainfoYAML []byte

var (
	prefix    = domain.MustParseURI("extractor.text.plain")
	fieldMeta = metainfo.MustParse(metainfoYAML)
)

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)
var _ driven.ContentProvider = (*Provider)(nil)

// Provider reads text files.
type Provider struct {
	open func(name string) (io.ReadCloser, error)
}

// New creates a plaintext provider.
func New() *Provider {
	return &Provider{open: func(name string) (io.ReadCloser, error) { return os.Open(name) }}
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

// ContentDerived reports that output depends only on file content.
func (p *Provider) ContentDerived() bool { return true }

// CanHandle accepts text/* files.
func (p *Provider) CanHandle(fh *domain.FileHandle) bool {
	return strings.HasPrefix(fh.MIMEType, "text/")
}

// Extract reads up to MaxBytes of the file.
func (p *Provider) Extract(_ context.Context, fh *domain.FileHandle) (map[string]any, error) {
	f, err := p.open(fh.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.AbsPath, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.AbsPath, err)
	}

	text := textual.Clean(string(data))
	if strings.TrimSpace(text) == "" {
		return map[string]any{}, nil
	}
	out := map[string]any{"full": text}
	if title := textual.Title(text); title != "" {
		out["title"] = title
	}
	return out, nil
}
