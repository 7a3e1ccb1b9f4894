// Package filename provides an analyzer guessing metadata from the words
// of a basename: embedded dates, edition numbers and known publishers.
package filename

import (
	"context"
	_ "embed"
	"strings"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/providers/metainfo"
)

// Name identifies the analyzer.
const Name = "filename"

// DefaultPriority ranks the analyzer for generic lookups.
const DefaultPriority = 20

// PublisherTable is the canonical table consulted for publisher names.
const PublisherTable = "publisher"

//go:embed metainfo.yaml
var metainfoYAML []byte

var (
	prefix    = domain.MustParseURI("analyzer.filename")
	fieldMeta = metainfo.MustParse(metainfoYAML)
)

// KnownValues finds canonical values mentioned in free text.
type KnownValues interface {
	Find(table, text string) (string, bool)
}

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)

// Provider analyzes basenames.
type Provider struct {
	known KnownValues
}

// New creates a filename analyzer. known may be nil, disabling publisher lookup.
func New(known KnownValues) *Provider {
	return &Provider{known: known}
}

// Factory returns a factory for the provider registry.
func Factory(known KnownValues) driven.ProviderFactory {
	return func() (driven.Provider, error) { return New(known), nil }
}

// Name returns the analyzer identifier.
func (p *Provider) Name() string { return Name }

// URIPrefix returns the root of the analyzer's leaves.
func (p *Provider) URIPrefix() domain.DataURI { return prefix }

// Metainfo returns the leaf declarations.
func (p *Provider) Metainfo() domain.Metainfo { return fieldMeta }

// CanHandle accepts every file with a non-blank basename.
func (p *Provider) CanHandle(fh *domain.FileHandle) bool {
	return strings.TrimSpace(fh.Basename) != ""
}

// Extract analyzes the basename prefix of fh.
func (p *Provider) Extract(_ context.Context, fh *domain.FileHandle) (map[string]any, error) {
	out := make(map[string]any)

	if t, ok := FindDateTime(fh.Prefix); ok {
		out["datetime"] = t
	}
	if n, ok := FindEdition(fh.Prefix); ok {
		out["edition"] = n
	}
	if p.known != nil {
		if publisher, ok := p.known.Find(PublisherTable, fh.Prefix); ok {
			out["publisher"] = publisher
		}
	}
	if fh.Suffix != "" && fh.MIMEType != "" {
		out["extension"] = LikelyExtension(fh.Suffix, fh.MIMEType)
	}
	return out, nil
}
