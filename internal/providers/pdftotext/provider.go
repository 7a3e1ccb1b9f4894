// Package pdftotext provides a producer extracting the text of PDF
// documents through the external "pdftotext" program (poppler-utils).
package pdftotext

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/providers/metainfo"
	"github.com/custodia-labs/autoname-cli/internal/providers/textual"
)

// Name identifies the producer.
const Name = "pdftotext"

// DefaultPriority ranks the producer for generic lookups.
const DefaultPriority = 40

// DefaultBinary is the program looked up when none is configured.
const DefaultBinary = "pdftotext"

// ErrPDFToolNotFound is returned by CheckAvailable when pdftotext is missing.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

//go:embed metainfo.yaml
var metainfoYAML []byte

var (
	prefix    = domain.MustParseURI("extractor.text.pdftotext")
	fieldMeta = metainfo.MustParse(metainfoYAML)
)

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)
var _ driven.ContentProvider = (*Provider)(nil)

// Provider extracts text from PDF files.
type Provider struct {
	runner driven.CommandRunner
	binary string
}

// New creates a pdftotext provider. An empty binary means DefaultBinary.
func New(runner driven.CommandRunner, binary string) *Provider {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Provider{runner: runner, binary: binary}
}

// Factory returns a factory for the provider registry.
func Factory(runner driven.CommandRunner, binary string) driven.ProviderFactory {
	return func() (driven.Provider, error) { return New(runner, binary), nil }
}

// CheckAvailable reports whether binary can be found.
func CheckAvailable(binary string) error {
	if binary == "" {
		binary = DefaultBinary
	}
	if _, err := exec.LookPath(binary); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns a hint for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required to read the text of PDF files.

Install with:
  macOS:  brew install poppler
  Ubuntu: apt install poppler-utils
  Fedora: dnf install poppler-utils`
}

// Name returns the producer identifier.
func (p *Provider) Name() string { return Name }

// URIPrefix returns the root of the producer's leaves.
func (p *Provider) URIPrefix() domain.DataURI { return prefix }

// Metainfo returns the leaf declarations.
func (p *Provider) Metainfo() domain.Metainfo { return fieldMeta }

// ContentDerived reports that output depends only on file content.
func (p *Provider) ContentDerived() bool { return true }

// CanHandle accepts PDF documents.
func (p *Provider) CanHandle(fh *domain.FileHandle) bool {
	return fh.MIMEType == "application/pdf"
}

// Extract returns the document text and a title guessed from its first line.
func (p *Provider) Extract(ctx context.Context, fh *domain.FileHandle) (map[string]any, error) {
	output, err := p.runner.Run(ctx, p.binary, "-q", "-nopgbrk", "-enc", "UTF-8", fh.AbsPath, "-")
	if err != nil {
		return nil, fmt.Errorf("run pdftotext: %w", err)
	}

	text := textual.Clean(string(output))
	if strings.TrimSpace(text) == "" {
		return map[string]any{}, nil
	}
	out := map[string]any{"full": text}
	if title := textual.Title(text); title != "" {
		out["title"] = title
	}
	return out, nil
}
