// Package exiftool provides a producer reading embedded metadata through
// the external "exiftool" program.
package exiftool

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"strings"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/providers/metainfo"
)

// Name identifies the producer.
const Name = "exiftool"

// DefaultPriority ranks the producer for generic lookups.
const DefaultPriority = 80

// DefaultBinary is the program looked up when none is configured.
const DefaultBinary = "exiftool"

// ErrToolNotFound is returned by CheckAvailable when exiftool is missing.
var ErrToolNotFound = errors.New("exiftool not found in PATH")

//go:embed metainfo.yaml
var metainfoYAML []byte

var (
	prefix    = domain.MustParseURI("extractor.metadata.exiftool")
	fieldMeta = metainfo.MustParse(metainfoYAML)
)

// handledMIMETypes are globs over "type/subtype".
var handledMIMETypes = []string{
	"application/epub+zip",
	"application/msword",
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/*",
	"text/*",
	"video/*",
}

// listTags hold comma separated lists.
var listTags = map[string]bool{
	"PDF:Keywords": true,
}

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)
var _ driven.ContentProvider = (*Provider)(nil)

// Provider runs exiftool and reports the tags it knows how to type.
type Provider struct {
	runner driven.CommandRunner
	binary string
}

// New creates an exiftool provider. An empty binary means DefaultBinary.
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
		return ErrToolNotFound
	}
	return nil
}

// InstallInstructions returns a hint for installing exiftool.
func InstallInstructions() string {
	return `exiftool is required to read embedded metadata.

Install with:
  macOS:  brew install exiftool
  Ubuntu: apt install libimage-exiftool-perl
  Fedora: dnf install perl-Image-ExifTool`
}

// Name returns the producer identifier.
func (p *Provider) Name() string { return Name }

// URIPrefix returns the root of the producer's leaves.
func (p *Provider) URIPrefix() domain.DataURI { return prefix }

// Metainfo returns the leaf declarations.
func (p *Provider) Metainfo() domain.Metainfo { return fieldMeta }

// ContentDerived reports that output depends only on file content.
func (p *Provider) ContentDerived() bool { return true }

// CanHandle accepts documents, images, text and video, plus Kindle books.
func (p *Provider) CanHandle(fh *domain.FileHandle) bool {
	for _, glob := range handledMIMETypes {
		if ok, _ := path.Match(glob, fh.MIMEType); ok {
			return true
		}
	}
	return isKindleBook(fh)
}

func isKindleBook(fh *domain.FileHandle) bool {
	if fh.MIMEType != "application/octet-stream" {
		return false
	}
	switch strings.ToLower(fh.Suffix) {
	case "azw3", "azw4":
		return true
	}
	return false
}

// Extract runs exiftool on fh and returns the known, non-placeholder tags.
func (p *Provider) Extract(ctx context.Context, fh *domain.FileHandle) (map[string]any, error) {
	output, err := p.runner.Run(ctx, p.binary, "-j", "-G", "--", fh.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("run exiftool: %w", err)
	}
	tags, err := parseOutput(output)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(tags))
	for tag, value := range tags {
		if _, known := fieldMeta[tag]; !known || !keep(tag, value) {
			continue
		}
		if s, ok := value.(string); ok && listTags[tag] {
			value = splitList(s)
		}
		out[tag] = value
	}
	return out, nil
}

// parseOutput decodes the JSON array exiftool prints for a single file.
func parseOutput(output []byte) (map[string]any, error) {
	var docs []map[string]any
	if err := json.Unmarshal(output, &docs); err != nil {
		return nil, fmt.Errorf("decode exiftool output: %w", err)
	}
	if len(docs) == 0 {
		return map[string]any{}, nil
	}
	tags := docs[0]
	delete(tags, "SourceFile")
	return tags, nil
}

func splitList(s string) []any {
	var out []any
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
