// Package filetags provides a producer for basenames following the
// "filetags" naming convention:
//
//	20160722 Descriptive name -- firsttag tagtwo.txt
//	|______| |______________|    |_____________| |_|
//	timestamp  description            tags       ext
package filetags

import (
	"context"
	_ "embed"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/providers/metainfo"
)

// Name identifies the producer.
const Name = "filetags"

// DefaultPriority ranks the producer for generic lookups.
const DefaultPriority = 70

const (
	tagSeparator     = " -- "
	betweenTagsSplit = " "
)

var timestampPattern = regexp.MustCompile(
	`^[12]\d{3}[:\-._ ]?[01]\d[:\-._ ]?[0123]\d` +
		`([T_ -]?[012]\d[:\-._ T]?[0-5]\d[:\-._ T]?[0-5]\d(\.[0-5]\d)?)?`,
)

//go:embed metainfo.yaml
var metainfoYAML []byte

var (
	prefix    = domain.MustParseURI("extractor.filesystem.filetags")
	fieldMeta = metainfo.MustParse(metainfoYAML)
)

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)

// Parts are the components of a filetags basename.
type Parts struct {
	Timestamp   string
	Description string
	Tags        []string
	Extension   string
}

// FollowsConvention reports whether timestamp, description and tags are all present.
func (p Parts) FollowsConvention() bool {
	return p.Timestamp != "" && p.Description != "" && len(p.Tags) > 0
}

// Partition splits a basename into its filetags parts.
func Partition(basename string) Parts {
	stem, suffix := domain.SplitBasename(basename)
	parts := Parts{Extension: suffix}

	if ts := timestampPattern.FindString(stem); ts != "" {
		parts.Timestamp = ts
		stem = strings.TrimPrefix(stem, ts)
	}

	description, tagList, found := strings.Cut(stem, tagSeparator)
	parts.Description = strings.TrimSpace(description)
	if found {
		for _, tag := range strings.Split(tagList, betweenTagsSplit) {
			if tag = strings.TrimSpace(tag); tag != "" {
				parts.Tags = append(parts.Tags, tag)
			}
		}
	}
	return parts
}

// Provider extracts filetags parts from basenames.
type Provider struct{}

// New creates a filetags provider.
func New() *Provider {
	return &Provider{}
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

// Extract partitions the basename of fh. Tags are sorted. The description
// is only reported for basenames carrying a timestamp or tags; otherwise
// it is just the prefix.
func (p *Provider) Extract(_ context.Context, fh *domain.FileHandle) (map[string]any, error) {
	parts := Partition(fh.Basename)

	out := map[string]any{
		"follows_filetags_convention": parts.FollowsConvention(),
	}
	if parts.Timestamp != "" {
		out["datetime"] = parts.Timestamp
	}
	if parts.Description != "" && (parts.Timestamp != "" || len(parts.Tags) > 0) {
		out["description"] = parts.Description
	}
	if len(parts.Tags) > 0 {
		tags := append([]string(nil), parts.Tags...)
		sort.Strings(tags)
		list := make([]any, len(tags))
		for i, t := range tags {
			list[i] = t
		}
		out["tags"] = list
	}
	if parts.Extension != "" {
		out["extension"] = parts.Extension
	}
	return out, nil
}
