package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

//go:embed canonical/*.yaml
var builtinTables embed.FS

// Ensure CanonicalSource implements the interface.
var _ driven.CanonicalSource = (*CanonicalSource)(nil)

// CanonicalSource loads known-value tables named <table>.yaml.
// Directories are searched in order before the built-in tables.
type CanonicalSource struct {
	dirs []string
}

// NewCanonicalSource creates a source searching dirs.
func NewCanonicalSource(dirs ...string) *CanonicalSource {
	return &CanonicalSource{dirs: dirs}
}

// Load returns the table for name, or domain.ErrNotFound.
func (s *CanonicalSource) Load(name string) (*domain.CanonicalTable, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("canonical table %q: %w", name, domain.ErrInvalidInput)
	}
	file := name + ".yaml"

	for _, dir := range s.dirs {
		path := filepath.Join(dir, file)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &domain.ConfigError{Path: path, Err: err}
		}
		logger.Debug("canonical table %s from %s", name, path)
		return ParseCanonicalTable(name, data, path)
	}

	data, err := builtinTables.ReadFile("canonical/" + file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("canonical table %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return ParseCanonicalTable(name, data, "<built-in "+file+">")
}

// Tables lists the table names available from every location.
func (s *CanonicalSource) Tables() []string {
	seen := make(map[string]bool)
	add := func(file string) {
		if name, ok := strings.CutSuffix(file, ".yaml"); ok {
			seen[name] = true
		}
	}

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				add(e.Name())
			}
		}
	}
	if entries, err := builtinTables.ReadDir("canonical"); err == nil {
		for _, e := range entries {
			add(e.Name())
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type formDoc struct {
	Literals []string `yaml:"match_any_literal"`
	Patterns []string `yaml:"match_any_regex_ignorecase"`
}

// ParseCanonicalTable decodes a table, keeping the forms in file order.
// Invalid patterns are logged and skipped.
func ParseCanonicalTable(name string, data []byte, source string) (*domain.CanonicalTable, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &domain.ConfigError{Path: source, Err: fmt.Errorf("decode: %w", err)}
	}

	table := &domain.CanonicalTable{Name: name}
	for _, item := range doc {
		canonical := fmt.Sprint(item.Key)

		var fd formDoc
		if item.Value != nil {
			raw, err := yaml.Marshal(item.Value)
			if err != nil {
				return nil, &domain.ConfigError{Path: source, Err: err}
			}
			if err := yaml.Unmarshal(raw, &fd); err != nil {
				return nil, &domain.ConfigError{Path: source, Err: fmt.Errorf("form %q: %w", canonical, err)}
			}
		}

		form := domain.CanonicalForm{Canonical: canonical, Literals: fd.Literals}
		for _, p := range fd.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				logger.Warn("%s: form %q: skipping pattern %q: %v", source, canonical, p, err)
				continue
			}
			form.Patterns = append(form.Patterns, re)
		}
		table.Forms = append(table.Forms, form)
	}
	return table, nil
}
