// Package providers wires the built-in producers into a provider registry.
package providers

import (
	"fmt"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/core/services"
	"github.com/custodia-labs/autoname-cli/internal/logger"
	"github.com/custodia-labs/autoname-cli/internal/providers/exiftool"
	"github.com/custodia-labs/autoname-cli/internal/providers/filename"
	"github.com/custodia-labs/autoname-cli/internal/providers/filesystem"
	"github.com/custodia-labs/autoname-cli/internal/providers/filetags"
	"github.com/custodia-labs/autoname-cli/internal/providers/pdftotext"
	"github.com/custodia-labs/autoname-cli/internal/providers/plaintext"
)

// Builtin describes one built-in producer.
type Builtin struct {
	Name     string
	Priority int
	Factory  driven.ProviderFactory

	// Check reports whether external requirements are met. Nil means none.
	Check func() error

	// Install describes how to satisfy Check.
	Install string
}

// Options configures the built-in producers.
type Options struct {
	Runner   driven.CommandRunner
	Known    filename.KnownValues
	Settings domain.Settings

	// CheckTools skips producers whose external program is missing.
	CheckTools bool
}

// Builtins returns the built-in producers with their effective priorities.
func Builtins(opts Options) []Builtin {
	exiftoolPath := opts.Settings.ExiftoolPath
	pdftotextPath := opts.Settings.PdftotextPath

	builtins := []Builtin{
		{
			Name:     exiftool.Name,
			Priority: exiftool.DefaultPriority,
			Factory:  exiftool.Factory(opts.Runner, exiftoolPath),
			Check:    func() error { return exiftool.CheckAvailable(exiftoolPath) },
			Install:  exiftool.InstallInstructions(),
		},
		{Name: filetags.Name, Priority: filetags.DefaultPriority, Factory: filetags.Factory()},
		{Name: filesystem.Name, Priority: filesystem.DefaultPriority, Factory: filesystem.Factory()},
		{
			Name:     pdftotext.Name,
			Priority: pdftotext.DefaultPriority,
			Factory:  pdftotext.Factory(opts.Runner, pdftotextPath),
			Check:    func() error { return pdftotext.CheckAvailable(pdftotextPath) },
			Install:  pdftotext.InstallInstructions(),
		},
		{Name: plaintext.Name, Priority: plaintext.DefaultPriority, Factory: plaintext.Factory()},
		{Name: filename.Name, Priority: filename.DefaultPriority, Factory: filename.Factory(opts.Known)},
	}

	for i := range builtins {
		if p, ok := opts.Settings.ProviderPriority[builtins[i].Name]; ok {
			builtins[i].Priority = p
		}
	}
	return builtins
}

// Register adds the built-in producers to registry and returns the names
// of those that were registered.
func Register(registry *services.ProviderRegistry, opts Options) ([]string, error) {
	var registered []string
	for _, b := range Builtins(opts) {
		if opts.CheckTools && b.Check != nil {
			if err := b.Check(); err != nil {
				logger.Warn("%s unavailable: %v", b.Name, err)
				logger.Debug("%s", b.Install)
				continue
			}
		}
		if err := registry.Register(b.Factory, b.Priority); err != nil {
			return registered, fmt.Errorf("register %s: %w", b.Name, err)
		}
		registered = append(registered, b.Name)
	}
	return registered, nil
}
