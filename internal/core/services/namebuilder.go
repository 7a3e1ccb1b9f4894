package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
)

var quoteStripper = strings.NewReplacer(`"`, "", "'", "")

// NameBuilder renders templates and runs the post-processing pipeline.
type NameBuilder struct {
	pipeline driven.PostProcessorPipeline
}

// NewNameBuilder creates a builder. A nil pipeline only strips quotes.
func NewNameBuilder(pipeline driven.PostProcessorPipeline) *NameBuilder {
	return &NameBuilder{pipeline: pipeline}
}

// Build substitutes values into tmpl and post-processes the result.
// Quote characters never survive.
func (b *NameBuilder) Build(tmpl domain.NameTemplate, values map[domain.NameTemplateField]string) (string, error) {
	rendered, err := tmpl.Render(values)
	if err != nil {
		return "", err
	}

	name := quoteStripper.Replace(rendered)
	if b.pipeline != nil {
		name, err = b.pipeline.Process(name)
		if err != nil {
			return "", fmt.Errorf("post-processing %q: %w", rendered, err)
		}
		name = quoteStripper.Replace(name)
	}

	if strings.TrimSpace(name) == "" {
		return "", &domain.TemplateError{Template: tmpl.Format, Reason: "rendered an empty name"}
	}
	return name, nil
}

// FormatDelta renders a rename as two aligned lines with the changed
// span of each name in brackets.
func FormatDelta(d domain.FilenameDelta) string {
	oldName := filepath.Base(d.OldPath)
	if d.Unchanged() {
		return fmt.Sprintf("  %s (unchanged)", oldName)
	}

	prefix, oldMiddle, newMiddle, suffix := d.Span()
	return fmt.Sprintf("- %s[%s]%s\n+ %s[%s]%s", prefix, oldMiddle, suffix, prefix, newMiddle, suffix)
}
