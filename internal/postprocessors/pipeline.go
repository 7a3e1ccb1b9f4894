// Package postprocessors provides the clean-up applied to rendered names.
package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline chains multiple PostProcessors and runs them in order.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the name through all processors in order.
func (p *Pipeline) Process(name string) (string, error) {
	for _, processor := range p.processors {
		next, err := processor.Process(name)
		if err != nil {
			return "", fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
		if next != name {
			logger.Debug("%s: %q -> %q", processor.Name(), name, next)
		}
		name = next
	}
	return name, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns the processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}
