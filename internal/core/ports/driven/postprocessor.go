package driven

// PostProcessor rewrites a rendered basename.
// PostProcessors are chained in a pipeline (e.g., quote removal, sanitising, casing).
// Processing is purely textual and must not depend on the file or rule.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a name and returns the rewritten name.
	Process(name string) (string, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the name through all processors in order.
	Process(name string) (string, error)
}
