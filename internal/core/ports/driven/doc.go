// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Provider: Extracts or analyses data for a file (metadata, text, filename)
//   - SessionRepository: Per-run store of extracted data bundles
//   - FileInspector: Builds FileHandles from paths
//   - RenameHandler: Performs or simulates renames
//   - ChoiceHandler: Resolves tied candidates
//   - CanonicalSource: Supplies known-value tables
//   - RulesLoader: Supplies the resolved rule configuration
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ExtractionCache: Persists raw extraction results across runs.
//   - CommandRunner: Runs external tools. Providers that need one are not registered without it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or provider package
package driven
