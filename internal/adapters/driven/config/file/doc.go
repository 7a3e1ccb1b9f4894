// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based settings storage
//   - RulesLoader: YAML rule file validated against a CUE schema
//   - CanonicalSource: YAML known-value tables
//   - Watcher: fsnotify-based change notification for the rule file
package file
