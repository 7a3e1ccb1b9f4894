// Package disk provides the local filesystem adapters: the file inspector
// that builds FileHandles and the renamer that applies new basenames.
package disk
