// Package mcp provides an MCP (Model Context Protocol) server adapter for autoname.
// It lets AI assistants ask what a file would be renamed to and why.
package mcp

import "errors"

// ErrMissingNamingService is returned when the naming service is not provided.
var ErrMissingNamingService = errors.New("mcp: naming service is required")
