package mcp

import (
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Naming proposes names and inspects files.
	Naming driving.NamingService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Naming == nil {
		return ErrMissingNamingService
	}
	return nil
}
