package mcp

import (
	"context"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

// ProposeInput is the input schema for the propose_name tool.
type ProposeInput struct {
	Path string `json:"path" jsonschema:"absolute path of the file to name"`
}

// ProposeOutput is the output schema for the propose_name tool.
type ProposeOutput struct {
	Path        string  `json:"path"`
	Result      string  `json:"result"`
	NewBasename string  `json:"new_basename,omitempty"`
	NewPath     string  `json:"new_path,omitempty"`
	Rule        string  `json:"rule,omitempty"`
	Score       float64 `json:"score,omitempty"`
	Coverage    float64 `json:"coverage,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// InspectInput is the input schema for the inspect_file tool.
type InspectInput struct {
	Path string `json:"path" jsonschema:"absolute path of the file to inspect"`
}

// InspectOutput is the output schema for the inspect_file tool.
type InspectOutput struct {
	Data  []DatumOutput `json:"data"`
	Count int           `json:"count"`
}

// DatumOutput is one extracted value.
type DatumOutput struct {
	URI    string             `json:"uri"`
	Value  string             `json:"value"`
	Type   string             `json:"type"`
	Source string             `json:"source"`
	Fields map[string]float64 `json:"fields,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "propose_name",
		Description: "Propose a new filename for a file from its metadata and contents, without renaming it",
	}, s.handlePropose)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "inspect_file",
		Description: "List every datum autoname extracts from a file",
	}, s.handleInspect)
}

// handlePropose handles the propose_name tool invocation.
func (s *Server) handlePropose(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProposeInput,
) (*mcp.CallToolResult, ProposeOutput, error) {
	if input.Path == "" {
		return nil, ProposeOutput{}, fmt.Errorf("path is required: %w", domain.ErrInvalidInput)
	}

	res := s.ports.Naming.Propose(ctx, input.Path, domain.RunOptions{})
	if err := ctx.Err(); err != nil {
		return nil, ProposeOutput{}, err
	}

	output := ProposeOutput{
		Path:     res.Path,
		Result:   string(res.Kind),
		Rule:     res.Rule,
		Score:    res.Score,
		Coverage: res.Coverage,
		Reason:   res.Reason,
	}
	if res.Delta != nil {
		output.NewBasename = res.Delta.NewBasename
		output.NewPath = res.Delta.NewPath()
	}
	if res.Err != nil && output.Reason == "" {
		output.Reason = res.Err.Error()
	}
	return nil, output, nil
}

// handleInspect handles the inspect_file tool invocation.
func (s *Server) handleInspect(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InspectInput,
) (*mcp.CallToolResult, InspectOutput, error) {
	if input.Path == "" {
		return nil, InspectOutput{}, fmt.Errorf("path is required: %w", domain.ErrInvalidInput)
	}

	bundles, err := s.ports.Naming.Inspect(ctx, input.Path)
	if err != nil {
		return nil, InspectOutput{}, err
	}

	output := InspectOutput{
		Data:  make([]DatumOutput, 0, len(bundles)),
		Count: len(bundles),
	}
	for i := range bundles {
		output.Data = append(output.Data, datumOutput(&bundles[i]))
	}
	sort.Slice(output.Data, func(i, j int) bool { return output.Data[i].URI < output.Data[j].URI })

	return nil, output, nil
}

func datumOutput(b *domain.DataBundle) DatumOutput {
	value, err := b.Format()
	if err != nil {
		value = fmt.Sprint(b.Value)
	}
	d := DatumOutput{
		URI:    b.URI.String(),
		Value:  value,
		Type:   b.Coercer.Name(),
		Source: b.Source,
	}
	if len(b.MappedFields) > 0 {
		d.Fields = make(map[string]float64, len(b.MappedFields))
		for _, m := range b.MappedFields {
			d.Fields[m.Field.Placeholder()] = m.Weight
		}
	}
	return d
}
