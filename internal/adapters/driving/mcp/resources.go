package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for autoname resources.
	uriScheme = "autoname://"
)

// ruleInfo is the JSON form of a rule.
type ruleInfo struct {
	Index        int                 `json:"index"`
	Description  string              `json:"description"`
	ExactMatch   bool                `json:"exact_match"`
	RankingBias  float64             `json:"ranking_bias"`
	NameTemplate string              `json:"name_template"`
	Conditions   map[string]string   `json:"conditions,omitempty"`
	DataSources  map[string][]string `json:"data_sources,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "rules",
		Name:        "rules",
		Description: "The loaded naming rules",
		MIMEType:    "application/json",
	}, s.handleRulesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "templates",
		Name:        "templates",
		Description: "Named filename templates referenced by the rules",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "rules/{index}",
		Name:        "rule",
		Description: "A single naming rule by position",
		MIMEType:    "application/json",
	}, s.handleRuleResource)
}

// handleRulesResource returns every loaded rule.
func (s *Server) handleRulesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	rs, err := s.rules(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]ruleInfo, len(rs.Rules))
	for i, r := range rs.Rules {
		infos[i] = newRuleInfo(i, r)
	}
	return jsonResult(req.Params.URI, infos)
}

// handleTemplatesResource returns the named templates.
func (s *Server) handleTemplatesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	rs, err := s.rules(ctx)
	if err != nil {
		return nil, err
	}

	templates := make(map[string]string, len(rs.Templates))
	for name, t := range rs.Templates {
		templates[name] = t.Format
	}
	return jsonResult(req.Params.URI, templates)
}

// handleRuleResource returns one rule.
func (s *Server) handleRuleResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	index, ok := extractRuleIndex(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rs, err := s.rules(ctx)
	if err != nil {
		return nil, err
	}
	if index >= len(rs.Rules) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, newRuleInfo(index, rs.Rules[index]))
}

// rules returns the loaded rules, loading them on first use.
func (s *Server) rules(ctx context.Context) (*domain.RuleSet, error) {
	if rs := s.ports.Naming.Rules(); rs != nil {
		return rs, nil
	}
	if err := s.ports.Naming.Reload(ctx); err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	return s.ports.Naming.Rules(), nil
}

func newRuleInfo(index int, r *domain.Rule) ruleInfo {
	info := ruleInfo{
		Index:        index,
		Description:  r.Description,
		ExactMatch:   r.ExactMatch,
		RankingBias:  r.RankingBias,
		NameTemplate: r.Template.Format,
	}
	if len(r.Conditions) > 0 {
		info.Conditions = make(map[string]string, len(r.Conditions))
		for _, c := range r.Conditions {
			info.Conditions[c.URI.String()] = c.Expression
		}
	}
	if len(r.DataSources) > 0 {
		info.DataSources = make(map[string][]string, len(r.DataSources))
		for _, ds := range r.DataSources {
			uris := make([]string, len(ds.URIs))
			for i, u := range ds.URIs {
				uris[i] = u.String()
			}
			sort.Strings(uris)
			info.DataSources[ds.Field.Placeholder()] = uris
		}
	}
	return info
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRuleIndex extracts the index from a URI like autoname://rules/{index}.
func extractRuleIndex(uri string) (int, bool) {
	const prefix = uriScheme + "rules/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
