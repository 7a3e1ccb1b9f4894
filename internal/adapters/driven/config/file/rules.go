package file

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/goccy/go-yaml"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// DefaultRulesSource names the embedded rules in errors and logs.
const DefaultRulesSource = "<built-in rules>"

//go:embed rules.cue
var rulesSchema string

//go:embed default_rules.yaml
var defaultRules []byte

// Ensure RulesLoader implements the interface.
var _ driven.RulesLoader = (*RulesLoader)(nil)

// RulesLoader reads the naming rules from a YAML file.
// The built-in rules are used while the file does not exist.
type RulesLoader struct {
	path string
}

// NewRulesLoader creates a loader for path.
// If path is empty, defaults to ~/.autoname/rules.yaml.
func NewRulesLoader(path string) (*RulesLoader, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".autoname", "rules.yaml")
	}
	return &RulesLoader{path: path}, nil
}

// Path returns the rule file path.
func (l *RulesLoader) Path() string {
	return l.path
}

// Load reads, validates and resolves the rule file.
func (l *RulesLoader) Load(ctx context.Context) (*domain.RuleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("no rules at %s, using built-in rules", l.path)
		return DefaultRules()
	}
	if err != nil {
		return nil, &domain.ConfigError{Path: l.path, Err: err}
	}
	return ParseRules(data, l.path)
}

// DefaultRules returns the embedded rule set.
func DefaultRules() (*domain.RuleSet, error) {
	return ParseRules(defaultRules, DefaultRulesSource)
}

// DefaultRulesYAML returns the embedded rule file, e.g. for "rules init".
func DefaultRulesYAML() []byte {
	return append([]byte(nil), defaultRules...)
}

type rulesDoc struct {
	NameTemplates yaml.MapSlice `yaml:"name_templates"`
	Rules         []ruleDoc     `yaml:"rules"`
}

type ruleDoc struct {
	Description  string        `yaml:"description"`
	ExactMatch   bool          `yaml:"exact_match"`
	RankingBias  *float64      `yaml:"ranking_bias"`
	NameTemplate string        `yaml:"name_template"`
	Conditions   yaml.MapSlice `yaml:"conditions"`
	DataSources  yaml.MapSlice `yaml:"data_sources"`
}

// ParseRules decodes a rule document. source names the document in errors.
// Every failure is a *domain.ConfigError.
func ParseRules(data []byte, source string) (*domain.RuleSet, error) {
	fail := func(err error) error {
		return &domain.ConfigError{Path: source, Err: err}
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fail(fmt.Errorf("decode: %w", err))
	}
	if err := validateSchema(raw); err != nil {
		return nil, fail(err)
	}

	var doc rulesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fail(fmt.Errorf("decode: %w", err))
	}

	rs := &domain.RuleSet{Templates: make(map[string]domain.NameTemplate, len(doc.NameTemplates))}
	for _, item := range doc.NameTemplates {
		name := fmt.Sprint(item.Key)
		tmpl, err := domain.ParseNameTemplate(name, fmt.Sprint(item.Value))
		if err != nil {
			return nil, fail(fmt.Errorf("name template %q: %w", name, err))
		}
		rs.Templates[name] = tmpl
	}

	for i, rd := range doc.Rules {
		rule, err := rd.toDomain(rs.Templates)
		if err != nil {
			return nil, fail(fmt.Errorf("rule %d (%s): %w", i+1, rd.Description, err))
		}
		rs.Rules = append(rs.Rules, rule)
	}
	return rs, nil
}

// validateSchema unifies the decoded document with the #Config definition.
func validateSchema(doc any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(rulesSchema, cue.Filename("rules.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema: %s", strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

func (rd ruleDoc) toDomain(templates map[string]domain.NameTemplate) (*domain.Rule, error) {
	rule := &domain.Rule{
		Description: rd.Description,
		ExactMatch:  rd.ExactMatch,
		RankingBias: domain.DefaultRankingBias,
	}
	if rd.RankingBias != nil {
		rule.RankingBias = *rd.RankingBias
	}

	tmpl, ok := templates[rd.NameTemplate]
	switch {
	case ok:
		rule.TemplateName = rd.NameTemplate
		rule.Template = tmpl
	case strings.Contains(rd.NameTemplate, "{"):
		parsed, err := domain.ParseNameTemplate("", rd.NameTemplate)
		if err != nil {
			return nil, err
		}
		rule.Template = parsed
	default:
		return nil, fmt.Errorf("unknown name template %q: %w", rd.NameTemplate, domain.ErrInvalidInput)
	}

	for _, item := range rd.Conditions {
		uri, err := domain.ParseURI(fmt.Sprint(item.Key))
		if err != nil {
			return nil, err
		}
		expr := ""
		if item.Value != nil {
			expr = fmt.Sprint(item.Value)
		}
		if err := domain.ValidateExpression(expr); err != nil {
			return nil, fmt.Errorf("condition %s: %w", uri, err)
		}
		rule.Conditions = append(rule.Conditions, domain.RuleCondition{URI: uri, Expression: expr})
	}

	for _, item := range rd.DataSources {
		field, err := domain.ParseField(fmt.Sprint(item.Key))
		if err != nil {
			return nil, err
		}
		ds := domain.DataSource{Field: field}
		for _, s := range stringList(item.Value) {
			uri, err := domain.ParseURI(s)
			if err != nil {
				return nil, fmt.Errorf("data source %s: %w", field.Placeholder(), err)
			}
			ds.URIs = append(ds.URIs, uri)
		}
		rule.DataSources = append(rule.DataSources, ds)
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

func stringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, fmt.Sprint(e))
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}
