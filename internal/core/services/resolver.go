package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// ResolveOptions controls how ties are handled.
type ResolveOptions struct {
	// Interactive hands tied candidates to Choice instead of failing.
	Interactive bool
	Choice      driven.ChoiceHandler
}

// FieldResolver fills template placeholders from the data available for a file.
// It only reads from the session repository.
type FieldResolver struct {
	master        *MasterProvider
	canonicalizer *Canonicalizer
	policy        domain.MultivaluedPolicy
}

// NewFieldResolver creates a resolver. canonicalizer may be nil.
func NewFieldResolver(master *MasterProvider, canonicalizer *Canonicalizer, policy domain.MultivaluedPolicy) *FieldResolver {
	if !policy.IsValid() {
		policy = domain.MultivaluedDrop
	}
	return &FieldResolver{master: master, canonicalizer: canonicalizer, policy: policy}
}

// Resolve returns the formatted value of every placeholder in the rule's template.
// Missing data yields *domain.UnresolvedFieldError, ties in batch mode
// *domain.AmbiguousFieldError, and a declined choice domain.ErrSkipped.
func (r *FieldResolver) Resolve(ctx context.Context, fh *domain.FileHandle, rule *domain.Rule,
	opts ResolveOptions) (map[domain.NameTemplateField]string, error) {
	values := make(map[domain.NameTemplateField]string)
	for _, field := range rule.Template.Placeholders() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, done := values[field]; done {
			continue
		}
		v, err := r.ResolveField(ctx, fh, rule, field, opts)
		if err != nil {
			return nil, err
		}
		values[field] = v
	}
	return values, nil
}

// ResolveField resolves a single placeholder.
func (r *FieldResolver) ResolveField(ctx context.Context, fh *domain.FileHandle, rule *domain.Rule,
	field domain.NameTemplateField, opts ResolveOptions) (string, error) {
	candidates, err := r.Candidates(ctx, fh, rule, field)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", &domain.UnresolvedFieldError{Field: field}
	}

	chosen := candidates[0]
	if len(candidates) > 1 && chosen.WeightFor(field) <= candidates[1].WeightFor(field) {
		if !opts.Interactive || opts.Choice == nil {
			return "", &domain.AmbiguousFieldError{Field: field, Candidates: len(candidates)}
		}
		picked, err := opts.Choice.Choose(ctx, fh, field, candidates)
		if err != nil {
			return "", fmt.Errorf("choosing %s: %w", field, err)
		}
		if picked == nil {
			return "", domain.ErrSkipped
		}
		chosen = *picked
	}

	s, err := field.FormatValue(chosen.Coercer, chosen.Value)
	if err != nil {
		return "", fmt.Errorf("formatting %s from %s: %w", field, chosen.URI, err)
	}
	logger.Debug("%s = %q from %s", field, s, chosen.URI)
	return s, nil
}

// Candidates returns the usable bundles for field in preference order.
func (r *FieldResolver) Candidates(ctx context.Context, fh *domain.FileHandle, rule *domain.Rule,
	field domain.NameTemplateField) ([]domain.DataBundle, error) {
	raw, err := r.collect(ctx, fh, rule, field)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.DataBundle, 0, len(raw))
	for _, b := range raw {
		fitted, ok := r.fit(field, b)
		if !ok {
			logger.Debug("%s: dropped %s (%s)", field, b.URI, b.Coercer.Name())
			continue
		}
		candidates = append(candidates, r.canonicalize(field, fitted))
	}

	registry := r.master.Registry()
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if wa, wb := a.WeightFor(field), b.WeightFor(field); wa != wb {
			return wa > wb
		}
		if sa, sb := a.SecondaryWeight(field), b.SecondaryWeight(field); sa != sb {
			return sa > sb
		}
		return registry.Priority(a.Source) > registry.Priority(b.Source)
	})

	return dedup(field, candidates), nil
}

// collect queries the bound URIs, or the field's generic URI when none are bound.
func (r *FieldResolver) collect(ctx context.Context, fh *domain.FileHandle, rule *domain.Rule,
	field domain.NameTemplateField) ([]domain.DataBundle, error) {
	uris := rule.SourcesFor(field)
	if len(uris) == 0 {
		uris = []domain.DataURI{field.GenericURI()}
	}

	var out []domain.DataBundle
	for _, uri := range uris {
		bundles, err := r.master.QueryAll(ctx, fh, uri)
		if err != nil {
			return nil, err
		}
		out = append(out, bundles...)
	}
	return out, nil
}

// fit applies type filtering and reconciles multivaluedness with the field.
func (r *FieldResolver) fit(field domain.NameTemplateField, b domain.DataBundle) (domain.DataBundle, bool) {
	if !field.Accepts(b.Coercer) {
		return b, false
	}

	switch {
	case field.Multivalued() && !b.Multivalued:
		return b.WithValue([]any{b.Value}, true), true
	case !field.Multivalued() && b.Multivalued:
		list, _ := b.Value.([]any)
		if len(list) == 1 {
			return b.WithValue(list[0], false), true
		}
		return r.applyPolicy(field, b, list)
	}
	return b, true
}

func (r *FieldResolver) applyPolicy(field domain.NameTemplateField, b domain.DataBundle, list []any) (domain.DataBundle, bool) {
	if len(list) == 0 {
		return b, false
	}
	switch r.policy {
	case domain.MultivaluedFirst:
		return b.WithValue(list[0], false), true
	case domain.MultivaluedJoin:
		if !field.Accepts(domain.StringCoercer) {
			return b, false
		}
		s, err := field.FormatValue(b.Coercer, list)
		if err != nil {
			return b, false
		}
		joined := b.WithValue(s, false)
		joined.Coercer = domain.StringCoercer
		return joined, true
	default:
		return b, false
	}
}

// canonicalize replaces string values with their canonical form.
func (r *FieldResolver) canonicalize(field domain.NameTemplateField, b domain.DataBundle) domain.DataBundle {
	table := field.CanonicalizerName()
	if r.canonicalizer == nil || table == "" || b.Coercer != domain.StringCoercer {
		return b
	}

	switch v := b.Value.(type) {
	case string:
		return b.WithValue(r.canonicalizer.Canonicalize(table, v), false)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			if s, ok := item.(string); ok {
				item = r.canonicalizer.Canonicalize(table, s)
			}
			out[i] = item
		}
		return b.WithValue(out, true)
	}
	return b
}

// dedup drops later candidates carrying the same generic field and formatted value.
func dedup(field domain.NameTemplateField, candidates []domain.DataBundle) []domain.DataBundle {
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, b := range candidates {
		s, err := field.FormatValue(b.Coercer, b.Value)
		if err != nil {
			continue
		}
		key := b.Generic.String() + "\x00" + strings.TrimSpace(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, b)
	}
	return out
}
