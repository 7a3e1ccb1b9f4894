package services

import (
	"sort"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/logger"
)

// WrapRaw converts raw provider output into bundles using the provider's
// metainfo. Leaves without metainfo and values that fail coercion are
// dropped. Bundles are returned in leaf order.
func WrapRaw(info ProviderInfo, raw map[string]any) []domain.DataBundle {
	leaves := make([]string, 0, len(raw))
	for leaf := range raw {
		leaves = append(leaves, leaf)
	}
	sort.Strings(leaves)

	bundles := make([]domain.DataBundle, 0, len(raw))
	for _, leaf := range leaves {
		meta, ok := info.Metainfo[leaf]
		if !ok {
			logger.Debug("%s: no metainfo for leaf %q, dropping", info.Name, leaf)
			continue
		}
		b, ok := wrapLeaf(info, leaf, meta, raw[leaf])
		if !ok {
			continue
		}
		bundles = append(bundles, b)
	}
	return bundles
}

func wrapLeaf(info ProviderInfo, leaf string, meta domain.FieldMetainfo, raw any) (domain.DataBundle, bool) {
	uri, err := info.Prefix.JoinLeaf(leaf)
	if err != nil {
		logger.Debug("%s: leaf %q: %v", info.Name, leaf, err)
		return domain.DataBundle{}, false
	}

	coercer := meta.Coercer
	if meta.Multivalued {
		coercer = domain.ListOf(meta.Coercer)
	}
	value, err := coercer.Coerce(raw)
	if err != nil {
		logger.Debug("%s: %s: %v", info.Name, uri, err)
		return domain.DataBundle{}, false
	}
	if list, ok := value.([]any); ok && meta.Multivalued && len(list) == 0 {
		logger.Debug("%s: %s: empty after coercion", info.Name, uri)
		return domain.DataBundle{}, false
	}

	b, err := domain.NewDataBundle(uri, value, meta.Coercer, meta.Multivalued, meta.Generic, meta.MappedFields, info.Name)
	if err != nil {
		logger.Debug("%s: %s: %v", info.Name, uri, err)
		return domain.DataBundle{}, false
	}
	return b, true
}
