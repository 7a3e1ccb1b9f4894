package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autoname-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

func newTestMaster(t *testing.T, cache *mockCache, providers ...*mockProvider) *MasterProvider {
	t.Helper()
	registry := NewProviderRegistry(nil)
	for i, p := range providers {
		require.NoError(t, registry.Register(p.factory(), 100-i))
	}
	if cache == nil {
		return NewMasterProvider(registry, memory.NewSessionRepository(), nil)
	}
	return NewMasterProvider(registry, memory.NewSessionRepository(), cache)
}

func testFile(name string) *domain.FileHandle {
	prefix, suffix := domain.SplitBasename(name)
	return &domain.FileHandle{
		AbsPath:  "/tmp/" + name,
		Basename: name,
		Prefix:   prefix,
		Suffix:   suffix,
		Hash:     "hash-" + name,
	}
}

func TestMasterProvider_Query_Concrete(t *testing.T) {
	p := titleProvider("alpha", "extractor.test.alpha")
	p.raw = map[string]any{"title": "  Hello  ", "raw": "x"}
	master := newTestMaster(t, nil, p)
	fh := testFile("a.txt")

	b, err := master.Query(context.Background(), fh, domain.MustParseURI("extractor.test.alpha.title"))

	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "Hello", b.Value)
	assert.Equal(t, "alpha", b.Source)
	assert.Equal(t, "generic.metadata.title", b.Generic.String())

	_, err = master.Query(context.Background(), fh, domain.MustParseURI("extractor.test.alpha.raw"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Calls(), "provider runs once per file")
}

func TestMasterProvider_Query_UnknownAndAbsent(t *testing.T) {
	p := titleProvider("alpha", "extractor.test.alpha")
	p.raw = map[string]any{"raw": "x"}
	master := newTestMaster(t, nil, p)
	fh := testFile("a.txt")

	b, err := master.Query(context.Background(), fh, domain.MustParseURI("extractor.nobody.leaf"))
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = master.Query(context.Background(), fh, domain.MustParseURI("extractor.test.alpha.title"))
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = master.Query(context.Background(), fh, domain.MustParseURI("extractor.test.alpha.title"))
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.Equal(t, 1, p.Calls())
}

func TestMasterProvider_Query_Generic(t *testing.T) {
	high := titleProvider("high", "extractor.test.high")
	high.raw = map[string]any{}
	low := titleProvider("low", "extractor.test.low")
	low.raw = map[string]any{"title": "from low"}
	master := newTestMaster(t, nil, high, low)

	b, err := master.Query(context.Background(), testFile("a.txt"), domain.MustParseURI("generic.metadata.title"))

	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "from low", b.Value)
}

func TestMasterProvider_QueryAll(t *testing.T) {
	a := titleProvider("a", "extractor.test.a")
	a.raw = map[string]any{"title": "A"}
	b := titleProvider("b", "extractor.test.b")
	b.raw = map[string]any{"title": "B"}
	master := newTestMaster(t, nil, a, b)

	all, err := master.QueryAll(context.Background(), testFile("f.txt"), domain.MustParseURI("generic.metadata.title"))

	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Value)
	assert.Equal(t, "B", all[1].Value)
}

func TestMasterProvider_FailureRetiresProvider(t *testing.T) {
	bad := titleProvider("bad", "extractor.test.bad")
	bad.err = errors.New("tool crashed")
	good := titleProvider("good", "extractor.test.good")
	good.raw = map[string]any{"title": "ok"}
	master := newTestMaster(t, nil, bad, good)
	fh := testFile("f.txt")

	b, err := master.Query(context.Background(), fh, domain.MustParseURI("generic.metadata.title"))

	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "ok", b.Value)
	assert.True(t, master.Retired(fh, "bad"))

	_, _ = master.Query(context.Background(), fh, domain.MustParseURI("extractor.test.bad.title"))
	assert.Equal(t, 1, bad.Calls(), "retired provider is not retried")

	other := testFile("g.txt")
	_, _ = master.Query(context.Background(), other, domain.MustParseURI("extractor.test.bad.title"))
	assert.Equal(t, 2, bad.Calls(), "retirement is per file")
}

func TestMasterProvider_CannotHandle(t *testing.T) {
	p := titleProvider("pdf", "extractor.test.pdf")
	p.raw = map[string]any{"title": "x"}
	p.canHandle = func(fh *domain.FileHandle) bool { return fh.Suffix == "pdf" }
	master := newTestMaster(t, nil, p)

	b, err := master.Query(context.Background(), testFile("a.txt"), domain.MustParseURI("extractor.test.pdf.title"))

	require.NoError(t, err)
	assert.Nil(t, b)
	assert.Equal(t, 0, p.Calls())
}

func TestMasterProvider_Cancelled(t *testing.T) {
	p := titleProvider("alpha", "extractor.test.alpha")
	master := newTestMaster(t, nil, p)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := master.Query(ctx, testFile("a.txt"), domain.MustParseURI("extractor.test.alpha.title"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, p.Calls())
}

func TestMasterProvider_UsesCache(t *testing.T) {
	p := titleProvider("alpha", "extractor.test.alpha")
	p.raw = map[string]any{"title": "fresh"}
	p.content = true
	cache := newMockCache()
	fh := testFile("a.txt")
	_ = cache.Put(context.Background(), fh.Hash, "alpha", map[string]any{"title": "cached"})
	master := newTestMaster(t, cache, p)

	b, err := master.Query(context.Background(), fh, domain.MustParseURI("extractor.test.alpha.title"))

	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "cached", b.Value)
	assert.Equal(t, 0, p.Calls())

	other := testFile("b.txt")
	_, err = master.Query(context.Background(), other, domain.MustParseURI("extractor.test.alpha.title"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Calls())
	assert.Contains(t, cache.entries, other.Hash+"/alpha")
}

func TestMasterProvider_CacheErrorFallsBack(t *testing.T) {
	p := titleProvider("alpha", "extractor.test.alpha")
	p.raw = map[string]any{"title": "fresh"}
	p.content = true
	cache := newMockCache()
	cache.getErr = errors.New("disk full")
	master := newTestMaster(t, cache, p)

	b, err := master.Query(context.Background(), testFile("a.txt"), domain.MustParseURI("extractor.test.alpha.title"))

	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "fresh", b.Value)
}

func TestMasterProvider_SkipsCacheForPathDerivedData(t *testing.T) {
	p := titleProvider("names", "extractor.test.names")
	p.raw = map[string]any{"title": "second"}
	cache := newMockCache()
	master := newTestMaster(t, cache, p)
	first := testFile("first.txt")
	second := testFile("second.txt")
	second.Hash = first.Hash
	_ = cache.Put(context.Background(), first.Hash, "names", map[string]any{"title": "stale"})

	b, err := master.Query(context.Background(), second, domain.MustParseURI("extractor.test.names.title"))

	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "second", b.Value)
	assert.Equal(t, 1, p.Calls())
	assert.Equal(t, map[string]any{"title": "stale"}, cache.entries[first.Hash+"/names"])
}

func TestMasterProvider_ExtractAllAndForget(t *testing.T) {
	a := titleProvider("a", "extractor.test.a")
	a.raw = map[string]any{"title": "A", "raw": "r"}
	master := newTestMaster(t, nil, a)
	fh := testFile("f.txt")

	all, err := master.ExtractAll(context.Background(), fh)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	master.Forget(fh)
	all, err = master.ExtractAll(context.Background(), fh)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, a.Calls())
}

func TestWrapRaw(t *testing.T) {
	info := ProviderInfo{
		Name:   "tags",
		Prefix: domain.MustParseURI("extractor.test.tags"),
		Metainfo: domain.Metainfo{
			"tags":  listLeaf(domain.StringCoercer, "generic.metadata.tags", weight(domain.FieldTags, 1)),
			"count": leaf(domain.IntegerCoercer, ""),
			"empty": listLeaf(domain.StringCoercer, ""),
		},
	}

	bundles := WrapRaw(info, map[string]any{
		"tags":    []any{"b", "a"},
		"count":   "not a number",
		"empty":   []any{},
		"unknown": "dropped",
	})

	require.Len(t, bundles, 1)
	b := bundles[0]
	assert.Equal(t, "extractor.test.tags.tags", b.URI.String())
	assert.True(t, b.Multivalued)
	assert.Equal(t, []any{"b", "a"}, b.Value)
	assert.Equal(t, domain.StringCoercer, b.Coercer)
}
