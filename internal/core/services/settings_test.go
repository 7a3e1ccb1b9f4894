package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autoname-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.PostProcessing, settings.PostProcessing)
	assert.Equal(t, defaults.CacheEnabled, settings.CacheEnabled)
	assert.Equal(t, defaults.ExiftoolPath, settings.ExiftoolPath)
	assert.Equal(t, defaults.ToolRatePerSecond, settings.ToolRatePerSecond)
	assert.Equal(t, domain.MultivaluedDrop, settings.MultivaluedPolicy)
	assert.Empty(t, settings.ProviderPriority)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"post_processing.sanitize_filename": false,
		"post_processing.lowercase":         true,
		"post_processing.replacements":      []any{[]any{"-+", "-"}},
		"rules.path":                        "/etc/autoname/rules.yaml",
		"canonicalizer.paths":               []any{"/a", "/b"},
		"cache.enabled":                     false,
		"tools.exiftool":                    "/opt/exiftool",
		"tools.rate_per_second":             int64(5),
		"resolver.multivalued_policy":       "join",
		"providers.priority.exiftool":       int64(99),
	})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.False(t, settings.PostProcessing.SanitizeFilename)
	assert.True(t, settings.PostProcessing.Lowercase)
	assert.Equal(t, []domain.Replacement{{Pattern: "-+", Replacement: "-"}}, settings.PostProcessing.Replacements)
	assert.Equal(t, "/etc/autoname/rules.yaml", settings.RulesPath)
	assert.Equal(t, []string{"/a", "/b"}, settings.CanonicalizerPaths)
	assert.False(t, settings.CacheEnabled)
	assert.Equal(t, "/opt/exiftool", settings.ExiftoolPath)
	assert.Equal(t, "pdftotext", settings.PdftotextPath)
	assert.Equal(t, 5, settings.ToolRatePerSecond)
	assert.Equal(t, domain.MultivaluedJoin, settings.MultivaluedPolicy)
	assert.Equal(t, map[string]int{"exiftool": 99}, settings.ProviderPriority)
}

func TestSettingsService_Get_InvalidPolicy(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{"resolver.multivalued_policy": "average"})
	service := NewSettingsService(store)

	_, err := service.Get()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestSettingsService_Get_InvalidReplacements(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"not a list", "abc"},
		{"short pair", []any{[]any{"only"}}},
		{"non-string", []any{[]any{"a", 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore(map[string]any{"post_processing.replacements": tt.value})

			_, err := NewSettingsService(store).Get()

			assert.ErrorIs(t, err, domain.ErrConfig)
		})
	}
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	in := domain.DefaultSettings()
	in.PostProcessing.SanitizeStrict = true
	in.PostProcessing.Replacements = []domain.Replacement{{Pattern: "foo", Replacement: "bar"}}
	in.RulesPath = "/r.yaml"
	in.MultivaluedPolicy = domain.MultivaluedFirst
	in.ProviderPriority = map[string]int{"extractor.filesystem.filetags": 5}

	require.NoError(t, service.Save(&in))

	out, err := service.Get()
	require.NoError(t, err)
	assert.True(t, out.PostProcessing.SanitizeStrict)
	assert.Equal(t, in.PostProcessing.Replacements, out.PostProcessing.Replacements)
	assert.Equal(t, "/r.yaml", out.RulesPath)
	assert.Equal(t, domain.MultivaluedFirst, out.MultivaluedPolicy)
	assert.Equal(t, 5, out.ProviderPriority["extractor.filesystem.filetags"])
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{"post_processing.lowercase", "true", true, false},
		{"post_processing.lowercase", "maybe", nil, true},
		{"tools.rate_per_second", "7", 7, false},
		{"tools.rate_per_second", "fast", nil, true},
		{"providers.priority.exiftool", "12", 12, false},
		{"resolver.multivalued_policy", "FIRST", "first", false},
		{"resolver.multivalued_policy", "nope", nil, true},
		{"rules.path", "/x.yaml", "/x.yaml", false},
		{"canonicalizer.paths", "/a,/b", []string{"/a", "/b"}, false},
		{"unknown.key", "1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			store := memory.NewConfigStore()
			err := NewSettingsService(store).Set(tt.key, tt.value)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			got, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, domain.DefaultSettings(), service.GetDefaults())
}
