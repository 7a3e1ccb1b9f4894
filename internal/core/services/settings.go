package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driven"
	"github.com/custodia-labs/autoname-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySanitize          = "post_processing.sanitize_filename"
	keySanitizeStrict    = "post_processing.sanitize_strict"
	keyLowercase         = "post_processing.lowercase"
	keyUppercase         = "post_processing.uppercase"
	keyReplacements      = "post_processing.replacements"
	keyRulesPath         = "rules.path"
	keyCanonicalPaths    = "canonicalizer.paths"
	keyCacheEnabled      = "cache.enabled"
	keyCacheDir          = "cache.dir"
	keyExiftool          = "tools.exiftool"
	keyPdftotext         = "tools.pdftotext"
	keyToolRate          = "tools.rate_per_second"
	keyMultivaluedPolicy = "resolver.multivalued_policy"
	keyPriorityPrefix    = "providers.priority."
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	replacements, err := s.getReplacements()
	if err != nil {
		return nil, err
	}

	policy, err := domain.ParseMultivaluedPolicy(s.configStore.GetString(keyMultivaluedPolicy))
	if err != nil {
		return nil, &domain.ConfigError{Path: s.configStore.Path(), Err: err}
	}

	settings := &domain.Settings{
		PostProcessing: domain.PostProcessing{
			SanitizeFilename: s.getBool(keySanitize, defaults.PostProcessing.SanitizeFilename),
			SanitizeStrict:   s.getBool(keySanitizeStrict, defaults.PostProcessing.SanitizeStrict),
			Lowercase:        s.getBool(keyLowercase, defaults.PostProcessing.Lowercase),
			Uppercase:        s.getBool(keyUppercase, defaults.PostProcessing.Uppercase),
			Replacements:     replacements,
		},
		RulesPath:          s.configStore.GetString(keyRulesPath),
		CanonicalizerPaths: s.configStore.GetStringSlice(keyCanonicalPaths),
		CacheEnabled:       s.getBool(keyCacheEnabled, defaults.CacheEnabled),
		CacheDir:           s.configStore.GetString(keyCacheDir),
		ExiftoolPath:       s.getString(keyExiftool, defaults.ExiftoolPath),
		PdftotextPath:      s.getString(keyPdftotext, defaults.PdftotextPath),
		ToolRatePerSecond:  s.getInt(keyToolRate, defaults.ToolRatePerSecond),
		MultivaluedPolicy:  policy,
		ProviderPriority:   make(map[string]int),
	}

	for _, key := range s.configStore.Keys(keyPriorityPrefix) {
		name := strings.TrimPrefix(key, keyPriorityPrefix)
		if name == "" {
			continue
		}
		settings.ProviderPriority[name] = s.configStore.GetInt(key)
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	pp := settings.PostProcessing
	values := []struct {
		key   string
		value any
	}{
		{keySanitize, pp.SanitizeFilename},
		{keySanitizeStrict, pp.SanitizeStrict},
		{keyLowercase, pp.Lowercase},
		{keyUppercase, pp.Uppercase},
		{keyReplacements, replacementsToConfig(pp.Replacements)},
		{keyRulesPath, settings.RulesPath},
		{keyCanonicalPaths, settings.CanonicalizerPaths},
		{keyCacheEnabled, settings.CacheEnabled},
		{keyCacheDir, settings.CacheDir},
		{keyExiftool, settings.ExiftoolPath},
		{keyPdftotext, settings.PdftotextPath},
		{keyToolRate, settings.ToolRatePerSecond},
		{keyMultivaluedPolicy, string(settings.MultivaluedPolicy)},
	}
	for name, priority := range settings.ProviderPriority {
		values = append(values, struct {
			key   string
			value any
		}{keyPriorityPrefix + name, priority})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates a single setting by key, validating the value.
func (s *SettingsService) Set(key, value string) error {
	switch {
	case key == keySanitize, key == keySanitizeStrict, key == keyLowercase,
		key == keyUppercase, key == keyCacheEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, b)
	case key == keyToolRate || strings.HasPrefix(key, keyPriorityPrefix):
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s expects an integer: %w", key, domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, n)
	case key == keyMultivaluedPolicy:
		p, err := domain.ParseMultivaluedPolicy(value)
		if err != nil {
			return err
		}
		return s.configStore.Set(key, string(p))
	case key == keyRulesPath, key == keyCacheDir, key == keyExiftool, key == keyPdftotext:
		return s.configStore.Set(key, value)
	case key == keyCanonicalPaths:
		return s.configStore.Set(key, strings.Split(value, ","))
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// getReplacements reads [[pattern, replacement], ...] pairs.
func (s *SettingsService) getReplacements() ([]domain.Replacement, error) {
	val, ok := s.configStore.Get(keyReplacements)
	if !ok {
		return nil, nil
	}

	list, ok := val.([]any)
	if !ok {
		return nil, &domain.ConfigError{Path: s.configStore.Path(),
			Err: fmt.Errorf("%s must be a list of [pattern, replacement] pairs", keyReplacements)}
	}

	out := make([]domain.Replacement, 0, len(list))
	for _, item := range list {
		pair, ok := toStringPair(item)
		if !ok {
			return nil, &domain.ConfigError{Path: s.configStore.Path(),
				Err: fmt.Errorf("%s: invalid entry %v", keyReplacements, item)}
		}
		out = append(out, domain.Replacement{Pattern: pair[0], Replacement: pair[1]})
	}
	return out, nil
}

func toStringPair(v any) ([2]string, bool) {
	var pair [2]string
	switch items := v.(type) {
	case []any:
		if len(items) != 2 {
			return pair, false
		}
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return pair, false
			}
			pair[i] = s
		}
		return pair, true
	case []string:
		if len(items) != 2 {
			return pair, false
		}
		return [2]string{items[0], items[1]}, true
	}
	return pair, false
}

func replacementsToConfig(rs []domain.Replacement) []any {
	out := make([]any, 0, len(rs))
	for _, r := range rs {
		out = append(out, []any{r.Pattern, r.Replacement})
	}
	return out
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
