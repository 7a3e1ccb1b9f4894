package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

func TestSettingsCmd_ShowDefaults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "[Post-processing]")
	assert.Contains(t, out, "Path: ~/.autoname/rules.yaml (default)")
	assert.Contains(t, out, "Multivalued policy: drop")
	assert.Contains(t, out, "Enabled: yes")
	assert.Contains(t, out, "exiftool: exiftool")
	assert.Contains(t, out, "Rate limit: 20 calls/s")
	assert.NotContains(t, out, "[Provider priority]")
}

func TestSettingsCmd_ShowCustom(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.RulesPath = "/etc/autoname/rules.yaml"
	ts.settings.settings.CacheEnabled = false
	ts.settings.settings.PostProcessing.SanitizeFilename = false
	ts.settings.settings.PostProcessing.Lowercase = true
	ts.settings.settings.ProviderPriority = map[string]int{"pdftotext": 5, "exiftool": 10}

	out, err := executeCommand("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Sanitize: off")
	assert.Contains(t, out, "Case: lowercase")
	assert.Contains(t, out, "Path: /etc/autoname/rules.yaml")
	assert.Contains(t, out, "Enabled: no")
	assert.Contains(t, out, "[Provider priority]\n  exiftool: 10\n  pdftotext: 5")
}

func TestSettingsCmd_ShowError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.err = errTest

	_, err := executeCommand("settings")

	require.ErrorIs(t, err, errTest)
}

func TestSettingsCmd_Set(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("settings", "set", "cache.enabled", "false")

	require.NoError(t, err)
	assert.Contains(t, out, "Set cache.enabled = false")
	assert.Equal(t, "false", ts.settings.set["cache.enabled"])
}

func TestSettingsCmd_SetError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.err = errTest

	_, err := executeCommand("settings", "set", "cache.enabled", "maybe")

	require.ErrorIs(t, err, errTest)
	assert.Contains(t, err.Error(), "failed to set cache.enabled")
}

func TestSettingsCmd_SetRequiresTwoArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("settings", "set", "cache.enabled")

	assert.Error(t, err)
}

func TestSettingsCmd_Policy(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.MultivaluedPolicy
	}{
		{name: "choose join", input: "3\n", want: domain.MultivaluedJoin},
		{name: "choose first", input: "2\n", want: domain.MultivaluedFirst},
		{name: "empty keeps current", input: "\n", want: domain.MultivaluedDrop},
		{name: "out of range keeps current", input: "9\n", want: domain.MultivaluedDrop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, cleanup := setupTestServices()
			defer cleanup()

			out, err := executeCommandWithInput(tt.input, "settings", "policy")

			require.NoError(t, err)
			assert.Contains(t, out, " *1. drop")
			assert.Contains(t, out, "Enter choice [1]")
			assert.Equal(t, string(tt.want), ts.settings.set["resolver.multivalued_policy"])
			assert.Contains(t, out, "Multivalued policy set to: "+string(tt.want))
		})
	}
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	settingsService = nil

	_, err := executeCommand("settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}
