package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultivaluedPolicy_IsValid(t *testing.T) {
	assert.True(t, MultivaluedDrop.IsValid())
	assert.True(t, MultivaluedFirst.IsValid())
	assert.True(t, MultivaluedJoin.IsValid())
	assert.False(t, MultivaluedPolicy("merge").IsValid())
}

func TestParseMultivaluedPolicy(t *testing.T) {
	p, err := ParseMultivaluedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, MultivaluedDrop, p)

	p, err = ParseMultivaluedPolicy(" First ")
	require.NoError(t, err)
	assert.Equal(t, MultivaluedFirst, p)

	_, err = ParseMultivaluedPolicy("merge")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.True(t, s.PostProcessing.SanitizeFilename)
	assert.False(t, s.PostProcessing.SanitizeStrict)
	assert.True(t, s.CacheEnabled)
	assert.Equal(t, "exiftool", s.ExiftoolPath)
	assert.Equal(t, MultivaluedDrop, s.MultivaluedPolicy)
	assert.NotNil(t, s.ProviderPriority)
}
