package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoercers_Coerce(t *testing.T) {
	tests := []struct {
		name     string
		coercer  Coercer
		raw      any
		expected any
	}{
		{"path cleans", PathCoercer, "/tmp//a/../b.txt", "/tmp/b.txt"},
		{"path from bytes", PathCoercer, []byte("/tmp/a"), "/tmp/a"},
		{"path component", PathComponentCoercer, "tar.gz", "tar.gz"},
		{"mime lowercases", MIMETypeCoercer, "Application/PDF", "application/pdf"},
		{"mime strips params", MIMETypeCoercer, "text/plain; charset=utf-8", "text/plain"},
		{"mime from extension", MIMETypeCoercer, "pdf", "application/pdf"},
		{"integer from string", IntegerCoercer, " 42 ", int64(42)},
		{"integer from float", IntegerCoercer, 3.0, int64(3)},
		{"integer from int", IntegerCoercer, 7, int64(7)},
		{"float from string", FloatCoercer, "1.5", 1.5},
		{"float from int", FloatCoercer, 2, 2.0},
		{"boolean yes", BooleanCoercer, "Yes", true},
		{"boolean zero", BooleanCoercer, 0, false},
		{"string trims", StringCoercer, "  Foo  ", "Foo"},
		{"string from bytes", StringCoercer, []byte("Foo"), "Foo"},
		{"string from number", StringCoercer, 1.4, "1.4"},
		{"string unwraps single", StringCoercer, []any{"A"}, "A"},
		{"date from exiftool", DateCoercer, "2016:05:24 14:47:11", time.Date(2016, 5, 24, 0, 0, 0, 0, time.UTC)},
		{"datetime keeps wall clock", DateTimeCoercer, "2016:05:24 14:47:11+02:00", time.Date(2016, 5, 24, 14, 47, 11, 0, time.UTC)},
		{"datetime from date", DateTimeCoercer, "20160722", time.Date(2016, 7, 22, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.coercer.Coerce(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.True(t, tt.coercer.Accepts(got))
		})
	}
}

func TestCoercers_CoerceFails(t *testing.T) {
	tests := []struct {
		name    string
		coercer Coercer
		raw     any
	}{
		{"path empty", PathCoercer, "  "},
		{"mime garbage", MIMETypeCoercer, "not a mime"},
		{"integer fraction", IntegerCoercer, 1.5},
		{"integer text", IntegerCoercer, "abc"},
		{"float text", FloatCoercer, "abc"},
		{"boolean maybe", BooleanCoercer, "maybe"},
		{"string nil", StringCoercer, nil},
		{"string list", StringCoercer, []any{"a", "b"}},
		{"date zero", DateCoercer, "0000:00:00 00:00:00"},
		{"datetime zero", DateTimeCoercer, "0000:00:00 00:00:00"},
		{"tz datetime without offset", TZDateTimeCoercer, "2016:05:24 14:47:11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.coercer.Coerce(tt.raw)
			assert.ErrorIs(t, err, ErrCoercionFailed)
		})
	}
}

func TestCoercers_RoundTrip(t *testing.T) {
	values := []struct {
		coercer Coercer
		value   any
	}{
		{PathCoercer, "/tmp/a.txt"},
		{PathComponentCoercer, "a.txt"},
		{MIMETypeCoercer, "application/pdf"},
		{IntegerCoercer, int64(-12)},
		{FloatCoercer, 0.25},
		{BooleanCoercer, true},
		{StringCoercer, "pdfTeX-1.40.16"},
		{DateCoercer, time.Date(2016, 7, 22, 0, 0, 0, 0, time.UTC)},
		{DateTimeCoercer, time.Date(2016, 5, 24, 14, 47, 11, 0, time.UTC)},
	}

	for _, v := range values {
		t.Run(v.coercer.Name(), func(t *testing.T) {
			s, err := v.coercer.Format(v.value)
			require.NoError(t, err)
			back, err := v.coercer.Coerce(s)
			require.NoError(t, err)
			assert.Equal(t, v.value, back)
		})
	}
}

func TestListOf_FormatIsDisplayOnly(t *testing.T) {
	c := ListOf(StringCoercer)
	authors := []any{"Smith, John", "Doe"}

	s, err := c.Format(authors)
	require.NoError(t, err)
	assert.Equal(t, "Smith, John, Doe", s)

	// A single raw string may itself contain the separator, so it is kept whole.
	back, err := c.Coerce(s)
	require.NoError(t, err)
	assert.Equal(t, []any{"Smith, John, Doe"}, back)
	assert.NotEqual(t, authors, back)
}

func TestTZDateTimeCoercer_RoundTrip(t *testing.T) {
	v := time.Date(2016, 5, 24, 14, 47, 11, 0, time.FixedZone("", -5*3600))

	s, err := TZDateTimeCoercer.Format(v)
	require.NoError(t, err)
	assert.Equal(t, "2016-05-24T144711-0500", s)

	back, err := TZDateTimeCoercer.Coerce(s)
	require.NoError(t, err)
	assert.True(t, v.Equal(back.(time.Time)))
}

func TestDateTimeCoercer_Format(t *testing.T) {
	s, err := DateTimeCoercer.Format(time.Date(2016, 7, 22, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2016-07-22T000000", s)
}

func TestListOf(t *testing.T) {
	c := ListOf(StringCoercer)

	got, err := c.Coerce([]any{"a", nil, "b", []any{"x", "y"}})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)
	assert.True(t, c.Accepts(got))

	got, err = c.Coerce("single")
	require.NoError(t, err)
	assert.Equal(t, []any{"single"}, got)

	got, err = ListOf(IntegerCoercer).Coerce([]string{"x", "y"})
	require.NoError(t, err)
	assert.Empty(t, got)

	s, err := c.Format([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a, b", s)

	assert.Equal(t, "listof(string)", c.Name())
	assert.Equal(t, ListOf(StringCoercer), c)
	assert.Equal(t, StringCoercer, ElementCoercer(c))
}

func TestCoercerByName(t *testing.T) {
	c, ok := CoercerByName("datetime")
	require.True(t, ok)
	assert.Equal(t, DateTimeCoercer, c)

	c, ok = CoercerByName("listof(string)")
	require.True(t, ok)
	assert.Equal(t, ListOf(StringCoercer), c)

	_, ok = CoercerByName("decimal")
	assert.False(t, ok)
}

func TestMIMETypeForExtension(t *testing.T) {
	mt, ok := MIMETypeForExtension(".PDF")
	require.True(t, ok)
	assert.Equal(t, "application/pdf", mt)

	ext, ok := ExtensionForMIMEType("application/pdf")
	require.True(t, ok)
	assert.Equal(t, "pdf", ext)

	_, ok = MIMETypeForExtension("")
	assert.False(t, ok)
}
