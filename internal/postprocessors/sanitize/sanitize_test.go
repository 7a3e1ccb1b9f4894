package sanitize

import (
	"strings"
	"testing"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "abc"},
		{"abc_d-e", "abc_d-e"},
		{"123", "123"},
		{"abc/de", "abc_de"},
		{"abc/<>\\*|de", "abc_de"},
		{"xxx/<>\\*|", "xxx"},
		{"yes? no", "yes no"},
		{"this: that", "this - that"},
		{"AT&T", "AT&T"},
		{"ä", "ä"},
		{"кириллица", "кириллица"},
		{"New World record at 0:12:34", "New World record at 0_12_34"},
		{"--gasdgf", "gasdgf"},
		{"-x report", "x report"},
		{"-_a", "a"},
		{".-a", "a"},
		{"a_ ", "a"},
		{".gasdgf", "gasdgf"},
		{`say "hi"`, "say 'hi'"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Filename(tt.in, false); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilename_Forbidden(t *testing.T) {
	forbidden := "\"\x00\\/"
	for _, fc := range forbidden {
		got := Filename(string(fc), false)
		if strings.ContainsAny(got, forbidden) {
			t.Errorf("Filename(%q) = %q contains a forbidden character", fc, got)
		}
	}
}

func TestFilename_Restricted(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "abc"},
		{"abc_d-e", "abc_d-e"},
		{"abc/de", "abc_de"},
		{"abc/<>\\*|de", "abc_de"},
		{"yes? no", "yes_no"},
		{"this: that", "this_-_that"},
		{"aäb中国的c", "aab_c"},
		{"大声带 - Song", "Song"},
		{"总统: Speech", "Speech"},
		{
			"ÂÃÄÀÁÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔÕÖŐØŒÙÚÛÜŰÝÞßàáâãäåæçèéêëìíîïðñòóôõöőøœùúûüűýþÿ",
			"AAAAAAAECEEEEIIIIDNOOOOOOOOEUUUUUYPssaaaaaaaeceeeeiiiionooooooooeuuuuuypy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Filename(tt.in, true); got != tt.want {
				t.Errorf("Filename(%q, restricted) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilename_RestrictedNeverEmpty(t *testing.T) {
	for _, in := range []string{"ö", "-", ":", ""} {
		if got := Filename(in, true); got == "" {
			t.Errorf("Filename(%q, restricted) is empty", in)
		}
	}

	forbidden := "\"\x00\\/&!: '\t\n()[]{}$;`^,#"
	for _, fc := range forbidden {
		got := Filename(string(fc), true)
		if strings.ContainsAny(got, forbidden) {
			t.Errorf("Filename(%q, restricted) = %q contains a forbidden character", fc, got)
		}
	}
}

func TestProcessor(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		p := New()
		got, err := p.Process("a: b.txt.")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "a - b.txt." {
			t.Errorf("got %q", got)
		}
		if p.Name() != "sanitize" {
			t.Errorf("expected name 'sanitize', got %q", p.Name())
		}
	})

	t.Run("strict trims trailing dots", func(t *testing.T) {
		p := New(WithStrict())
		got, _ := p.Process("a b.txt..")
		if got != "a_b.txt" {
			t.Errorf("got %q", got)
		}
		if p.Name() != "sanitize_strict" {
			t.Errorf("expected name 'sanitize_strict', got %q", p.Name())
		}
	})

	t.Run("strict never empty", func(t *testing.T) {
		got, _ := New(WithStrict()).Process("...")
		if got != "_" {
			t.Errorf("got %q", got)
		}
	})
}

func TestProcessor_Idempotent(t *testing.T) {
	inputs := []string{
		"-x report", ": foo", "-_a", ".-a", "--gasdgf", "a_.", "_ _a_ _",
		"总统: Speech", "this: that", "xxx/<>\\*|", "...",
	}
	for _, p := range []*Processor{New(), New(WithRestricted()), New(WithStrict())} {
		for _, in := range inputs {
			once, _ := p.Process(in)
			twice, _ := p.Process(once)
			if once != twice {
				t.Errorf("%s: %q -> %q -> %q", p.Name(), in, once, twice)
			}
		}
	}
}
