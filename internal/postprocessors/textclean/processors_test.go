package textclean

import "testing"

func TestQuotes(t *testing.T) {
	got, err := Quotes{}.Process(`The "Foo" Bar's`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "The Foo Bars" {
		t.Errorf("got %q", got)
	}
}

func TestZeroWidth(t *testing.T) {
	got, _ := ZeroWidth{}.Process("a\u200bb\ufeffc\u200d")
	if got != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Foo  Bar", "The Foo Bar"},
		{"  lead and trail  ", "lead and trail"},
		{"tabs\tand\nnewlines", "tabs and newlines"},
		{"", ""},
	}

	for _, tt := range tests {
		got, _ := Whitespace{}.Process(tt.in)
		if got != tt.want {
			t.Errorf("Process(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCasing(t *testing.T) {
	tests := []struct {
		name      string
		lowercase bool
		uppercase bool
		want      string
		mode      Case
	}{
		{"keep", false, false, "MiXed", Keep},
		{"lower", true, false, "mixed", Lower},
		{"upper", false, true, "MIXED", Upper},
		{"lowercase wins", true, true, "mixed", Lower},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCasing(tt.lowercase, tt.uppercase)
			got, _ := c.Process("MiXed")
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if c.Mode() != tt.mode {
				t.Errorf("mode %d, want %d", c.Mode(), tt.mode)
			}
		})
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{Quotes{}.Name(), "quotes"},
		{ZeroWidth{}.Name(), "zero_width"},
		{Whitespace{}.Name(), "whitespace"},
		{NewCasing(false, false).Name(), "case"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got name %q, want %q", tt.got, tt.want)
		}
	}
}
