package replace

import (
	"errors"
	"testing"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

func TestProcessor_Process(t *testing.T) {
	tests := []struct {
		name         string
		replacements []domain.Replacement
		in           string
		want         string
	}{
		{
			name:         "no replacements",
			replacements: nil,
			in:           "unchanged name",
			want:         "unchanged name",
		},
		{
			name:         "simple",
			replacements: []domain.Replacement{{Pattern: `\.$`, Replacement: ""}},
			in:           "2007-04-23_12-comments.png.",
			want:         "2007-04-23_12-comments.png",
		},
		{
			name: "longest pattern first",
			replacements: []domain.Replacement{
				{Pattern: "foo", Replacement: "X"},
				{Pattern: "foobar", Replacement: "Y"},
			},
			in:   "foobar foo",
			want: "Y X",
		},
		{
			name:         "backreference",
			replacements: []domain.Replacement{{Pattern: `(\d{4})(\d{2})`, Replacement: `\1-\2`}},
			in:           "201607",
			want:         "2016-07",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.replacements)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := p.Process(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Process(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New([]domain.Replacement{{Pattern: "((", Replacement: ""}})
	if !errors.Is(err, domain.ErrConfig) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestProcessor_NameAndLen(t *testing.T) {
	p, _ := New([]domain.Replacement{{Pattern: "a", Replacement: "b"}})
	if p.Name() != "replacements" {
		t.Errorf("expected name 'replacements', got %q", p.Name())
	}
	if p.Len() != 1 {
		t.Errorf("expected 1 replacement, got %d", p.Len())
	}
}
