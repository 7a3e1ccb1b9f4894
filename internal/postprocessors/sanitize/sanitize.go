// Package sanitize makes names safe to use as filenames.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// timestampPattern matches clock times such as "0:12:34".
var timestampPattern = regexp.MustCompile(`[0-9]+(?::[0-9]+)+`)

// ligatures covers letters that have no canonical decomposition.
var ligatures = map[rune]string{
	'Æ': "AE", 'æ': "ae", 'Œ': "OE", 'œ': "oe",
	'Ø': "O", 'ø': "o", 'Ð': "D", 'ð': "o",
	'Þ': "P", 'þ': "p", 'ß': "ss",
}

// Processor is the filename sanitizer as a post-processor.
type Processor struct {
	restricted bool
	strict     bool
}

// Option configures the sanitizer.
type Option func(*Processor)

// WithRestricted limits output to a portable ASCII subset.
func WithRestricted() Option {
	return func(p *Processor) {
		p.restricted = true
	}
}

// WithStrict implies WithRestricted and also trims trailing dots.
func WithStrict() Option {
	return func(p *Processor) {
		p.restricted = true
		p.strict = true
	}
}

// New creates a sanitizer with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	if p.strict {
		return "sanitize_strict"
	}
	return "sanitize"
}

// Process sanitizes name.
func (p *Processor) Process(name string) (string, error) {
	return filename(name, p.restricted, p.strict), nil
}

// Filename replaces characters that are unsafe in filenames.
// Restricted mode also replaces shell metacharacters and whitespace and
// transliterates or replaces anything outside ASCII.
// Leading dashes, dots and underscores are removed, as are trailing
// underscores. The result is never empty and Filename(Filename(s)) == Filename(s).
func Filename(s string, restricted bool) string {
	return filename(s, restricted, false)
}

func filename(s string, restricted, strict bool) string {
	s = timestampPattern.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, ":", "_")
	})

	var sb strings.Builder
	for _, r := range s {
		sb.WriteString(replaceRune(r, restricted))
	}
	result := trimEdges(sb.String(), strict)
	if result == "" {
		result = "_"
	}
	return result
}

// trimEdges collapses underscore runs and trims the ends until nothing
// changes, so that trimming one character never exposes another.
func trimEdges(s string, strict bool) string {
	leading := func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	}
	trailing := func(r rune) bool {
		return r == '_' || unicode.IsSpace(r) || (strict && r == '.')
	}
	for {
		prev := s
		for strings.Contains(s, "__") {
			s = strings.ReplaceAll(s, "__", "_")
		}
		s = strings.TrimRightFunc(strings.TrimLeftFunc(s, leading), trailing)
		if s == prev {
			return s
		}
	}
}

func replaceRune(r rune, restricted bool) string {
	if restricted && r > unicode.MaxASCII {
		if ascii, ok := transliterate(r); ok {
			return ascii
		}
	}

	switch {
	case r == '?' || r < 32 || r == 127:
		return ""
	case r == '"':
		if restricted {
			return ""
		}
		return "'"
	case r == ':':
		if restricted {
			return "_-"
		}
		return " -"
	case strings.ContainsRune(`\/|*<>`, r):
		return "_"
	}

	if restricted && (strings.ContainsRune("!&'()[]{}$;`^,#", r) || unicode.IsSpace(r)) {
		return "_"
	}
	if restricted && r > unicode.MaxASCII {
		return "_"
	}
	return string(r)
}

// transliterate maps an accented Latin letter to ASCII.
func transliterate(r rune) (string, bool) {
	if s, ok := ligatures[r]; ok {
		return s, true
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, string(r))
	if err != nil || out == "" {
		return "", false
	}
	for _, c := range out {
		if c > unicode.MaxASCII || !unicode.IsLetter(c) {
			return "", false
		}
	}
	return out, true
}
