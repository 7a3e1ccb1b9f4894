// Package textclean provides the fixed textual clean-up steps applied to names.
package textclean

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// zeroWidth lists the invisible characters removed from names.
var zeroWidth = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u2060", "",
	"\ufeff", "",
)

// Quotes removes single and double quote characters.
type Quotes struct{}

// Name returns the processor name.
func (Quotes) Name() string { return "quotes" }

// Process removes quotes.
func (Quotes) Process(name string) (string, error) {
	return strings.NewReplacer(`"`, "", "'", "").Replace(name), nil
}

// ZeroWidth strips zero-width spaces and joiners.
type ZeroWidth struct{}

// Name returns the processor name.
func (ZeroWidth) Name() string { return "zero_width" }

// Process strips zero-width characters.
func (ZeroWidth) Process(name string) (string, error) {
	return zeroWidth.Replace(name), nil
}

// Whitespace collapses runs of whitespace and trims the ends.
type Whitespace struct{}

// Name returns the processor name.
func (Whitespace) Name() string { return "whitespace" }

// Process collapses whitespace.
func (Whitespace) Process(name string) (string, error) {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(name, " ")), nil
}

// Case is the casing mode of a Casing processor.
type Case int

// Casing modes.
const (
	Keep Case = iota
	Lower
	Upper
)

// Casing changes the case of names.
type Casing struct {
	mode Case
}

// NewCasing picks the mode from the two flags; lowercase wins when both are set.
func NewCasing(lowercase, uppercase bool) *Casing {
	switch {
	case lowercase:
		return &Casing{mode: Lower}
	case uppercase:
		return &Casing{mode: Upper}
	default:
		return &Casing{mode: Keep}
	}
}

// Name returns the processor name.
func (c *Casing) Name() string { return "case" }

// Mode returns the casing mode.
func (c *Casing) Mode() Case { return c.mode }

// Process changes the case.
func (c *Casing) Process(name string) (string, error) {
	switch c.mode {
	case Lower:
		return strings.ToLower(name), nil
	case Upper:
		return strings.ToUpper(name), nil
	default:
		return name, nil
	}
}
