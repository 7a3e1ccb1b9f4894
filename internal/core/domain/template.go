package domain

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// NameTemplate is a format string of placeholders and literal text,
// e.g. "{datetime} {title}.{extension}".
type NameTemplate struct {
	Name   string
	Format string

	fields []NameTemplateField
}

// ParseNameTemplate validates every placeholder in format.
func ParseNameTemplate(name, format string) (NameTemplate, error) {
	if strings.TrimSpace(format) == "" {
		return NameTemplate{}, &TemplateError{Template: format, Reason: "empty template"}
	}

	t := NameTemplate{Name: name, Format: format}
	seen := make(map[NameTemplateField]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(format, -1) {
		f, err := ParseField(m[1])
		if err != nil {
			return NameTemplate{}, &TemplateError{Template: format, Reason: "unknown placeholder {" + m[1] + "}"}
		}
		if !seen[f] {
			seen[f] = true
			t.fields = append(t.fields, f)
		}
	}

	rest := placeholderPattern.ReplaceAllString(format, "")
	if strings.ContainsAny(rest, "{}") {
		return NameTemplate{}, &TemplateError{Template: format, Reason: "unbalanced braces"}
	}
	return t, nil
}

// Placeholders returns the distinct fields in order of first appearance.
func (t NameTemplate) Placeholders() []NameTemplateField {
	return append([]NameTemplateField(nil), t.fields...)
}

// Render substitutes values for every placeholder.
func (t NameTemplate) Render(values map[NameTemplateField]string) (string, error) {
	if t.fields == nil && placeholderPattern.MatchString(t.Format) {
		parsed, err := ParseNameTemplate(t.Name, t.Format)
		if err != nil {
			return "", err
		}
		t = parsed
	}

	var missing string
	out := placeholderPattern.ReplaceAllStringFunc(t.Format, func(m string) string {
		f, err := ParseField(m[1 : len(m)-1])
		if err != nil {
			missing = m
			return m
		}
		v, ok := values[f]
		if !ok {
			missing = m
			return m
		}
		return v
	})
	if missing != "" {
		return "", &TemplateError{Template: t.Format, Reason: "no value for " + missing}
	}
	return out, nil
}
