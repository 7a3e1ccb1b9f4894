package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// KnownPrefix marks an expression that matches against a canonical table.
const KnownPrefix = "known:"

// ValidateExpression checks that expr can be evaluated against some
// coercer: a "known:" reference names a table, and anything that is not
// a regular expression must at least be a glob.
func ValidateExpression(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "*" {
		return nil
	}
	if table, ok := strings.CutPrefix(expr, KnownPrefix); ok {
		if strings.TrimSpace(table) == "" {
			return fmt.Errorf("expression %q names no table: %w", expr, ErrInvalidInput)
		}
		return nil
	}
	if _, err := regexp.Compile(AnchorRegexp(expr)); err == nil {
		return nil
	}
	if strings.ContainsAny(expr, "*?[") {
		return nil
	}
	return fmt.Errorf("invalid expression %q: %w", expr, ErrInvalidInput)
}

// AnchorRegexp anchors expr unless it carries its own anchors.
func AnchorRegexp(expr string) string {
	if strings.HasPrefix(expr, "^") || strings.HasSuffix(expr, "$") {
		return expr
	}
	return "^(?:" + expr + ")$"
}

// GlobToRegexp translates a shell glob to an anchored regular expression.
// "*" matches any run of characters including separators, "?" one
// character, and "[...]" a class where a leading "!" negates.
func GlobToRegexp(glob string) string {
	var sb strings.Builder
	sb.WriteString("^")
	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		case '[':
			end := i + 1
			if end < len(runes) && (runes[end] == '!' || runes[end] == '^') {
				end++
			}
			if end < len(runes) && runes[end] == ']' {
				end++
			}
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if end >= len(runes) {
				sb.WriteString(`\[`)
				continue
			}
			class := strings.ReplaceAll(string(runes[i+1:end]), `\`, `\\`)
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			} else if strings.HasPrefix(class, "^") {
				class = `\` + class
			}
			sb.WriteString("[" + class + "]")
			i = end
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return sb.String()
}
