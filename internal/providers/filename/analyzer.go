package filename

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/autoname-cli/internal/core/domain"
)

var (
	screencapturePattern = regexp.MustCompile(`screencapture-(\d{13})`)
	embeddedDatePattern  = regexp.MustCompile(
		`(?:^|\D)((?:19|20)\d{2}[-_.: ]?[01]\d[-_.: ]?[0-3]\d` +
			`(?:[T_ -]?[0-2]\d[-_.: ]?[0-5]\d[-_.: ]?[0-5]\d)?)(?:\D|$)`,
	)
	numericEditionPattern = regexp.MustCompile(`(?i)(?:^|[^0-9a-z])(\d{1,2})(?:st|nd|rd|th)?[ ._-]?(?:edition|ed|e)(?:$|[^0-9a-z])`)
)

var ordinals = []string{
	"first", "second", "third", "fourth", "fifth", "sixth", "seventh",
	"eighth", "ninth", "tenth", "eleventh", "twelfth", "thirteenth",
	"fourteenth", "fifteenth", "sixteenth", "seventeenth", "eighteenth",
	"nineteenth", "twentieth",
}

var ordinalEditionPattern = regexp.MustCompile(
	`(?i)(?:^|[^a-z])(` + strings.Join(ordinals, "|") + `)[ ._-]?(?:edition|ed)(?:$|[^a-z])`,
)

// likelyExtensions lists suffixes known to be correct for ambiguous MIME types.
var likelyExtensions = map[string]map[string][]string{
	"application/octet-stream": {
		"chm":  {"chm"},
		"mobi": {"mobi"},
	},
	"text/plain": {
		"c":       {"c"},
		"cpp":     {"cpp", "c++"},
		"csv":     {"csv"},
		"gemspec": {"gemspec"},
		"go":      {"go"},
		"h":       {"h"},
		"java":    {"java"},
		"js":      {"js"},
		"json":    {"json"},
		"key":     {"key"},
		"md":      {"markdown", "md", "mkd"},
		"puml":    {"puml"},
		"py":      {"py", "python"},
		"rake":    {"rake"},
		"sh":      {"bash", "sh"},
		"spec":    {"spec"},
		"txt":     {"txt"},
		"yaml":    {"yaml", "yml"},
	},
	"text/x-shellscript": {
		"sh": {"bash", "sh", "txt"},
		"py": {"py"},
	},
}

// FindDateTime returns the first plausible timestamp in a basename prefix.
// Results are wall-clock times in UTC.
func FindDateTime(prefix string) (time.Time, bool) {
	if m := screencapturePattern.FindStringSubmatch(prefix); m != nil {
		if ms, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return time.UnixMilli(ms).UTC().Truncate(time.Second), true
		}
	}

	for _, m := range embeddedDatePattern.FindAllStringSubmatch(prefix, -1) {
		s := strings.ReplaceAll(m[1], ".", "-")
		if t, ok := domain.ParseDateTime(s); ok {
			return t, true
		}
		if t, ok := domain.ParseDate(s); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// FindEdition returns an edition number mentioned in text.
func FindEdition(text string) (int, bool) {
	if m := ordinalEditionPattern.FindStringSubmatch(text); m != nil {
		word := strings.ToLower(m[1])
		for i, o := range ordinals {
			if o == word {
				return i + 1, true
			}
		}
	}
	if m := numericEditionPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// LikelyExtension picks the extension for a file given its suffix and MIME type.
func LikelyExtension(suffix, mimeType string) string {
	lower := strings.ToLower(suffix)
	for ext, suffixes := range likelyExtensions[mimeType] {
		for _, s := range suffixes {
			if s == lower {
				return ext
			}
		}
	}
	if ext, ok := domain.ExtensionForMIMEType(mimeType); ok {
		return ext
	}
	return suffix
}
