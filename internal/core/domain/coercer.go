package domain

import (
	"fmt"
	"math"
	"mime"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Coercer is a value type. Coerce converts raw extracted values into the
// coercer's canonical Go type, Accepts reports whether a value already has
// that type and Format renders it back to a string.
//
// Output types per coercer:
//
//	path, path_component, mime_type, string: string
//	integer: int64
//	float: float64
//	boolean: bool
//	date, datetime, datetime_tz: time.Time
//	listof(C): []any of C's type
//
// Coerce(Format(v)) == v holds for every scalar coercer. It does not hold
// for listof(C), whose Format joins elements for display.
type Coercer interface {
	Name() string
	Accepts(v any) bool
	Coerce(raw any) (any, error)
	Format(v any) (string, error)
}

// Coercer singletons.
var (
	PathCoercer          Coercer = pathCoercer{}
	PathComponentCoercer Coercer = pathComponentCoercer{}
	MIMETypeCoercer      Coercer = mimeTypeCoercer{}
	IntegerCoercer       Coercer = integerCoercer{}
	FloatCoercer         Coercer = floatCoercer{}
	BooleanCoercer       Coercer = booleanCoercer{}
	StringCoercer        Coercer = stringCoercer{}
	DateCoercer          Coercer = dateCoercer{}
	DateTimeCoercer      Coercer = dateTimeCoercer{}
	TZDateTimeCoercer    Coercer = tzDateTimeCoercer{}
)

var coercersByName = map[string]Coercer{}

func init() {
	for _, c := range Coercers() {
		coercersByName[c.Name()] = c
	}
}

// Coercers returns every scalar coercer.
func Coercers() []Coercer {
	return []Coercer{
		PathCoercer, PathComponentCoercer, MIMETypeCoercer,
		IntegerCoercer, FloatCoercer, BooleanCoercer, StringCoercer,
		DateCoercer, DateTimeCoercer, TZDateTimeCoercer,
	}
}

// CoercerByName looks up a coercer by name. Accepts "listof(<name>)".
func CoercerByName(name string) (Coercer, bool) {
	name = strings.TrimSpace(strings.ToLower(name))
	if inner, ok := strings.CutPrefix(name, "listof("); ok && strings.HasSuffix(inner, ")") {
		elem, ok := CoercerByName(strings.TrimSuffix(inner, ")"))
		if !ok {
			return nil, false
		}
		return ListOf(elem), true
	}
	c, ok := coercersByName[name]
	return c, ok
}

// ElementCoercer returns the element coercer of a ListOf composite,
// or c itself.
func ElementCoercer(c Coercer) Coercer {
	if l, ok := c.(listCoercer); ok {
		return l.elem
	}
	return c
}

func coerceFail(c Coercer, raw any) error {
	return &CoercionError{Coercer: c.Name(), Value: raw}
}

func formatFail(c Coercer, v any) error {
	return fmt.Errorf("format %T with %s: %w", v, c.Name(), ErrInvalidInput)
}

// rawString converts byte and string-like raw values to a string.
func rawString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case []byte:
		if !utf8.Valid(v) {
			return strings.ToValidUTF8(string(v), "�"), true
		}
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	}
	return "", false
}

// unwrapSingle returns the sole element of a one-element list.
func unwrapSingle(raw any) any {
	switch v := raw.(type) {
	case []any:
		if len(v) == 1 {
			return v[0]
		}
	case []string:
		if len(v) == 1 {
			return v[0]
		}
	}
	return raw
}

type pathCoercer struct{}

func (pathCoercer) Name() string { return "path" }

func (pathCoercer) Accepts(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

func (c pathCoercer) Coerce(raw any) (any, error) {
	s, ok := rawString(unwrapSingle(raw))
	if !ok || strings.TrimSpace(s) == "" || strings.ContainsRune(s, 0) {
		return nil, coerceFail(c, raw)
	}
	return filepath.Clean(s), nil
}

func (c pathCoercer) Format(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", formatFail(c, v)
}

type pathComponentCoercer struct{}

func (pathComponentCoercer) Name() string { return "path_component" }

func (pathComponentCoercer) Accepts(v any) bool {
	_, ok := v.(string)
	return ok
}

func (c pathComponentCoercer) Coerce(raw any) (any, error) {
	s, ok := rawString(unwrapSingle(raw))
	if !ok || strings.ContainsRune(s, 0) {
		return nil, coerceFail(c, raw)
	}
	return s, nil
}

func (c pathComponentCoercer) Format(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", formatFail(c, v)
}

var mimeTypePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.+-]*/[a-z0-9*][a-z0-9.+*-]*$`)

// extensionMIMETypes supplements mime.TypeByExtension with types the
// platform tables often lack.
var extensionMIMETypes = map[string]string{
	"pdf":  "application/pdf",
	"epub": "application/epub+zip",
	"mobi": "application/x-mobipocket-ebook",
	"djvu": "image/vnd.djvu",
	"txt":  "text/plain",
	"md":   "text/markdown",
	"yaml": "text/yaml",
	"yml":  "text/yaml",
	"json": "application/json",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"heic": "image/heic",
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"mp3":  "audio/mpeg",
	"zip":  "application/zip",
	"gz":   "application/gzip",
}

// MIMETypeForExtension maps a file extension (without dot) to a MIME type.
func MIMETypeForExtension(ext string) (string, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if t, ok := extensionMIMETypes[ext]; ok {
		return t, true
	}
	if ext == "" {
		return "", false
	}
	if t := mime.TypeByExtension("." + ext); t != "" {
		mediaType, _, err := mime.ParseMediaType(t)
		if err == nil {
			return mediaType, true
		}
	}
	return "", false
}

// ExtensionForMIMEType maps a MIME type to a preferred extension.
func ExtensionForMIMEType(mimeType string) (string, bool) {
	for _, ext := range []string{"pdf", "epub", "txt", "md", "jpg", "png", "mp4", "mp3", "json", "zip"} {
		if extensionMIMETypes[ext] == mimeType {
			return ext, true
		}
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return "", false
	}
	return strings.TrimPrefix(exts[0], "."), true
}

type mimeTypeCoercer struct{}

func (mimeTypeCoercer) Name() string { return "mime_type" }

func (mimeTypeCoercer) Accepts(v any) bool {
	s, ok := v.(string)
	return ok && mimeTypePattern.MatchString(s)
}

func (c mimeTypeCoercer) Coerce(raw any) (any, error) {
	s, ok := rawString(unwrapSingle(raw))
	if !ok {
		return nil, coerceFail(c, raw)
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if mediaType, _, err := mime.ParseMediaType(s); err == nil {
		s = mediaType
	}
	if mimeTypePattern.MatchString(s) {
		return s, nil
	}
	if t, ok := MIMETypeForExtension(s); ok {
		return t, nil
	}
	return nil, coerceFail(c, raw)
}

func (c mimeTypeCoercer) Format(v any) (string, error) {
	if c.Accepts(v) {
		return v.(string), nil
	}
	return "", formatFail(c, v)
}

type integerCoercer struct{}

func (integerCoercer) Name() string { return "integer" }

func (integerCoercer) Accepts(v any) bool {
	_, ok := v.(int64)
	return ok
}

func (c integerCoercer) Coerce(raw any) (any, error) {
	switch v := unwrapSingle(raw).(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), nil
		}
	case float32:
		return c.Coerce(float64(v))
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return int64(v), nil
		}
	default:
		if s, ok := rawString(v); ok {
			s = strings.TrimSpace(s)
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return n, nil
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return c.Coerce(f)
			}
		}
	}
	return nil, coerceFail(c, raw)
}

func (c integerCoercer) Format(v any) (string, error) {
	if n, ok := v.(int64); ok {
		return strconv.FormatInt(n, 10), nil
	}
	return "", formatFail(c, v)
}

type floatCoercer struct{}

func (floatCoercer) Name() string { return "float" }

func (floatCoercer) Accepts(v any) bool {
	_, ok := v.(float64)
	return ok
}

func (c floatCoercer) Coerce(raw any) (any, error) {
	switch v := unwrapSingle(raw).(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		if s, ok := rawString(v); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f, nil
			}
		}
	}
	return nil, coerceFail(c, raw)
}

func (c floatCoercer) Format(v any) (string, error) {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return "", formatFail(c, v)
}

var (
	trueStrings  = map[string]bool{"true": true, "yes": true, "on": true, "1": true, "positive": true, "enabled": true}
	falseStrings = map[string]bool{"false": true, "no": true, "off": true, "0": true, "negative": true, "disabled": true}
)

type booleanCoercer struct{}

func (booleanCoercer) Name() string { return "boolean" }

func (booleanCoercer) Accepts(v any) bool {
	_, ok := v.(bool)
	return ok
}

func (c booleanCoercer) Coerce(raw any) (any, error) {
	switch v := unwrapSingle(raw).(type) {
	case bool:
		return v, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case int64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	default:
		if s, ok := rawString(v); ok {
			s = strings.ToLower(strings.TrimSpace(s))
			if trueStrings[s] {
				return true, nil
			}
			if falseStrings[s] {
				return false, nil
			}
		}
	}
	return nil, coerceFail(c, raw)
}

func (c booleanCoercer) Format(v any) (string, error) {
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b), nil
	}
	return "", formatFail(c, v)
}

type stringCoercer struct{}

func (stringCoercer) Name() string { return "string" }

func (stringCoercer) Accepts(v any) bool {
	_, ok := v.(string)
	return ok
}

func (c stringCoercer) Coerce(raw any) (any, error) {
	switch v := unwrapSingle(raw).(type) {
	case nil, bool, []any, []string, map[string]any:
		return nil, coerceFail(c, raw)
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		if s, ok := rawString(v); ok {
			return strings.TrimSpace(s), nil
		}
	}
	return nil, coerceFail(c, raw)
}

func (c stringCoercer) Format(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", formatFail(c, v)
}

type dateCoercer struct{}

func (dateCoercer) Name() string { return "date" }

func (dateCoercer) Accepts(v any) bool {
	t, ok := v.(time.Time)
	return ok && t.Location() == time.UTC && t.Equal(midnight(t))
}

func (c dateCoercer) Coerce(raw any) (any, error) {
	switch v := unwrapSingle(raw).(type) {
	case time.Time:
		if !v.IsZero() {
			return midnight(v), nil
		}
	default:
		if s, ok := rawString(v); ok {
			if t, ok := ParseDate(s); ok {
				return t, nil
			}
		}
	}
	return nil, coerceFail(c, raw)
}

func (c dateCoercer) Format(v any) (string, error) {
	if t, ok := v.(time.Time); ok {
		return t.Format(DateLayout), nil
	}
	return "", formatFail(c, v)
}

type dateTimeCoercer struct{}

func (dateTimeCoercer) Name() string { return "datetime" }

func (dateTimeCoercer) Accepts(v any) bool {
	t, ok := v.(time.Time)
	return ok && t.Location() == time.UTC
}

// Coerce keeps the wall-clock time of inputs carrying an offset.
// Date-only inputs coerce to midnight.
func (c dateTimeCoercer) Coerce(raw any) (any, error) {
	switch v := unwrapSingle(raw).(type) {
	case time.Time:
		if !v.IsZero() {
			return wallClock(v), nil
		}
	default:
		if s, ok := rawString(v); ok {
			if t, ok := ParseDateTime(s); ok {
				return wallClock(t), nil
			}
			if t, ok := ParseDate(s); ok {
				return t, nil
			}
		}
	}
	return nil, coerceFail(c, raw)
}

func (c dateTimeCoercer) Format(v any) (string, error) {
	if t, ok := v.(time.Time); ok {
		return t.Format(DateTimeLayout), nil
	}
	return "", formatFail(c, v)
}

type tzDateTimeCoercer struct{}

func (tzDateTimeCoercer) Name() string { return "datetime_tz" }

func (tzDateTimeCoercer) Accepts(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

// Coerce requires an explicit offset, or a time.Time.
func (c tzDateTimeCoercer) Coerce(raw any) (any, error) {
	switch v := unwrapSingle(raw).(type) {
	case time.Time:
		if !v.IsZero() {
			return v, nil
		}
	default:
		if s, ok := rawString(v); ok {
			if t, ok := ParseDateTime(s); ok && t.Location() != time.UTC {
				return t, nil
			}
		}
	}
	return nil, coerceFail(c, raw)
}

// Format renders the wall-clock time followed by the offset.
func (c tzDateTimeCoercer) Format(v any) (string, error) {
	if t, ok := v.(time.Time); ok {
		return t.Format(DateTimeLayout + "-0700"), nil
	}
	return "", formatFail(c, v)
}

// ListOf derives a composite coercer applying elem to every element.
// Its Format output is for display only: Coerce never splits a string,
// so a formatted list coerces back to a single element.
func ListOf(elem Coercer) Coercer {
	return listCoercer{elem: elem}
}

type listCoercer struct {
	elem Coercer
}

func (c listCoercer) Name() string { return "listof(" + c.elem.Name() + ")" }

func (c listCoercer) Accepts(v any) bool {
	list, ok := v.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		if !c.elem.Accepts(item) {
			return false
		}
	}
	return true
}

// Coerce wraps scalars and drops elements that fail. The result may be empty.
func (c listCoercer) Coerce(raw any) (any, error) {
	var items []any
	switch v := raw.(type) {
	case nil:
		return nil, coerceFail(c, raw)
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	default:
		items = []any{v}
	}

	out := make([]any, 0, len(items))
	for _, item := range items {
		coerced, err := c.elem.Coerce(item)
		if err != nil {
			continue
		}
		out = append(out, coerced)
	}
	return out, nil
}

func (c listCoercer) Format(v any) (string, error) {
	return FormatList(c.elem, v, ", ")
}

// FormatList formats every element of a []any with elem and joins them.
func FormatList(elem Coercer, v any, sep string) (string, error) {
	list, ok := v.([]any)
	if !ok {
		return "", formatFail(ListOf(elem), v)
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		s, err := elem.Format(item)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep), nil
}
