package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Default output formats.
const (
	DateTimeLayout = "2006-01-02T150405"
	DateLayout     = "2006-01-02"
	TimeLayout     = "15-04-05"
)

const (
	reDatePart = `(\d{4})[:_ \-]?(\d{2})[:_ \-]?(\d{2})`
	reTimePart = `(\d{2})[:_ \-]?(\d{2})[:_ \-]?(\d{2})`
	reSep      = `[:_ tT\-]?`
	reMicro    = `[\._ ]?(\d{6})`
	reZone     = ` ?([-+])(\d{2})[:']?(\d{2})'?`
)

type dateTimePattern struct {
	name  string
	re    *regexp.Regexp
	micro bool
	zone  bool
}

// Patterns are tried in order; the first match wins.
var dateTimePatterns = []dateTimePattern{
	{name: "micro+zone", re: regexp.MustCompile(`^` + reDatePart + reSep + reTimePart + reMicro + reZone), micro: true, zone: true},
	{name: "zone", re: regexp.MustCompile(`^` + reDatePart + reSep + reTimePart + reZone), zone: true},
	{name: "micro", re: regexp.MustCompile(`^` + reDatePart + reSep + reTimePart + reMicro), micro: true},
	{name: "plain", re: regexp.MustCompile(`^` + reDatePart + reSep + reTimePart)},
}

var (
	looseDatePattern = regexp.MustCompile(`^` + reDatePart)
	nonDigits        = regexp.MustCompile(`\D`)
)

// ParseDateTime parses a loosely formatted date and time.
// The returned time carries a fixed zone when the input had an offset,
// UTC otherwise. Wall-clock fields are preserved as written.
func ParseDateTime(s string) (time.Time, bool) {
	s = cleanDateString(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, p := range dateTimePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		t, ok := buildDateTime(m[1:], p)
		if ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate parses a loosely formatted date. Falls back to matching the
// digits of s as YYYYMMDD, YYYYMM or YYYY.
func ParseDate(s string) (time.Time, bool) {
	s = cleanDateString(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := looseDatePattern.FindStringSubmatch(s); m != nil {
		if t, ok := buildDate(m[1], m[2], m[3]); ok {
			return t, true
		}
	}

	digits := nonDigits.ReplaceAllString(s, "")
	switch {
	case len(digits) >= 8:
		if t, ok := buildDate(digits[0:4], digits[4:6], digits[6:8]); ok {
			return t, true
		}
		fallthrough
	case len(digits) >= 6:
		if t, ok := buildDate(digits[0:4], digits[4:6], "01"); ok {
			return t, true
		}
		fallthrough
	case len(digits) >= 4:
		return buildDate(digits[0:4], "01", "01")
	}
	return time.Time{}, false
}

// cleanDateString strips PDF "D:" prefixes, a trailing Z and surrounding space.
func cleanDateString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "D:")
	s = strings.TrimSuffix(s, "Z")
	s = strings.TrimSuffix(s, "z")
	return s
}

func buildDate(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if y < 1 || mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func buildDateTime(m []string, p dateTimePattern) (time.Time, bool) {
	date, ok := buildDate(m[0], m[1], m[2])
	if !ok {
		return time.Time{}, false
	}
	h, _ := strconv.Atoi(m[3])
	mi, _ := strconv.Atoi(m[4])
	sec, _ := strconv.Atoi(m[5])
	if h > 23 || mi > 59 || sec > 59 {
		return time.Time{}, false
	}

	rest := m[6:]
	nsec := 0
	if p.micro {
		us, _ := strconv.Atoi(rest[0])
		nsec = us * 1000
		rest = rest[1:]
	}

	loc := time.UTC
	if p.zone {
		zh, _ := strconv.Atoi(rest[1])
		zm, _ := strconv.Atoi(rest[2])
		if zh > 14 || zm > 59 {
			return time.Time{}, false
		}
		offset := zh*3600 + zm*60
		if rest[0] == "-" {
			offset = -offset
		}
		loc = time.FixedZone("", offset)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), h, mi, sec, nsec, loc), true
}

// wallClock returns t with its wall-clock fields reinterpreted as UTC.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
