package exiftool

import "strings"

// ignoredTags are never reported.
var ignoredTags = set(
	"ExifTool:ExifToolVersion",
	"ExifTool:Warning",
	"XMP:Extracted-textStoriesNFKC_UTF8_Zlib_Base64",
	"XMP:PageImage",
	"XMP:ProfileBlob",
	"ZIP:ZipBitFlag",
	"ZIP:ZipCompression",
	"ZIP:ZipRequiredVersion",
)

// badValuesAnyTag are placeholder values left behind by authoring tools.
var badValuesAnyTag = set(
	"()", "-", ".", "--=--", "-=-",
	"0101:01:01 00:00:00+00:00",
	"[Your book description]",
	"Admin", "Administrator",
	"IT eBooks",
	"MyStringValue",
	"test",
	"Unknown", "UNKNOWN",
	"UNREGISTERED VERSION", "UNREGISTERD VERSION",
	"Value",
	"www.allitebooks.com", "www.ebook3000.com", "www.free-ebooks.net", "www.it-ebooks.info",
)

// badValuesByTag are placeholder values specific to one tag.
var badValuesByTag = map[string]map[string]bool{
	"PDF:Author": set("Author Unknown", "author unknown", "Author", "I am the Author", "Owner", "root",
		"System Administrator", "User", "user", "First Edition", "Second Edition", "Third Edition"),
	"PDF:Subject": set("Subject"),
	"PDF:Title":   set("DjVu Document", "Title"),
	"XMP:Creator": set("author unknown", "Author", "Creator", "CreatorTool", "I am the Author",
		"Private", "User", "user", "First Edition", "Second Edition", "Third Edition"),
	"XMP:Description": set("Description", "Subject"),
	"XMP:Subject":     set("Description", "Subject"),
	"XMP:Title":       set("DjVu Document", "Title"),
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// keep reports whether the value of tag is worth reporting.
func keep(tag string, value any) bool {
	if ignoredTags[tag] {
		return false
	}
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return !isBadString(tag, v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && isBadString(tag, s) {
				return false
			}
		}
		return len(v) > 0
	}
	return true
}

func isBadString(tag, s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	if strings.Contains(s, "use -b option to extract") {
		return true
	}
	return badValuesAnyTag[s] || badValuesByTag[tag][s]
}
