// Package cssmap reads icon name to codepoint declarations out of an icon font stylesheet.
package cssmap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Map maps an icon name to its hex codepoint as written in the stylesheet.
type Map map[string]string

// Resolution is an allow-list looked up against a Map.
type Resolution struct {
	// Codepoints holds one entry per found name, in allow-list order.
	// A name listed twice contributes its codepoint twice.
	Codepoints []string
	// Missing holds the allow-listed names with no declaration, in allow-list order.
	Missing []string
}

// Pattern compiles the declaration matcher for a base class and icon prefix, e.g.
// `.ph.ph-star:before { content: "\e46a"; }` for base "ph" and prefix "ph-".
func Pattern(baseClass, iconPrefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\.` + regexp.QuoteMeta(baseClass) +
		`\.` + regexp.QuoteMeta(iconPrefix) +
		`([a-z0-9-]+):before\s*\{\s*content:\s*"\\([a-f0-9]+)"`)
}

// Extract collects every declaration matching baseClass/iconPrefix in css.
// Text that does not match is ignored; a name declared twice keeps the last value.
func Extract(css, baseClass, iconPrefix string) Map {
	m := make(Map)
	for _, match := range Pattern(baseClass, iconPrefix).FindAllStringSubmatch(css, -1) {
		m[match[1]] = match[2]
	}
	return m
}

// Resolve looks up each allow-listed name in m.
func Resolve(allow []string, m Map) Resolution {
	var r Resolution
	for _, name := range allow {
		if code, ok := m[name]; ok {
			r.Codepoints = append(r.Codepoints, code)
		} else {
			r.Missing = append(r.Missing, name)
		}
	}
	return r
}

// Selector formats codepoints as the comma-separated U+XXXX list pyftsubset takes for --unicodes.
func Selector(codepoints []string) string {
	tokens := make([]string, len(codepoints))
	for i, code := range codepoints {
		tokens[i] = "U+" + strings.ToUpper(code)
	}
	return strings.Join(tokens, ",")
}

// Rune parses a hex codepoint.
func Rune(code string) (rune, error) {
	n, err := strconv.ParseUint(code, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", code, err)
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return 0, fmt.Errorf("invalid codepoint %q: not a unicode scalar value", code)
	}
	return r, nil
}
