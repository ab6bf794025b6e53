// Package stylesheet renders the reduced icon stylesheet for subset fonts.
package stylesheet

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/silver2dream/glyphkit/internal/cssmap"
)

// Asset reference styles.
const (
	RefsRelative = "relative"
	RefsLiquid   = "liquid"
)

// Section is one icon set's contribution to the stylesheet.
type Section struct {
	FontFamily string
	BaseClass  string
	IconPrefix string
	// WOFF2 and TTF are the subset font paths; only the file name is referenced.
	WOFF2 string
	TTF   string
	Icons []string
	Map   cssmap.Map
}

// Render concatenates the sections in order. Sections with an empty allow-list
// are omitted.
func Render(sections []Section, refs string) string {
	var b strings.Builder
	first := true
	for _, s := range sections {
		if len(s.Icons) == 0 {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false
		writeSection(&b, s, refs)
	}
	return b.String()
}

// AssetURL formats a font reference for the given style.
func AssetURL(path, refs string) string {
	name := filepath.Base(path)
	if refs == RefsLiquid {
		return fmt.Sprintf("{{ '%s' | asset_url }}", name)
	}
	return name
}

func writeSection(b *strings.Builder, s Section, refs string) {
	fmt.Fprintf(b, `@font-face {
  font-family: "%s";
  src:
    url("%s") format("woff2"),
    url("%s") format("truetype");
  font-weight: normal;
  font-style: normal;
  font-display: swap;
}

.%s {
  font-family: "%s" !important;
  speak: never;
  font-style: normal;
  font-weight: normal;
  font-variant: normal;
  text-transform: none;
  line-height: 1;
  letter-spacing: 0;
  -webkit-font-feature-settings: "liga";
  -moz-font-feature-settings: "liga";
  font-feature-settings: "liga";
  -webkit-font-variant-ligatures: discretionary-ligatures;
  font-variant-ligatures: discretionary-ligatures;
  -webkit-font-smoothing: antialiased;
  -moz-osx-font-smoothing: grayscale;
}

`, s.FontFamily, AssetURL(s.WOFF2, refs), AssetURL(s.TTF, refs), s.BaseClass, s.FontFamily)

	// Sorted by name, independent of allow-list order; duplicates survive the sort.
	names := append([]string(nil), s.Icons...)
	sort.Strings(names)
	for _, name := range names {
		code, ok := s.Map[name]
		if !ok {
			continue
		}
		fmt.Fprintf(b, ".%s.%s%s:before {\n  content: \"\\%s\";\n}\n", s.BaseClass, s.IconPrefix, name, code)
	}
}
