// Package verify inspects a subset TrueType font and checks every requested
// codepoint still maps to a glyph.
package verify

import (
	"fmt"
	"os"

	"golang.org/x/image/font/sfnt"

	"github.com/silver2dream/glyphkit/internal/cssmap"
)

// Report is the result of checking one font.
type Report struct {
	Glyphs int
	// Unmapped lists codepoints whose cmap lookup yields .notdef.
	Unmapped []string
	// Invalid lists codepoints that are not valid hex scalar values.
	Invalid []string
}

// OK reports whether every codepoint resolved.
func (r *Report) OK() bool {
	return len(r.Unmapped) == 0 && len(r.Invalid) == 0
}

// File checks the font at path.
func File(path string, codepoints []string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return Font(data, codepoints)
}

// Font checks an in-memory TrueType/OpenType font.
func Font(data []byte, codepoints []string) (*Report, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	report := &Report{Glyphs: f.NumGlyphs()}
	var buf sfnt.Buffer
	for _, code := range codepoints {
		r, err := cssmap.Rune(code)
		if err != nil {
			report.Invalid = append(report.Invalid, code)
			continue
		}
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("cmap lookup for U+%04X: %w", r, err)
		}
		if idx == 0 {
			report.Unmapped = append(report.Unmapped, code)
		}
	}
	return report, nil
}
