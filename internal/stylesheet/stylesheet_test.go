package stylesheet

import (
	"strings"
	"testing"

	"github.com/silver2dream/glyphkit/internal/cssmap"
)

func regular(icons ...string) Section {
	return Section{
		FontFamily: "Phosphor",
		BaseClass:  "ph",
		IconPrefix: "ph-",
		WOFF2:      "/theme/assets/pieces-Phosphor-subset.woff2",
		TTF:        "/theme/assets/pieces-Phosphor-subset.ttf",
		Icons:      icons,
		Map:        cssmap.Map{"heart": "f456", "star": "f123"},
	}
}

func fill(icons ...string) Section {
	return Section{
		FontFamily: "Phosphor-Fill",
		BaseClass:  "ph-fill",
		IconPrefix: "ph-",
		WOFF2:      "assets/pieces-Phosphor-Fill-subset.woff2",
		TTF:        "assets/pieces-Phosphor-Fill-subset.ttf",
		Icons:      icons,
		Map:        cssmap.Map{"heart": "f999"},
	}
}

func TestRender_SortedAndSkipsMissing(t *testing.T) {
	css := Render([]Section{regular("star", "ghost", "heart")}, RefsRelative)

	heart := strings.Index(css, ".ph.ph-heart:before {\n  content: \"\\f456\";\n}\n")
	star := strings.Index(css, ".ph.ph-star:before {\n  content: \"\\f123\";\n}\n")
	if heart < 0 || star < 0 {
		t.Fatalf("missing declarations in:\n%s", css)
	}
	if heart > star {
		t.Error("heart should be emitted before star")
	}
	if strings.Contains(css, "ghost") {
		t.Error("ghost has no codepoint and must not appear")
	}
}

func TestRender_Preamble(t *testing.T) {
	css := Render([]Section{regular("star")}, RefsRelative)

	wantPrefix := `@font-face {
  font-family: "Phosphor";
  src:
    url("pieces-Phosphor-subset.woff2") format("woff2"),
    url("pieces-Phosphor-subset.ttf") format("truetype");
  font-weight: normal;
  font-style: normal;
  font-display: swap;
}

.ph {
  font-family: "Phosphor" !important;
`
	if !strings.HasPrefix(css, wantPrefix) {
		t.Errorf("unexpected preamble:\n%s", css)
	}
	if !strings.HasSuffix(css, "-moz-osx-font-smoothing: grayscale;\n}\n\n.ph.ph-star:before {\n  content: \"\\f123\";\n}\n") {
		t.Errorf("unexpected tail:\n%s", css)
	}
}

func TestRender_Idempotent(t *testing.T) {
	a := Render([]Section{regular("star", "heart")}, RefsRelative)
	b := Render([]Section{regular("heart", "star")}, RefsRelative)
	if a != b {
		t.Error("output should not depend on allow-list order")
	}
}

func TestRender_Duplicates(t *testing.T) {
	css := Render([]Section{regular("star", "star")}, RefsRelative)
	if n := strings.Count(css, ".ph.ph-star:before"); n != 2 {
		t.Errorf("expected duplicate name emitted twice, got %d", n)
	}
}

func TestRender_FillSection(t *testing.T) {
	css := Render([]Section{regular("star"), fill("heart")}, RefsRelative)

	ph := strings.Index(css, "\n.ph {\n")
	phFill := strings.Index(css, "\n.ph-fill {\n")
	if ph < 0 || phFill < 0 {
		t.Fatalf("expected both .ph and .ph-fill blocks:\n%s", css)
	}
	if ph > phFill {
		t.Error("regular block should precede fill block")
	}
	if !strings.Contains(css, `font-family: "Phosphor-Fill";`) {
		t.Error("missing fill font-face")
	}
	if !strings.Contains(css, ".ph-fill.ph-heart:before {\n  content: \"\\f999\";\n}\n") {
		t.Error("missing fill declaration")
	}
}

func TestRender_EmptyFillOmitted(t *testing.T) {
	css := Render([]Section{regular("star"), fill()}, RefsRelative)
	if strings.Contains(css, "ph-fill") {
		t.Errorf("empty fill allow-list must not emit a fill section:\n%s", css)
	}
}

func TestRender_NothingRequested(t *testing.T) {
	if css := Render([]Section{regular(), fill()}, RefsRelative); css != "" {
		t.Errorf("expected empty output, got %q", css)
	}
}

func TestRender_Liquid(t *testing.T) {
	css := Render([]Section{regular("star")}, RefsLiquid)

	if !strings.Contains(css, `url("{{ 'pieces-Phosphor-subset.woff2' | asset_url }}") format("woff2")`) {
		t.Errorf("missing liquid woff2 reference:\n%s", css)
	}
	if !strings.Contains(css, `url("{{ 'pieces-Phosphor-subset.ttf' | asset_url }}") format("truetype")`) {
		t.Errorf("missing liquid ttf reference:\n%s", css)
	}
	if strings.Contains(css, `url("pieces-Phosphor-subset.woff2")`) {
		t.Error("liquid output should not contain bare urls")
	}
}

func TestAssetURL(t *testing.T) {
	tests := []struct {
		path, refs, want string
	}{
		{"assets/a.woff2", RefsRelative, "a.woff2"},
		{"a.ttf", RefsRelative, "a.ttf"},
		{"assets/a.woff2", RefsLiquid, "{{ 'a.woff2' | asset_url }}"},
	}
	for _, tt := range tests {
		if got := AssetURL(tt.path, tt.refs); got != tt.want {
			t.Errorf("AssetURL(%q, %q) = %q, want %q", tt.path, tt.refs, got, tt.want)
		}
	}
}
