package canvasrenderer

import (
	"encoding/json"
	"testing"

	"github.com/ByLCY/texbridge/render"
)

func TestAppendEnvelopeShape(t *testing.T) {
	m := render.Metrics{Width: 100, Height: 50, Depth: 10, Ascent: 40}
	got := string(AppendEnvelope(nil, "...", m))
	want := `{"svg":"...","metrics":{"width":100,"height":50,"depth":10,"ascent":40}}`
	if got != want {
		t.Fatalf("envelope = %s, want %s", got, want)
	}
}

func TestAppendEnvelopeEscaping(t *testing.T) {
	svg := "<svg a=\"1\">\r\n\t\\path\x01</svg>"
	out := AppendEnvelope([]byte("prefix:"), svg, render.Metrics{})
	if string(out[:7]) != "prefix:" {
		t.Fatalf("dst prefix lost: %q", out)
	}
	var decoded struct {
		SVG     string         `json:"svg"`
		Metrics render.Metrics `json:"metrics"`
	}
	if err := json.Unmarshal(out[7:], &decoded); err != nil {
		t.Fatalf("envelope is not valid JSON: %v\n%s", err, out[7:])
	}
	if decoded.SVG != svg {
		t.Fatalf("round-trip mismatch: %q != %q", decoded.SVG, svg)
	}
	wantEscaped := `<svg a=\"1\">\r\n\u0009\\path\u0001</svg>`
	if got := string(appendEscaped(nil, svg)); got != wantEscaped {
		t.Fatalf("escaped = %s, want %s", got, wantEscaped)
	}
}

func TestAppendEnvelopeKeepsUTF8(t *testing.T) {
	out := AppendEnvelope(nil, "<text>数学 ∑</text>", render.Metrics{Width: 1})
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["svg"] != "<text>数学 ∑</text>" {
		t.Fatalf("non-ASCII text altered: %v", decoded["svg"])
	}
}
