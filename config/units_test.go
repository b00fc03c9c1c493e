package config

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"20", Length{Value: 20, Unit: UnitNone}},
		{"20px", Length{Value: 20, Unit: UnitPX}},
		{" 12 PT ", Length{Value: 12, Unit: UnitPT}},
		{"2.5mm", Length{Value: 2.5, Unit: UnitMM}},
		{"1in", Length{Value: 1, Unit: UnitIN}},
		{"0.5cm", Length{Value: 0.5, Unit: UnitCM}},
	}
	for _, tc := range cases {
		got, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLength(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "abc", "-3px", "0", "2e7pt"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) should fail", bad)
		}
	}
}

// TestLengthToPX 覆盖 px = pt * dpi / 72 的换算。
func TestLengthToPX(t *testing.T) {
	cases := []struct {
		l    Length
		dpi  int
		want float64
	}{
		{Length{Value: 20, Unit: UnitPX}, 720, 20},
		{Length{Value: 20, Unit: UnitNone}, 96, 20},
		{Length{Value: 12, Unit: UnitPT}, 144, 24},
		{Length{Value: 1, Unit: UnitIN}, 300, 300},
		{Length{Value: 12, Unit: UnitPT}, 0, 12},
	}
	for _, tc := range cases {
		if got := tc.l.ToPX(tc.dpi); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s at %d dpi = %g px, want %g", tc.l, tc.dpi, got, tc.want)
		}
	}
	mm := Length{Value: 25.4, Unit: UnitMM}
	if got := mm.ToPT(72); math.Abs(got-72) > 1e-3 {
		t.Fatalf("25.4mm = %gpt, want ~72", got)
	}
}

func TestLengthTextRoundTrip(t *testing.T) {
	l := Length{Value: 14.5, Unit: UnitPT}
	text, _ := l.MarshalText()
	var back Length
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	if back != l {
		t.Fatalf("round trip = %+v, want %+v", back, l)
	}
}
