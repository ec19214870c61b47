package viewer

import (
	"math"
	"testing"
	"unicode/utf8"
)

func TestShadeForBounds(t *testing.T) {
	maxLog := math.Log10(1000001)

	low := shadeFor(0, maxLog)
	if low != colorLand {
		t.Errorf("shadeFor(0) = %v; want land color %v", low, colorLand)
	}
	high := shadeFor(1000000, maxLog)
	if high != colorShade {
		t.Errorf("shadeFor(max) = %v; want accent color %v", high, colorShade)
	}

	mid := shadeFor(1000, maxLog)
	if mid.B <= colorLand.B || mid.B >= colorShade.B {
		t.Errorf("shadeFor(mid) = %v; want between land and accent", mid)
	}
}

func TestLerpColor(t *testing.T) {
	if got := lerpColor(colorFlowSrc, colorFlowDst, 0); got != colorFlowSrc {
		t.Errorf("lerpColor t=0 = %v; want %v", got, colorFlowSrc)
	}
	if got := lerpColor(colorFlowSrc, colorFlowDst, 1); got != colorFlowDst {
		t.Errorf("lerpColor t=1 = %v; want %v", got, colorFlowDst)
	}
	half := lerpColor(colorFlowSrc, colorFlowDst, 0.5)
	if half.R != 100 || half.G != 79 || half.B != 140 {
		t.Errorf("lerpColor t=0.5 = %v; want {100 79 140 255}", half)
	}
}

func TestSampleArc(t *testing.T) {
	pts := sampleArc(0, 0, 100, 0, 24)
	if len(pts) != 25 {
		t.Fatalf("Expected 25 points, got %d", len(pts))
	}
	if pts[0] != [2]float32{0, 0} {
		t.Errorf("Expected curve to start at the origin, got %v", pts[0])
	}
	if pts[24] != [2]float32{100, 0} {
		t.Errorf("Expected curve to end at (100, 0), got %v", pts[24])
	}
	// The midpoint bows away from the chord.
	if pts[12][1] >= 0 {
		t.Errorf("Expected lifted midpoint above the chord, got %v", pts[12])
	}

	// Degenerate chord collapses to the point itself.
	pts = sampleArc(50, 50, 50, 50, 4)
	for _, p := range pts {
		if p != [2]float32{50, 50} {
			t.Errorf("Expected all points at (50, 50), got %v", p)
		}
	}
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mexico", "Mexico"},
		{"United States of America", "United States of Am..."},
		{"Côte d'Ivoire et ses îles voisines", "Côte d'Ivoire et se..."},
	}
	for _, tt := range tests {
		got := truncateName(tt.in, 22)
		if got != tt.want {
			t.Errorf("truncateName(%q) = %q; want %q", tt.in, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncateName(%q) produced invalid UTF-8 %q", tt.in, got)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.in); got != tt.want {
			t.Errorf("formatCount(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
