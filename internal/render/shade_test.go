package render

import (
	"math"
	"testing"
)

func TestWallGlyph(t *testing.T) {
	const rd = 16.0
	tests := []struct {
		name     string
		distance float64
		boundary bool
		want     rune
	}{
		{"touching", 0.1, false, GlyphWallNear},
		{"exactly a quarter", rd / 4, false, GlyphWallNear},
		{"just past a quarter", rd/4 + 1e-9, false, GlyphWallDense},
		{"exactly a third", rd / 3, false, GlyphWallDense},
		{"exactly a half", rd / 2, false, GlyphWallMedium},
		{"just past a half", rd/2 + 0.1, false, GlyphWallFar},
		{"exactly render distance", rd, false, GlyphWallFar},
		{"beyond render distance", rd + 0.1, false, GlyphBlank},
		{"boundary near", 1, true, GlyphBlank},
		{"boundary far", rd, true, GlyphBlank},
	}

	for _, tt := range tests {
		if got := WallGlyph(tt.distance, rd, tt.boundary); got != tt.want {
			t.Errorf("%s: WallGlyph(%v, %v, %v) = %q, want %q",
				tt.name, tt.distance, rd, tt.boundary, got, tt.want)
		}
	}
}

func TestFloorGlyph(t *testing.T) {
	// With height 40 the horizon is row 20 and b drops by 0.05 per row.
	tests := []struct {
		y    int
		want rune
	}{
		{20, GlyphBlank},       // b = 1
		{22, GlyphBlank},       // b = 0.9, bands are open at the top
		{23, GlyphFloorFar},    // b = 0.85
		{25, GlyphFloorFar},    // b = 0.75
		{30, GlyphFloorMedium}, // b = 0.5
		{35, GlyphFloorDense},  // b = 0.25
		{36, GlyphFloorNear},   // b = 0.2
		{39, GlyphFloorNear},
	}

	for _, tt := range tests {
		if got := FloorGlyph(tt.y, 40); got != tt.want {
			t.Errorf("FloorGlyph(%d, 40) = %q, want %q", tt.y, got, tt.want)
		}
	}
}

func TestColumnSpan(t *testing.T) {
	ceiling, floor := ColumnSpan(4, 40)
	if ceiling != 10 || floor != 30 {
		t.Errorf("ColumnSpan(4, 40) = (%v, %v), want (10, 30)", ceiling, floor)
	}

	// A wall closer than 2 units overflows the view on both ends.
	ceiling, floor = ColumnSpan(0.5, 40)
	if ceiling >= 0 || floor <= 40 {
		t.Errorf("ColumnSpan(0.5, 40) = (%v, %v), want negative ceiling and floor past 40", ceiling, floor)
	}

	for _, d := range []float64{0, -1, math.NaN()} {
		c, f := ColumnSpan(d, 40)
		if math.IsNaN(c) || math.IsInf(c, 0) || math.IsNaN(f) || math.IsInf(f, 0) {
			t.Errorf("ColumnSpan(%v, 40) = (%v, %v), want finite", d, c, f)
		}
	}
}

func TestCellGlyph(t *testing.T) {
	tests := []struct {
		y    int
		want rune
	}{
		{0, GlyphBlank},
		{9, GlyphBlank},
		{10, GlyphBlank}, // the ceiling row itself is not wall
		{11, GlyphWallNear},
		{30, GlyphWallNear},
		{31, FloorGlyph(31, 40)},
	}
	for _, tt := range tests {
		if got := CellGlyph(tt.y, 40, 10, 30, GlyphWallNear); got != tt.want {
			t.Errorf("CellGlyph(%d) = %q, want %q", tt.y, got, tt.want)
		}
	}
}
