// Package render turns ray distances into character glyphs and composes
// them, with a mini-map and status line, into a text frame.
package render

// GlyphBlank is used for the sky, boundary columns and walls out of range.
const GlyphBlank = ' '

// Wall glyphs from nearest to farthest.
const (
	GlyphWallNear   = '█'
	GlyphWallDense  = '▓'
	GlyphWallMedium = '▒'
	GlyphWallFar    = '░'
)

// Floor glyphs from the bottom of the screen up to the horizon.
const (
	GlyphFloorNear   = '#'
	GlyphFloorDense  = 'x'
	GlyphFloorMedium = '.'
	GlyphFloorFar    = '-'
)

// WallGlyph shades a wall at distance. Bands are closed at the top:
// distance == renderDistance/4 is still the nearest band. Boundary columns
// are always blank.
func WallGlyph(distance, renderDistance float64, boundary bool) rune {
	switch {
	case boundary:
		return GlyphBlank
	case distance <= renderDistance/4:
		return GlyphWallNear
	case distance <= renderDistance/3:
		return GlyphWallDense
	case distance <= renderDistance/2:
		return GlyphWallMedium
	case distance <= renderDistance:
		return GlyphWallFar
	default:
		return GlyphBlank
	}
}

// FloorGlyph shades a floor cell in screen row y of a height-row view. The
// bands are open at the top: b == 0.25 falls in the second band.
func FloorGlyph(y, height int) rune {
	half := float64(height) / 2
	b := 1 - (float64(y)-half)/half
	switch {
	case b < 0.25:
		return GlyphFloorNear
	case b < 0.5:
		return GlyphFloorDense
	case b < 0.75:
		return GlyphFloorMedium
	case b < 0.9:
		return GlyphFloorFar
	default:
		return GlyphBlank
	}
}

// ColumnSpan returns the ceiling and floor rows of a wall at distance in a
// height-row view. Near walls give a negative ceiling and a floor past the
// last row; callers only compare rows against them, never index with them.
func ColumnSpan(distance float64, height int) (ceiling, floor float64) {
	if !(distance > 0) {
		distance = minDistance
	}
	h := float64(height)
	ceiling = h/2 - h/distance
	return ceiling, h - ceiling
}

// minDistance replaces non-positive distances so the span stays finite.
const minDistance = 0.1

// CellGlyph returns the glyph for row y of a column spanning ceiling..floor
// and shaded with wall. Rows above the ceiling are sky.
func CellGlyph(y, height int, ceiling, floor float64, wall rune) rune {
	row := float64(y)
	switch {
	case row < ceiling:
		return GlyphBlank
	case row > ceiling && row <= floor:
		return wall
	default:
		return FloorGlyph(y, height)
	}
}
