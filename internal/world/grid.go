package world

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RowSeparator splits rows in a map source string.
const RowSeparator = "|"

// MalformedMapError reports a map source string that cannot form a grid.
type MalformedMapError struct {
	Reason string
	Row    int // Zero-based row index after blank rows are dropped, or -1
}

func (e *MalformedMapError) Error() string {
	if e.Row < 0 {
		return "malformed map: " + e.Reason
	}
	return fmt.Sprintf("malformed map: row %d: %s", e.Row, e.Reason)
}

// GridMap is an immutable row-major tile grid.
type GridMap struct {
	width  int
	height int
	tiles  []Tile
}

// Parse builds a GridMap from rows separated by '|'. Each row is trimmed and
// blank rows are dropped; the remaining rows must share one length and hold
// only wall and floor tiles.
func Parse(raw string) (*GridMap, error) {
	var rows []string
	for _, line := range strings.Split(strings.TrimSpace(raw), RowSeparator) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return nil, &MalformedMapError{Reason: "no rows", Row: -1}
	}

	width := utf8.RuneCountInString(rows[0])
	tiles := make([]Tile, 0, width*len(rows))
	for y, row := range rows {
		if n := utf8.RuneCountInString(row); n != width {
			return nil, &MalformedMapError{
				Reason: fmt.Sprintf("width %d, want %d", n, width),
				Row:    y,
			}
		}
		for x, r := range []rune(row) {
			tile := Tile(r)
			if !tile.IsValid() {
				return nil, &MalformedMapError{
					Reason: fmt.Sprintf("unknown tile %q at column %d", r, x),
					Row:    y,
				}
			}
			tiles = append(tiles, tile)
		}
	}

	return &GridMap{
		width:  width,
		height: len(rows),
		tiles:  tiles,
	}, nil
}

// MustParse is like Parse but panics on a malformed map.
// Use this for built-in maps that must be valid.
func MustParse(raw string) *GridMap {
	m, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return m
}

// Width returns the number of columns.
func (m *GridMap) Width() int { return m.width }

// Height returns the number of rows.
func (m *GridMap) Height() int { return m.height }

// Len returns the number of tiles, always Width()*Height().
func (m *GridMap) Len() int { return len(m.tiles) }

// InBounds returns true if (x, y) addresses a tile.
func (m *GridMap) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// HitTest classifies the tile at (x, y).
func (m *GridMap) HitTest(x, y int) Hit {
	if !m.InBounds(x, y) {
		return HitOutOfBounds
	}
	if m.tiles[y*m.width+x].IsWall() {
		return HitWall
	}
	return HitFloor
}

// IsWall returns true if (x, y) is in bounds and holds a wall.
// Out-of-bounds coordinates are not walls; use HitTest to tell them apart.
func (m *GridMap) IsWall(x, y int) bool {
	return m.HitTest(x, y) == HitWall
}

// TileAt returns the tile at (x, y). The second result is false when the
// coordinate is out of bounds.
func (m *GridMap) TileAt(x, y int) (Tile, bool) {
	if !m.InBounds(x, y) {
		return 0, false
	}
	return m.tiles[y*m.width+x], true
}

// Row returns row y as a string.
func (m *GridMap) Row(y int) string {
	if y < 0 || y >= m.height {
		return ""
	}
	var b strings.Builder
	for _, t := range m.tiles[y*m.width : (y+1)*m.width] {
		b.WriteRune(t.Rune())
	}
	return b.String()
}

// String renders the map back into its '|' separated source form.
func (m *GridMap) String() string {
	rows := make([]string, m.height)
	for y := range rows {
		rows[y] = m.Row(y)
	}
	return strings.Join(rows, RowSeparator)
}
