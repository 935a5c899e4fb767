// Package world provides the tile grid the ray caster walks through.
package world

// Tile represents a single map tile.
type Tile rune

const (
	// TileWall represents a solid wall tile that stops rays.
	TileWall Tile = '#'
	// TileFloor represents an open floor tile.
	TileFloor Tile = '.'
)

// IsWall returns true if the tile blocks rays.
func (t Tile) IsWall() bool {
	return t == TileWall
}

// IsValid returns true if the tile is one of the known tile kinds.
func (t Tile) IsValid() bool {
	return t == TileWall || t == TileFloor
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}

// Hit is the outcome of testing a map coordinate.
type Hit int

const (
	// HitOutOfBounds means the coordinate lies outside the map.
	HitOutOfBounds Hit = iota
	// HitWall means the coordinate holds a wall tile.
	HitWall
	// HitFloor means the coordinate holds a floor tile.
	HitFloor
)

// String returns a human-readable hit name.
func (h Hit) String() string {
	switch h {
	case HitOutOfBounds:
		return "out_of_bounds"
	case HitWall:
		return "wall"
	case HitFloor:
		return "floor"
	default:
		return "unknown"
	}
}
