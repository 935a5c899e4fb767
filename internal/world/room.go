package world

// Room is a rectangular floor area carved by the generator.
type Room struct {
	X, Y          int // Top-left corner position
	Width, Height int // Dimensions of the room
}

// Center returns the center tile of the room.
func (r Room) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains returns true if the given tile is inside the room.
func (r Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
