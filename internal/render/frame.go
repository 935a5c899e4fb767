package render

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/samdwyer/tilecaster/internal/entity"
	"github.com/samdwyer/tilecaster/internal/input"
	"github.com/samdwyer/tilecaster/internal/raycast"
	"github.com/samdwyer/tilecaster/internal/world"
)

// LineBreak is written at the start of every row for text-stream sinks.
const LineBreak = '\n'

// Frame is a row-major grid of glyphs covering the whole viewport.
type Frame struct {
	Width  int
	Height int
	Cells  []rune
}

// NewFrame allocates a blank width x height frame.
func NewFrame(width, height int) *Frame {
	f := &Frame{
		Width:  width,
		Height: height,
		Cells:  make([]rune, width*height),
	}
	f.Fill(GlyphBlank)
	return f
}

// Fill sets every cell to r.
func (f *Frame) Fill(r rune) {
	for i := range f.Cells {
		f.Cells[i] = r
	}
}

// At returns the glyph at (x, y), or GlyphBlank outside the frame.
func (f *Frame) At(x, y int) rune {
	if !f.contains(x, y) {
		return GlyphBlank
	}
	return f.Cells[y*f.Width+x]
}

// Set writes r at (x, y). Writes outside the frame are dropped.
func (f *Frame) Set(x, y int, r rune) {
	if f.contains(x, y) {
		f.Cells[y*f.Width+x] = r
	}
}

func (f *Frame) contains(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

// Row returns row y as a string.
func (f *Frame) Row(y int) string {
	if y < 0 || y >= f.Height {
		return ""
	}
	return string(f.Cells[y*f.Width : (y+1)*f.Width])
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	c := &Frame{Width: f.Width, Height: f.Height, Cells: make([]rune, len(f.Cells))}
	copy(c.Cells, f.Cells)
	return c
}

// DrawView shades every column from its ray: sky above the wall, the wall
// glyph, then the floor gradient. Columns without a ray are left untouched.
func (f *Frame) DrawView(rays []raycast.Ray, renderDistance float64) {
	cols := min(len(rays), f.Width)
	for x := 0; x < cols; x++ {
		ray := rays[x]
		wall := WallGlyph(ray.Distance, renderDistance, ray.Boundary)
		ceiling, floor := ColumnSpan(ray.Distance, f.Height)
		for y := 0; y < f.Height; y++ {
			f.Cells[y*f.Width+x] = CellGlyph(y, f.Height, ceiling, floor, wall)
		}
	}
}

// DrawMiniMap copies the raw map into the frame at offset (1, 1) and marks
// the player with a compass arrow. Row 0 and column 0 are left alone.
func (f *Frame) DrawMiniMap(grid *world.GridMap, player *entity.Player) {
	for ny := 0; ny < grid.Height(); ny++ {
		for nx := 0; nx < grid.Width(); nx++ {
			tile, _ := grid.TileAt(nx, ny)
			f.Set(nx+1, ny+1, tile.Rune())
		}
	}

	mx, my := player.X+1, player.Y+1
	if math.IsNaN(mx) || math.IsNaN(my) || math.Abs(mx) > math.MaxInt32 || math.Abs(my) > math.MaxInt32 {
		return
	}
	f.Set(int(math.Trunc(mx)), int(math.Trunc(my)), player.Marker())
}

// BreakLines overwrites the first cell of every row with a line break, so a
// plain text stream shows one row per line.
func (f *Frame) BreakLines() {
	if f.Width == 0 {
		return
	}
	for y := 0; y < f.Height; y++ {
		f.Cells[y*f.Width] = LineBreak
	}
}

// Text joins the status line and the cells into the string pushed to a sink.
func (f *Frame) Text(status string, lineBreaks bool) string {
	var b strings.Builder
	b.Grow(len(status) + 1 + len(f.Cells)*3)
	b.WriteString(status)
	if lineBreaks {
		b.WriteRune(LineBreak)
	}
	for _, r := range f.Cells {
		b.WriteRune(r)
	}
	return b.String()
}

// Status is what the status line reports.
type Status struct {
	Player *entity.Player
	Keys   input.KeySet
	FPS    float64
}

// StatusLine formats the status, padded or cut to exactly width runes.
func StatusLine(s Status, width int) string {
	line := fmt.Sprintf("X=%.2f, Y=%.2f, A=%.1f, Key=%s, FPS=%.1f",
		s.Player.X, s.Player.Y, s.Player.Degrees(), s.Keys.String(), s.FPS)
	return fit(line, width)
}

// fit pads or truncates s to n runes.
func fit(s string, n int) string {
	count := utf8.RuneCountInString(s)
	if count == n {
		return s
	}
	if count < n {
		return s + strings.Repeat(" ", n-count)
	}
	return string([]rune(s)[:max(n, 0)])
}

// Options control how a frame is composed.
type Options struct {
	RenderDistance float64
	LineBreaks     bool
}

// Compose runs every pass over f in order (view, mini-map, optional line
// breaks) and returns the text for the frame sink.
func Compose(f *Frame, rays []raycast.Ray, grid *world.GridMap, status Status, opts Options) string {
	f.DrawView(rays, opts.RenderDistance)
	f.DrawMiniMap(grid, status.Player)
	if opts.LineBreaks {
		f.BreakLines()
	}
	return f.Text(StatusLine(status, f.Width), opts.LineBreaks)
}
