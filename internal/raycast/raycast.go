// Package raycast marches one ray per screen column through a tile grid and
// reports how far each ray travelled before it struck a wall.
package raycast

import (
	"math"
	"sort"

	"github.com/samdwyer/tilecaster/internal/entity"
	"github.com/samdwyer/tilecaster/internal/world"
)

const (
	// StepLength is the distance a ray advances per sample, in map units.
	StepLength = 0.1

	// BoundaryAngle is the widest angle, in radians, between a ray and the
	// direction to a wall-tile corner for the column to count as an edge.
	BoundaryAngle = 0.01
)

// Params are the fixed render parameters.
type Params struct {
	RenderDistance float64 // Maximum ray length
	FOV            float64 // Field of view in radians
}

// DefaultParams returns a 16-unit render distance and a 45° field of view.
func DefaultParams() Params {
	return Params{RenderDistance: 16, FOV: math.Pi / 4}
}

// Outcome says why a ray stopped.
type Outcome int

const (
	// OutcomeNone means the ray reached the render distance without a hit.
	OutcomeNone Outcome = iota
	// OutcomeWall means the ray stopped in a wall tile.
	OutcomeWall
	// OutcomeEdge means the ray left the map; it counts as a max-depth hit.
	OutcomeEdge
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeWall:
		return "wall"
	case OutcomeEdge:
		return "edge"
	default:
		return "unknown"
	}
}

// Ray is the result for one screen column.
type Ray struct {
	Distance float64
	Boundary bool // The ray grazes a corner of the wall tile it hit
	Outcome  Outcome
	Steps    int // Samples taken before the ray stopped
}

// Caster casts rays through one map with fixed parameters.
type Caster struct {
	grid     *world.GridMap
	params   Params
	maxSteps int
}

// NewCaster creates a caster for grid.
func NewCaster(grid *world.GridMap, params Params) *Caster {
	return &Caster{
		grid:     grid,
		params:   params,
		maxSteps: int(math.Ceil(params.RenderDistance / StepLength)),
	}
}

// Params returns the caster's render parameters.
func (c *Caster) Params() Params {
	return c.params
}

// MaxSteps is the most samples any single ray can take.
func (c *Caster) MaxSteps() int {
	return c.maxSteps
}

// RayAngle returns the angle of the ray for column col of a width-column view.
func (c *Caster) RayAngle(player *entity.Player, col, width int) float64 {
	fov := c.params.FOV
	return player.Angle - fov/2 + (float64(col)/float64(width))*fov
}

// CastAll casts one ray per column into dst, growing it if needed, and
// returns it.
func (c *Caster) CastAll(player *entity.Player, width int, dst []Ray) []Ray {
	if cap(dst) < width {
		dst = make([]Ray, width)
	}
	dst = dst[:width]
	for col := range dst {
		dst[col] = c.Cast(player, c.RayAngle(player, col, width))
	}
	return dst
}

// Cast marches a single ray from the player at the given angle.
func (c *Caster) Cast(player *entity.Player, angle float64) Ray {
	eyeX, eyeY := math.Sin(angle), math.Cos(angle)
	depth := c.params.RenderDistance

	for step := 1; step <= c.maxSteps; step++ {
		// Multiplying keeps distances exact multiples of the step.
		distance := min(float64(step)*StepLength, depth)
		tx := int(math.Floor(player.X + eyeX*distance))
		ty := int(math.Floor(player.Y + eyeY*distance))

		switch c.grid.HitTest(tx, ty) {
		case world.HitOutOfBounds:
			return Ray{Distance: depth, Outcome: OutcomeEdge, Steps: step}
		case world.HitWall:
			return Ray{
				Distance: distance,
				Boundary: onCorner(player, tx, ty, eyeX, eyeY),
				Outcome:  OutcomeWall,
				Steps:    step,
			}
		}
	}

	return Ray{Distance: depth, Outcome: OutcomeNone, Steps: c.maxSteps}
}

// corner is one corner of a wall tile as seen from the player.
type corner struct {
	distance float64
	dot      float64
}

// onCorner reports whether the ray (eyeX, eyeY) passes within BoundaryAngle
// of either of the two corners of tile (tx, ty) nearest the player.
func onCorner(player *entity.Player, tx, ty int, eyeX, eyeY float64) bool {
	corners := make([]corner, 0, 4)
	for cx := 0; cx < 2; cx++ {
		for cy := 0; cy < 2; cy++ {
			vx := float64(tx+cx) - player.X
			vy := float64(ty+cy) - player.Y
			d := math.Hypot(vx, vy)
			if d == 0 {
				// The player stands on the corner; there is no direction to it.
				return false
			}
			dot := (eyeX*vx + eyeY*vy) / d
			corners = append(corners, corner{distance: d, dot: max(-1, min(1, dot))})
		}
	}

	sort.Slice(corners, func(i, j int) bool {
		return corners[i].distance < corners[j].distance
	})

	return math.Acos(corners[0].dot) < BoundaryAngle ||
		math.Acos(corners[1].dot) < BoundaryAngle
}
