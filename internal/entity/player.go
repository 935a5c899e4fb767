// Package entity provides the player and how it moves.
package entity

import (
	"math"

	"github.com/samdwyer/tilecaster/internal/input"
)

// Speeds are movement rates in map units (or radians) per second.
type Speeds struct {
	Forward  float64
	Rotation float64
}

// DefaultSpeeds returns the standard walking and turning rates.
func DefaultSpeeds() Speeds {
	return Speeds{Forward: 2.0, Rotation: 1.0}
}

// Player is the viewer. X and Y are continuous map coordinates in tiles;
// Angle is in radians and is never normalized in place.
type Player struct {
	X, Y  float64
	Angle float64
}

// NewPlayer creates a player at the given position facing angle 0 (+Y).
func NewPlayer(x, y float64) *Player {
	return &Player{X: x, Y: y}
}

// Direction returns the unit heading vector (sin(angle), cos(angle)).
func (p *Player) Direction() (float64, float64) {
	return math.Sin(p.Angle), math.Cos(p.Angle)
}

// Advance applies one tick of movement. Every pressed key applies, so a turn
// and a step can happen in the same tick. Walls do not block movement.
func (p *Player) Advance(keys input.KeySet, elapsed float64, speeds Speeds) {
	if keys.Has(input.KeyRotateLeft) {
		p.Angle -= speeds.Rotation * elapsed
	}
	if keys.Has(input.KeyRotateRight) {
		p.Angle += speeds.Rotation * elapsed
	}

	step := speeds.Forward * elapsed
	if keys.Has(input.KeyMoveForward) {
		dx, dy := p.Direction()
		p.X += dx * step
		p.Y += dy * step
	}
	if keys.Has(input.KeyMoveBackward) {
		dx, dy := p.Direction()
		p.X -= dx * step
		p.Y -= dy * step
	}
}

// Degrees returns the heading in degrees, normalized to [0, 360).
func (p *Player) Degrees() float64 {
	deg := math.Mod(p.Angle*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		// A tiny negative angle rounds up to exactly 360.
		deg = 0
	}
	return deg
}

// compass lists the marker arrows for headings 0°, 45°, ... 315°.
// Angle 0 faces +Y, which is down on screen.
var compass = [8]rune{'↓', '↘', '→', '↗', '↑', '↖', '←', '↙'}

// Marker returns the compass arrow closest to the player's heading.
func (p *Player) Marker() rune {
	return compass[int(math.Round(p.Degrees()/45))%8]
}
