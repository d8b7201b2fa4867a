// Package player defines the cooks taking part in a match.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package player

import "math"

// ID identifies a cook within a match.
type ID string

const (
	One ID = "P1"
	Two ID = "P2"
)

// Vec is a 2D vector in world units.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Normalized returns v scaled to unit length, or the zero vector.
func (v Vec) Normalized() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Len returns the vector's magnitude.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Scale multiplies both components by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Player is a cook. The match owns players; stations only refer to them by ID.
type Player struct {
	ID        ID
	Name      string
	Inventory Inventory

	locks    int
	boosted  bool
	velocity Vec
}

// NewPlayer creates a cook with empty hands.
func NewPlayer(id ID, name string) *Player {
	return &Player{ID: id, Name: name}
}

// Lock pins the cook in place. Locks nest: each Lock needs its own Unlock.
func (p *Player) Lock() { p.locks++ }

// Unlock releases one hold on the cook.
func (p *Player) Unlock() {
	if p.locks > 0 {
		p.locks--
	}
}

// CanMove reports whether the cook is free to move.
func (p *Player) CanMove() bool { return p.locks == 0 }

// SetBoosted toggles boosted movement.
func (p *Player) SetBoosted(on bool) { p.boosted = on }

// Boosted reports whether boosted movement is active.
func (p *Player) Boosted() bool { return p.boosted }

// SetVelocity records the velocity the physics adapter should apply.
func (p *Player) SetVelocity(v Vec) { p.velocity = v }

// Velocity returns the last velocity set.
func (p *Player) Velocity() Vec { return p.velocity }

// Reset empties hands and clears every flag.
func (p *Player) Reset() {
	p.Inventory.Clear()
	p.locks = 0
	p.boosted = false
	p.velocity = Vec{}
}
