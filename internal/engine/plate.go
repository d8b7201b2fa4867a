package engine

import (
	"github.com/MRamiBalles/CookOff/server/internal/domain/item"
	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
)

// Plate is a counter spot that parks one item.
type Plate struct {
	id       StationID
	held     item.Item
	occupied bool
}

// NewPlate creates an empty plate.
func NewPlate(id StationID) *Plate {
	return &Plate{id: id}
}

func (pl *Plate) ID() StationID     { return pl.id }
func (pl *Plate) Kind() StationKind { return KindPlate }

// Holding returns the parked item, if any.
func (pl *Plate) Holding() (item.Item, bool) {
	return pl.held, pl.occupied
}

// Interact puts the cook's oldest item down, or picks the parked item up.
func (pl *Plate) Interact(p *player.Player) {
	if !pl.occupied {
		if it, ok := p.Inventory.Place(); ok {
			pl.held = it
			pl.occupied = true
		}
		return
	}
	if p.Inventory.CanTake() && p.Inventory.TryTake(pl.held) {
		pl.held = item.Item{}
		pl.occupied = false
	}
}

// Reset discards the parked item.
func (pl *Plate) Reset() {
	pl.held = item.Item{}
	pl.occupied = false
}

func (pl *Plate) View() StationView {
	v := StationView{ID: pl.id, Kind: KindPlate}
	if pl.occupied {
		v.Holding = pl.held.Label()
	}
	return v
}
