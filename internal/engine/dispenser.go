package engine

import (
	"github.com/MRamiBalles/CookOff/server/internal/domain/item"
	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
)

// Dispenser hands out fresh ingredients of one flavor. It holds nothing.
type Dispenser struct {
	id     StationID
	flavor item.Flavor
}

// NewDispenser creates a dispenser for flavor.
func NewDispenser(id StationID, flavor item.Flavor) *Dispenser {
	return &Dispenser{id: id, flavor: flavor}
}

func (d *Dispenser) ID() StationID       { return d.id }
func (d *Dispenser) Kind() StationKind   { return KindDispenser }
func (d *Dispenser) Flavor() item.Flavor { return d.flavor }

// Interact gives the cook one ingredient if their hands have room.
func (d *Dispenser) Interact(p *player.Player) {
	if p.Inventory.CanTake() {
		p.Inventory.TryTake(item.NewIngredient(d.flavor))
	}
}

// Reset is a no-op; dispensers are stateless.
func (d *Dispenser) Reset() {}

func (d *Dispenser) View() StationView {
	return StationView{ID: d.id, Kind: KindDispenser, Flavor: string(d.flavor)}
}
