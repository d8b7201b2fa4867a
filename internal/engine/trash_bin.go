package engine

import (
	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/events"
)

// TrashBin destroys whatever it is given and charges the cook for the waste.
type TrashBin struct {
	id      StationID
	referee Referee
	penalty int
}

// NewTrashBin creates a bin that deducts penalty points per discarded item.
func NewTrashBin(id StationID, referee Referee, penalty int) *TrashBin {
	return &TrashBin{id: id, referee: referee, penalty: penalty}
}

func (b *TrashBin) ID() StationID     { return b.id }
func (b *TrashBin) Kind() StationKind { return KindTrashBin }

func (b *TrashBin) Interact(p *player.Player) {
	it, ok := p.Inventory.Place()
	if !ok {
		return
	}
	b.referee.Journal(events.EventTypeItemTrashed, string(p.ID), string(b.id), map[string]string{"item": it.Label()})
	_ = b.referee.AddPoints(-b.penalty, p.ID, "trash")
}

func (b *TrashBin) Reset() {}

func (b *TrashBin) View() StationView {
	return StationView{ID: b.id, Kind: KindTrashBin}
}
