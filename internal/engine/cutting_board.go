package engine

import (
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/domain/item"
	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
)

// CuttingBoard chops ingredients into a dish and combines everything placed on it.
// Chopping pins the cook in place until the chop time has elapsed.
type CuttingBoard struct {
	id       StationID
	referee  Referee
	chopTime time.Duration

	inUse   bool
	locked  player.ID // who is chopping; the match owns the cook
	dish    *item.Dish
	elapsed time.Duration
}

// NewCuttingBoard creates an idle board.
func NewCuttingBoard(id StationID, referee Referee, chopTime time.Duration) *CuttingBoard {
	return &CuttingBoard{id: id, referee: referee, chopTime: chopTime}
}

func (b *CuttingBoard) ID() StationID     { return b.id }
func (b *CuttingBoard) Kind() StationKind { return KindCuttingBoard }

// InUse reports whether the board is chopping.
func (b *CuttingBoard) InUse() bool { return b.inUse }

// LockedPlayer returns the cook pinned by the current chop.
func (b *CuttingBoard) LockedPlayer() (player.ID, bool) {
	return b.locked, b.inUse
}

// Dish returns the dish on the board, or nil.
func (b *CuttingBoard) Dish() *item.Dish { return b.dish }

// Progress is the chop completion in [0,1]; 0 while idle.
func (b *CuttingBoard) Progress() float64 {
	if !b.inUse {
		return 0
	}
	return min(float64(b.elapsed)/float64(b.chopTime), 1)
}

// Interact feeds the cook's oldest item to the board, or hands the finished dish back.
// While chopping, only prepared dishes are accepted; they merge without touching the timer.
func (b *CuttingBoard) Interact(p *player.Player) {
	head, ok := p.Inventory.Peek()
	if !ok {
		if !b.inUse && b.dish != nil && p.Inventory.TryTake(item.FromDish(b.dish)) {
			b.dish = nil
		}
		return
	}

	switch head.Kind() {
	case item.KindIngredient:
		if b.inUse {
			return
		}
		p.Inventory.Place()
		flavor, _ := head.Ingredient()
		if b.dish == nil {
			b.dish = item.NewDish()
		}
		b.dish.AddIngredient(flavor)
		b.inUse = true
		b.locked = p.ID
		b.elapsed = 0
		p.Lock()

	case item.KindDish:
		p.Inventory.Place()
		dish, _ := head.Dish()
		if b.dish == nil {
			b.dish = dish
		} else {
			b.dish.Merge(dish)
		}
	}
}

// Advance runs the chop timer and releases the cook when it completes.
func (b *CuttingBoard) Advance(dt time.Duration) {
	if !b.inUse {
		return
	}
	b.elapsed += dt
	if b.elapsed >= b.chopTime {
		if p, ok := b.referee.Player(b.locked); ok {
			p.Unlock()
		}
		b.inUse = false
		b.locked = ""
	}
}

// Reset stops any chop and discards the dish.
func (b *CuttingBoard) Reset() {
	b.inUse = false
	b.locked = ""
	b.elapsed = 0
	b.dish = nil
}

func (b *CuttingBoard) View() StationView {
	v := StationView{ID: b.id, Kind: KindCuttingBoard, InUse: b.inUse, Progress: b.Progress()}
	if id, ok := b.LockedPlayer(); ok {
		v.LockedBy = id
	}
	if b.dish != nil {
		v.Holding = b.dish.String()
	}
	return v
}
