package player

import "github.com/MRamiBalles/CookOff/server/internal/domain/item"

// Capacity is the most items a cook can hold at once.
const Capacity = 2

// Inventory is a FIFO of held items. Items leave in acquisition order.
type Inventory struct {
	held []item.Item
}

// CanTake reports whether there is room for another item.
func (inv *Inventory) CanTake() bool {
	return len(inv.held) < Capacity
}

// Has reports whether at least one item is held.
func (inv *Inventory) Has() bool {
	return len(inv.held) > 0
}

// TryTake appends it at the tail. Returns false, without side effects, when full.
func (inv *Inventory) TryTake(it item.Item) bool {
	if !inv.CanTake() {
		return false
	}
	inv.held = append(inv.held, it)
	return true
}

// Place removes and returns the oldest item.
func (inv *Inventory) Place() (item.Item, bool) {
	if len(inv.held) == 0 {
		return item.Item{}, false
	}
	head := inv.held[0]
	inv.held = inv.held[1:]
	return head, true
}

// Peek returns the oldest item without removing it.
func (inv *Inventory) Peek() (item.Item, bool) {
	if len(inv.held) == 0 {
		return item.Item{}, false
	}
	return inv.held[0], true
}

// Len returns the number of held items.
func (inv *Inventory) Len() int { return len(inv.held) }

// Labels lists held items head first, for display.
func (inv *Inventory) Labels() []string {
	labels := make([]string, len(inv.held))
	for i, it := range inv.held {
		labels[i] = it.Label()
	}
	return labels
}

// Clear drops everything held.
func (inv *Inventory) Clear() {
	inv.held = nil
}
