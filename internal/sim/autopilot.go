// Package sim drives headless matches with autopilot cooks.
// It is used to soak-test the engine and to sanity check tuning before a release.
package sim

import (
	"slices"
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/domain/item"
	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/engine"
)

const trashStation engine.StationID = "trash-1"

// Cook is a greedy autopilot for one player. It works a single cutting board
// and cooks for one customer at a time.
type Cook struct {
	id       player.ID
	board    engine.StationID
	reaction time.Duration

	cooldown time.Duration
	seat     engine.StationID
	order    string
	served   int
}

// NewCook creates an autopilot that acts at most once per reaction interval.
func NewCook(id player.ID, board engine.StationID, reaction time.Duration) *Cook {
	return &Cook{id: id, board: board, reaction: reaction}
}

func (c *Cook) ID() player.ID { return c.id }

// Served returns how many customers this cook has served.
func (c *Cook) Served() int { return c.served }

// Step lets the cook act if its reaction delay has elapsed. claimed maps
// seats to the cook already working on them.
func (c *Cook) Step(m *engine.Match, dt time.Duration, claimed map[engine.StationID]player.ID) {
	c.cooldown -= dt
	if c.cooldown > 0 || !m.CanMove(c.id) {
		return
	}
	if c.act(m, claimed) {
		c.cooldown = c.reaction
	}
}

func (c *Cook) act(m *engine.Match, claimed map[engine.StationID]player.ID) bool {
	for _, pk := range m.Pickups().Live() {
		if pk.Target() == c.id {
			return c.interact(m, pk.ID())
		}
	}

	s, ok := m.Station(c.board)
	if !ok {
		return false
	}
	board := s.(*engine.CuttingBoard)
	if board.InUse() {
		return false
	}
	p, _ := m.Player(c.id)
	head, holding := p.Inventory.Peek()

	seat := c.currentSeat(m)
	if seat == nil {
		c.release(claimed)
		switch {
		case holding:
			return c.interact(m, trashStation)
		case board.Dish() != nil:
			return c.interact(m, c.board)
		}
		if seat = c.claim(m, claimed); seat == nil {
			return false
		}
	}

	if holding {
		if dish, ok := head.Dish(); ok {
			if !item.Match(seat.Order(), dish) {
				return c.interact(m, trashStation)
			}
			if c.interact(m, seat.ID()) {
				c.served++
				c.release(claimed)
			}
			return true
		}
		return c.interact(m, c.board)
	}

	if next, ok := missing(seat.Order(), board.Dish()); ok {
		return c.interact(m, engine.StationID("dispenser-"+string(next)))
	}
	return c.interact(m, c.board)
}

// currentSeat returns the seat being cooked for, if its customer is still the same one.
func (c *Cook) currentSeat(m *engine.Match) *engine.CustomerSeat {
	if c.seat == "" {
		return nil
	}
	s, ok := m.Station(c.seat)
	if !ok {
		return nil
	}
	seat := s.(*engine.CustomerSeat)
	if !seat.Waiting() || seat.Order().String() != c.order {
		return nil
	}
	return seat
}

// claim picks the unclaimed waiting customer with the most patience left.
func (c *Cook) claim(m *engine.Match, claimed map[engine.StationID]player.ID) *engine.CustomerSeat {
	var best *engine.CustomerSeat
	for _, seat := range m.Customers().Seats() {
		if !seat.Waiting() {
			continue
		}
		if owner, taken := claimed[seat.ID()]; taken && owner != c.id {
			continue
		}
		if best == nil || seat.Remaining() > best.Remaining() {
			best = seat
		}
	}
	if best != nil {
		c.seat = best.ID()
		c.order = best.Order().String()
		claimed[best.ID()] = c.id
	}
	return best
}

func (c *Cook) release(claimed map[engine.StationID]player.ID) {
	if c.seat != "" && claimed[c.seat] == c.id {
		delete(claimed, c.seat)
	}
	c.seat = ""
	c.order = ""
}

func (c *Cook) interact(m *engine.Match, id engine.StationID) bool {
	return m.Interact(c.id, id) == nil
}

// missing returns the first flavor of order not yet on the board.
func missing(order, onBoard *item.Dish) (item.Flavor, bool) {
	var have []item.Flavor
	if onBoard != nil {
		have = onBoard.Contents()
	}
	for _, f := range order.Contents() {
		if !slices.Contains(have, f) {
			return f, true
		}
	}
	return "", false
}
