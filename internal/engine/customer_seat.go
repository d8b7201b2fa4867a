package engine

import (
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/domain/item"
	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/events"
	"github.com/MRamiBalles/CookOff/server/internal/platform/metrics"
)

// SeatRules is the scoring a seat applies on serve, mismatch and expiry.
type SeatRules struct {
	ServeReward    int
	ServePenalty   int
	ExpiryPenalty  int
	FastServeRatio float64 // remaining/initial at or above which a serve earns a pickup
}

// CustomerSeat holds one customer and their order.
type CustomerSeat struct {
	id      StationID
	referee Referee
	rules   SeatRules
	onEmpty func(*CustomerSeat)

	waiting         bool
	order           *item.Dish
	initialWait     time.Duration
	remainingWait   time.Duration
	angryMultiplier float64
	timeMultiplier  float64
}

// NewCustomerSeat creates an empty seat.
func NewCustomerSeat(id StationID, referee Referee, rules SeatRules) *CustomerSeat {
	return &CustomerSeat{
		id:             id,
		referee:        referee,
		rules:          rules,
		order:          item.NewDish(),
		timeMultiplier: 1,
	}
}

func (s *CustomerSeat) ID() StationID     { return s.id }
func (s *CustomerSeat) Kind() StationKind { return KindCustomerSeat }

// OnEmpty registers the callback fired whenever the seat becomes free.
func (s *CustomerSeat) OnEmpty(fn func(*CustomerSeat)) { s.onEmpty = fn }

func (s *CustomerSeat) Waiting() bool              { return s.waiting }
func (s *CustomerSeat) Order() *item.Dish          { return s.order }
func (s *CustomerSeat) Remaining() time.Duration   { return s.remainingWait }
func (s *CustomerSeat) InitialWait() time.Duration { return s.initialWait }
func (s *CustomerSeat) TimeMultiplier() float64    { return s.timeMultiplier }

// Progress is remaining/initial wait; 0 when empty.
func (s *CustomerSeat) Progress() float64 {
	if !s.waiting || s.initialWait <= 0 {
		return 0
	}
	return max(float64(s.remainingWait)/float64(s.initialWait), 0)
}

// SetCustomer seats a customer wanting flavors. Panics if the seat is taken.
func (s *CustomerSeat) SetCustomer(flavors []item.Flavor, wait time.Duration, angryMultiplier float64) {
	if s.waiting {
		panic("engine: SetCustomer on occupied seat " + string(s.id))
	}
	s.order.Clear()
	s.order.AddFlavors(flavors...)
	s.initialWait = wait
	s.remainingWait = wait
	s.angryMultiplier = angryMultiplier
	s.timeMultiplier = 1
	s.waiting = true
}

// Interact takes the cook's oldest item and judges it against the order.
// The item is consumed either way.
func (s *CustomerSeat) Interact(p *player.Player) {
	if !s.waiting {
		return
	}
	it, ok := p.Inventory.Place()
	if !ok {
		return
	}

	dish, isDish := it.Dish()
	if isDish && item.Match(s.order, dish) {
		ratio := s.Progress()
		metrics.Get().RecordServe(true)
		_ = s.referee.AddPoints(s.rules.ServeReward, p.ID, "serve")
		s.referee.Journal(events.EventTypeCustomerServed, string(p.ID), string(s.id), s.payload())
		s.RemoveCustomer()
		if ratio >= s.rules.FastServeRatio {
			s.referee.SpawnPickup(p.ID)
		}
		return
	}

	_ = s.referee.AddPoints(-s.rules.ServePenalty, p.ID, "wrong order")
	// Anger is set, not compounded.
	s.timeMultiplier = s.angryMultiplier
	s.referee.Journal(events.EventTypeCustomerAngered, string(p.ID), string(s.id), s.payload())
}

// Advance drains the customer's patience. At zero every cook is penalised and the seat frees up.
func (s *CustomerSeat) Advance(dt time.Duration) {
	if !s.waiting {
		return
	}
	s.remainingWait -= time.Duration(float64(dt) * s.timeMultiplier)
	if s.remainingWait > 0 {
		return
	}
	s.remainingWait = 0
	metrics.Get().RecordServe(false)
	for _, id := range s.referee.Players() {
		_ = s.referee.AddPoints(-s.rules.ExpiryPenalty, id, "customer left")
	}
	s.referee.Journal(events.EventTypeCustomerExpired, events.ActorSystem, string(s.id), s.payload())
	s.RemoveCustomer()
}

// RemoveCustomer empties the seat and hands it back to its manager.
func (s *CustomerSeat) RemoveCustomer() {
	s.order.Clear()
	s.waiting = false
	s.timeMultiplier = 1
	s.remainingWait = 0
	s.initialWait = 0
	if s.onEmpty != nil {
		s.onEmpty(s)
	}
}

// Reset empties the seat without notifying the manager.
func (s *CustomerSeat) Reset() {
	s.order.Clear()
	s.waiting = false
	s.timeMultiplier = 1
	s.angryMultiplier = 0
	s.remainingWait = 0
	s.initialWait = 0
}

func (s *CustomerSeat) payload() events.SeatPayload {
	return events.SeatPayload{
		SeatID:     string(s.id),
		Order:      flavorLabels(s.order),
		Progress:   s.Progress(),
		Multiplier: s.timeMultiplier,
	}
}

func (s *CustomerSeat) View() StationView {
	return StationView{
		ID:         s.id,
		Kind:       KindCustomerSeat,
		Waiting:    s.waiting,
		Progress:   s.Progress(),
		Order:      flavorLabels(s.order),
		Multiplier: s.timeMultiplier,
	}
}

func flavorLabels(d *item.Dish) []string {
	contents := d.Contents()
	labels := make([]string, len(contents))
	for i, f := range contents {
		labels[i] = string(f)
	}
	return labels
}
