package engine

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/domain/item"
	"github.com/MRamiBalles/CookOff/server/internal/events"
)

const (
	minOrderSize = 2
	maxOrderSize = 4
)

// CustomerManager seats customers at free seats on a fixed cadence.
// A seat is queued exactly while it is not waiting.
type CustomerManager struct {
	referee         Referee
	rng             *rand.Rand
	interval        time.Duration
	wait            time.Duration
	angryMultiplier float64

	seats   []*CustomerSeat
	free    []*CustomerSeat
	elapsed time.Duration
}

// NewCustomerManager takes ownership of seats' empty callbacks and queues them all.
func NewCustomerManager(referee Referee, rng *rand.Rand, interval, wait time.Duration, angryMultiplier float64, seats []*CustomerSeat) *CustomerManager {
	m := &CustomerManager{
		referee:         referee,
		rng:             rng,
		interval:        interval,
		wait:            wait,
		angryMultiplier: angryMultiplier,
		seats:           seats,
	}
	for _, s := range seats {
		s.OnEmpty(m.EmptySeat)
	}
	m.free = slices.Clone(seats)
	return m
}

// Seats returns every seat in layout order.
func (m *CustomerManager) Seats() []*CustomerSeat { return m.seats }

// Free returns how many seats are queued.
func (m *CustomerManager) Free() int { return len(m.free) }

// EmptySeat queues a seat that just freed up.
func (m *CustomerManager) EmptySeat(s *CustomerSeat) {
	if s.Waiting() {
		panic("engine: seat " + string(s.ID()) + " queued while waiting")
	}
	if slices.Contains(m.free, s) {
		return
	}
	m.free = append(m.free, s)
}

// Advance accumulates cadence time while a seat is free and seats one customer per interval.
// It returns the seat filled this call, or nil.
func (m *CustomerManager) Advance(dt time.Duration) *CustomerSeat {
	if len(m.free) == 0 {
		return nil
	}
	m.elapsed += dt
	if m.elapsed < m.interval {
		return nil
	}
	m.elapsed = 0

	seat := m.free[0]
	m.free = m.free[1:]
	order := m.RandomOrder()
	seat.SetCustomer(order, m.wait, m.angryMultiplier)
	m.referee.Journal(events.EventTypeCustomerSeated, events.ActorSystem, string(seat.ID()), seat.payload())
	return seat
}

// RandomOrder draws 2 to 4 distinct flavors.
func (m *CustomerManager) RandomOrder() []item.Flavor {
	k := minOrderSize + m.rng.IntN(maxOrderSize-minOrderSize+1)
	perm := m.rng.Perm(len(item.Flavors))
	order := make([]item.Flavor, k)
	for i := range order {
		order[i] = item.Flavors[perm[i]]
	}
	return order
}

// Reset empties every seat and requeues them in layout order.
func (m *CustomerManager) Reset() {
	m.elapsed = 0
	for _, s := range m.seats {
		s.Reset()
	}
	m.free = slices.Clone(m.seats)
}
