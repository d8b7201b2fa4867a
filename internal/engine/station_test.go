package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/CookOff/server/internal/domain/item"
	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/events"
)

func TestDispenserRespectsCapacity(t *testing.T) {
	d := NewDispenser("dispenser-C", item.FlavorC)
	p := player.NewPlayer(player.One, "one")

	d.Interact(p)
	d.Interact(p)
	d.Interact(p)

	assert.Equal(t, player.Capacity, p.Inventory.Len())
	assert.Equal(t, []string{"C", "C"}, p.Inventory.Labels())
	assert.Equal(t, "C", d.View().Flavor)
}

func TestPlateParksAndReturnsItem(t *testing.T) {
	pl := NewPlate("plate-1")
	p := player.NewPlayer(player.One, "one")

	pl.Interact(p) // empty hands, empty plate
	_, ok := pl.Holding()
	assert.False(t, ok)

	p.Inventory.TryTake(item.NewIngredient(item.FlavorA))
	p.Inventory.TryTake(item.NewIngredient(item.FlavorB))
	pl.Interact(p)
	held, ok := pl.Holding()
	require.True(t, ok)
	assert.Equal(t, "A", held.Label())
	assert.Equal(t, []string{"B"}, p.Inventory.Labels())

	pl.Interact(p)
	_, ok = pl.Holding()
	assert.False(t, ok)
	assert.Equal(t, []string{"B", "A"}, p.Inventory.Labels())
}

func TestPlateKeepsItemWhenHandsFull(t *testing.T) {
	pl := NewPlate("plate-1")
	p := player.NewPlayer(player.One, "one")
	p.Inventory.TryTake(item.NewIngredient(item.FlavorA))
	pl.Interact(p)
	p.Inventory.TryTake(item.NewIngredient(item.FlavorB))
	p.Inventory.TryTake(item.NewIngredient(item.FlavorC))

	pl.Interact(p)

	_, ok := pl.Holding()
	assert.True(t, ok)
	assert.Equal(t, 2, p.Inventory.Len())

	pl.Reset()
	_, ok = pl.Holding()
	assert.False(t, ok)
}

func TestTrashBinDestroysAndPenalises(t *testing.T) {
	ref := newFakeReferee()
	bin := NewTrashBin("trash-1", ref, 50)
	p := ref.players[player.One]

	bin.Interact(p)
	assert.Empty(t, ref.awards)

	p.Inventory.TryTake(item.FromDish(item.NewDish(item.FlavorA)))
	bin.Interact(p)

	assert.False(t, p.Inventory.Has())
	assert.Equal(t, -50, ref.total(player.One))
	assert.Equal(t, []events.EventType{events.EventTypeItemTrashed}, ref.journal)
}

func TestCuttingBoardChopsAndLocks(t *testing.T) {
	ref := newFakeReferee()
	board := NewCuttingBoard("board-1", ref, 3*time.Second)
	p := ref.players[player.One]
	p.Inventory.TryTake(item.NewIngredient(item.FlavorC))
	p.Inventory.TryTake(item.NewIngredient(item.FlavorA))

	board.Interact(p) // I1
	require.True(t, board.InUse())
	assert.False(t, p.CanMove())

	board.Advance(time.Second)
	board.Advance(time.Second)
	assert.True(t, board.InUse())
	assert.False(t, p.CanMove())
	assert.InDelta(t, 2.0/3.0, board.Progress(), 1e-9)

	board.Advance(time.Second)
	assert.False(t, board.InUse())
	assert.True(t, p.CanMove())

	board.Interact(p) // I2
	require.True(t, board.InUse())
	assert.False(t, p.CanMove())

	p.Inventory.TryTake(item.NewIngredient(item.FlavorE))
	board.Interact(p) // I3 rejected while chopping
	assert.Equal(t, []string{"E"}, p.Inventory.Labels())

	for range 3 {
		assert.False(t, p.CanMove())
		board.Advance(time.Second)
	}
	assert.True(t, p.CanMove())
	assert.Equal(t, []item.Flavor{item.FlavorA, item.FlavorC}, board.Dish().Contents())
	assert.Equal(t, []string{"E"}, p.Inventory.Labels())
}

func TestCuttingBoardsReleaseOnlyTheirOwnHold(t *testing.T) {
	ref := newFakeReferee()
	first := NewCuttingBoard("board-1", ref, 3*time.Second)
	second := NewCuttingBoard("board-2", ref, 3*time.Second)
	p := ref.players[player.One]
	p.Inventory.TryTake(item.NewIngredient(item.FlavorA))
	p.Inventory.TryTake(item.NewIngredient(item.FlavorB))

	first.Interact(p)
	first.Advance(time.Second)
	second.Interact(p)
	assert.Equal(t, player.One, second.View().LockedBy)

	first.Advance(2 * time.Second)
	second.Advance(2 * time.Second)
	require.False(t, first.InUse())
	require.True(t, second.InUse())
	assert.False(t, p.CanMove(), "board-2 still chopping for the cook")

	second.Advance(time.Second)
	assert.True(t, p.CanMove())
	assert.Empty(t, second.View().LockedBy)
}

func TestCuttingBoardMergesDishWhileChopping(t *testing.T) {
	ref := newFakeReferee()
	board := NewCuttingBoard("board-1", ref, 3*time.Second)
	cook := ref.players[player.One]
	helper := ref.players[player.Two]

	cook.Inventory.TryTake(item.NewIngredient(item.FlavorB))
	board.Interact(cook)
	board.Advance(2 * time.Second)

	helper.Inventory.TryTake(item.FromDish(item.NewDish(item.FlavorD, item.FlavorA)))
	board.Interact(helper)

	assert.False(t, helper.Inventory.Has())
	assert.True(t, board.InUse())
	assert.Equal(t, []item.Flavor{item.FlavorA, item.FlavorB, item.FlavorD}, board.Dish().Contents())

	board.Advance(time.Second)
	assert.False(t, board.InUse(), "merge must not extend the timer")
	assert.True(t, cook.CanMove())
}

func TestCuttingBoardTakesDishOutrightAndHandsItBack(t *testing.T) {
	ref := newFakeReferee()
	board := NewCuttingBoard("board-1", ref, 3*time.Second)
	p := ref.players[player.One]
	dish := item.NewDish(item.FlavorA, item.FlavorB)

	p.Inventory.TryTake(item.FromDish(dish))
	board.Interact(p)
	assert.False(t, board.InUse())
	assert.True(t, p.CanMove())
	assert.Same(t, dish, board.Dish())

	board.Interact(p)
	assert.Nil(t, board.Dish())
	held, ok := p.Inventory.Peek()
	require.True(t, ok)
	got, ok := held.Dish()
	require.True(t, ok)
	assert.Same(t, dish, got)
}

func TestCuttingBoardHoldsDishWhileChopping(t *testing.T) {
	ref := newFakeReferee()
	board := NewCuttingBoard("board-1", ref, 3*time.Second)
	p := ref.players[player.One]
	p.Inventory.TryTake(item.NewIngredient(item.FlavorA))
	board.Interact(p)

	board.Interact(p) // empty hands while in use
	assert.NotNil(t, board.Dish())
	assert.False(t, p.Inventory.Has())

	board.Reset()
	assert.False(t, board.InUse())
	assert.Nil(t, board.Dish())
	assert.Zero(t, board.Progress())
}

func TestCustomerSeatServeSpawnsPickupWhenFast(t *testing.T) {
	cases := []struct {
		name    string
		elapsed time.Duration
		spawns  int
	}{
		{"full patience", 0, 1},
		{"sixty percent", 4 * time.Second, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref := newFakeReferee()
			seat := NewCustomerSeat("seat-1", ref, SeatRules{ServeReward: 500, ServePenalty: 500, ExpiryPenalty: 250, FastServeRatio: 0.7})
			freed := 0
			seat.OnEmpty(func(*CustomerSeat) { freed++ })
			seat.SetCustomer([]item.Flavor{item.FlavorA, item.FlavorB}, 10*time.Second, 2)
			seat.Advance(tc.elapsed)

			p := ref.players[player.One]
			p.Inventory.TryTake(item.FromDish(item.NewDish(item.FlavorB, item.FlavorA)))
			seat.Interact(p)

			assert.False(t, seat.Waiting())
			assert.Equal(t, 1, freed)
			assert.Equal(t, 500, ref.total(player.One))
			assert.Len(t, ref.spawns, tc.spawns)
			assert.Zero(t, seat.Order().Len())
		})
	}
}

func TestCustomerSeatAngerDoesNotStack(t *testing.T) {
	ref := newFakeReferee()
	seat := NewCustomerSeat("seat-1", ref, SeatRules{ServeReward: 500, ServePenalty: 500, ExpiryPenalty: 250, FastServeRatio: 0.7})
	seat.SetCustomer([]item.Flavor{item.FlavorA, item.FlavorB}, 10*time.Second, 2)
	p := ref.players[player.Two]

	p.Inventory.TryTake(item.FromDish(item.NewDish(item.FlavorA)))
	seat.Interact(p)
	assert.Equal(t, 2.0, seat.TimeMultiplier())

	p.Inventory.TryTake(item.NewIngredient(item.FlavorA))
	seat.Interact(p)
	assert.Equal(t, 2.0, seat.TimeMultiplier())

	assert.True(t, seat.Waiting())
	assert.False(t, p.Inventory.Has(), "submitted items are consumed")
	assert.Equal(t, -1000, ref.total(player.Two))

	seat.Advance(time.Second)
	assert.Equal(t, 8*time.Second, seat.Remaining())
}

func TestCustomerSeatExpiryPenalisesBoth(t *testing.T) {
	ref := newFakeReferee()
	seat := NewCustomerSeat("seat-1", ref, SeatRules{ServeReward: 500, ServePenalty: 500, ExpiryPenalty: 250, FastServeRatio: 0.7})
	var freed *CustomerSeat
	seat.OnEmpty(func(s *CustomerSeat) { freed = s })
	seat.SetCustomer([]item.Flavor{item.FlavorC, item.FlavorD}, 2*time.Second, 2)

	seat.Advance(time.Second)
	assert.InDelta(t, 0.5, seat.Progress(), 1e-9)
	seat.Advance(time.Second)

	assert.False(t, seat.Waiting())
	assert.Same(t, seat, freed)
	assert.Equal(t, -250, ref.total(player.One))
	assert.Equal(t, -250, ref.total(player.Two))
	assert.Contains(t, ref.journal, events.EventTypeCustomerExpired)
}

func TestCustomerSeatIgnoresWhenEmpty(t *testing.T) {
	ref := newFakeReferee()
	seat := NewCustomerSeat("seat-1", ref, SeatRules{ServePenalty: 500})
	p := ref.players[player.One]
	p.Inventory.TryTake(item.NewIngredient(item.FlavorA))

	seat.Interact(p)

	assert.True(t, p.Inventory.Has())
	assert.Empty(t, ref.awards)
}

func TestCustomerSeatRejectsDoubleSeating(t *testing.T) {
	seat := NewCustomerSeat("seat-1", newFakeReferee(), SeatRules{})
	seat.SetCustomer([]item.Flavor{item.FlavorA, item.FlavorB}, time.Second, 2)
	assert.Panics(t, func() {
		seat.SetCustomer([]item.Flavor{item.FlavorC, item.FlavorD}, time.Second, 2)
	})
}
