package engine

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/events"
)

func newTestSpawner(ref Referee) *PickupSpawner {
	return NewPickupSpawner(ref, rand.New(rand.NewPCG(3, 5)), PickupRules{
		BonusTime:  15 * time.Second,
		BonusScore: 50,
		HalfWidth:  8,
		HalfHeight: 4,
	})
}

func TestPickupOnlyTargetCollects(t *testing.T) {
	ref := newFakeReferee()
	s := newTestSpawner(ref)
	pk := s.Spawn(player.One, RewardScore)

	pk.Interact(ref.players[player.Two])
	assert.Len(t, s.Live(), 1)
	assert.Empty(t, ref.awards)

	pk.Interact(ref.players[player.One])
	assert.Empty(t, s.Live())
	assert.Equal(t, 50, ref.total(player.One))
	assert.Equal(t, []events.EventType{events.EventTypePickupSpawned, events.EventTypePickupCollected}, ref.journal)

	pk.Interact(ref.players[player.One])
	assert.Equal(t, 50, ref.total(player.One), "collected pickups cannot pay out twice")
}

func TestPickupRewards(t *testing.T) {
	ref := newFakeReferee()
	s := newTestSpawner(ref)

	s.Spawn(player.Two, RewardTime).Interact(ref.players[player.Two])
	s.Spawn(player.Two, RewardSpeed).Interact(ref.players[player.Two])

	assert.Equal(t, 15*time.Second, ref.time[player.Two])
	assert.Equal(t, []player.ID{player.Two}, ref.boosts)
	assert.Empty(t, ref.time[player.One])
}

func TestPickupSpawnInsideZone(t *testing.T) {
	ref := newFakeReferee()
	s := newTestSpawner(ref)
	rewards := map[Reward]bool{}

	for range 200 {
		pk := s.Spawn(player.One, "")
		pos := pk.Position()
		require.LessOrEqual(t, pos.X, 8.0)
		require.GreaterOrEqual(t, pos.X, -8.0)
		require.LessOrEqual(t, pos.Y, 4.0)
		require.GreaterOrEqual(t, pos.Y, -4.0)
		rewards[pk.Reward()] = true
	}
	assert.Len(t, rewards, len(Rewards))
	assert.Len(t, s.Live(), 200)

	found, ok := s.Find(s.Live()[10].ID())
	require.True(t, ok)
	assert.Equal(t, KindPickup, found.Kind())

	s.Reset()
	assert.Empty(t, s.Live())
}
