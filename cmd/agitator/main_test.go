package main

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/network"
)

func TestGenerateRandomActionIsWellFormed(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	seen := map[string]int{}
	for range 500 {
		a := generateRandomAction(rng, player.Two)
		assert.Equal(t, player.Two, a.PlayerID)
		seen[a.Type]++
		switch a.Type {
		case network.ActionMove:
			assert.LessOrEqual(t, a.Direction.X, 1.0)
			assert.GreaterOrEqual(t, a.Direction.X, -1.0)
		case network.ActionInteract:
			assert.True(t, slices.Contains(stationIDs, a.StationID), a.StationID)
		case network.ActionPause:
		default:
			t.Fatalf("unexpected action type %q", a.Type)
		}
	}
	assert.Positive(t, seen[network.ActionMove])
	assert.Positive(t, seen[network.ActionInteract])
}

func TestStationIDsCoverKitchen(t *testing.T) {
	assert.Contains(t, stationIDs, "dispenser-A")
	assert.Contains(t, stationIDs, "board-2")
	assert.Contains(t, stationIDs, "seat-4")
	assert.Len(t, stationIDs, 15)
}
