package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/CookOff/server/internal/domain/item"
)

func TestInventoryCapacity(t *testing.T) {
	var inv Inventory
	assert.True(t, inv.CanTake())
	assert.False(t, inv.Has())

	require.True(t, inv.TryTake(item.NewIngredient(item.FlavorA)))
	require.True(t, inv.TryTake(item.NewIngredient(item.FlavorB)))
	assert.False(t, inv.CanTake())

	assert.False(t, inv.TryTake(item.NewIngredient(item.FlavorC)))
	assert.Equal(t, 2, inv.Len())
	assert.Equal(t, []string{"A", "B"}, inv.Labels())
}

func TestInventoryPlaceIsFIFO(t *testing.T) {
	var inv Inventory
	inv.TryTake(item.NewIngredient(item.FlavorD))
	inv.TryTake(item.FromDish(item.NewDish(item.FlavorA)))

	first, ok := inv.Place()
	require.True(t, ok)
	f, _ := first.Ingredient()
	assert.Equal(t, item.FlavorD, f)

	inv.TryTake(item.NewIngredient(item.FlavorE))

	second, ok := inv.Place()
	require.True(t, ok)
	assert.Equal(t, item.KindDish, second.Kind())

	third, ok := inv.Place()
	require.True(t, ok)
	f, _ = third.Ingredient()
	assert.Equal(t, item.FlavorE, f)

	_, ok = inv.Place()
	assert.False(t, ok)
}

func TestPlayerReset(t *testing.T) {
	p := NewPlayer(One, "Ana")
	p.Inventory.TryTake(item.NewIngredient(item.FlavorA))
	p.Lock()
	p.SetBoosted(true)
	p.SetVelocity(Vec{X: 1})

	p.Reset()

	assert.True(t, p.CanMove())
	assert.False(t, p.Boosted())
	assert.False(t, p.Inventory.Has())
	assert.Equal(t, Vec{}, p.Velocity())
}

func TestVecNormalized(t *testing.T) {
	v := Vec{X: 3, Y: 4}.Normalized()
	assert.InDelta(t, 0.6, v.X, 1e-9)
	assert.InDelta(t, 0.8, v.Y, 1e-9)
	assert.Equal(t, Vec{}, Vec{}.Normalized())
}

func TestInventoryPeekLeavesItem(t *testing.T) {
	var inv Inventory
	_, ok := inv.Peek()
	assert.False(t, ok)

	inv.TryTake(item.NewIngredient(item.FlavorB))
	head, ok := inv.Peek()
	require.True(t, ok)
	assert.Equal(t, "B", head.Label())
	assert.Equal(t, 1, inv.Len())
}

func TestPlayerLocksNest(t *testing.T) {
	p := NewPlayer(Two, "Bo")
	p.Lock()
	p.Lock()

	p.Unlock()
	assert.False(t, p.CanMove(), "one hold still outstanding")

	p.Unlock()
	assert.True(t, p.CanMove())

	p.Unlock()
	assert.True(t, p.CanMove(), "extra unlock is harmless")
	p.Lock()
	assert.False(t, p.CanMove())
}
