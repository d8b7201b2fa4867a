// Package item defines the things a cook can carry: raw ingredients and prepared dishes.
// This package is PURE and must NOT import any infrastructure packages.
package item

import (
	"fmt"
	"slices"
	"strings"
)

// Flavor tags a single ingredient. The alphabet is fixed.
type Flavor string

const (
	FlavorA Flavor = "A"
	FlavorB Flavor = "B"
	FlavorC Flavor = "C"
	FlavorD Flavor = "D"
	FlavorE Flavor = "E"
	FlavorF Flavor = "F"
)

// Flavors lists the whole alphabet in sort order.
var Flavors = []Flavor{FlavorA, FlavorB, FlavorC, FlavorD, FlavorE, FlavorF}

// Valid reports whether f belongs to the alphabet.
func (f Flavor) Valid() bool {
	return slices.Contains(Flavors, f)
}

// Kind is the variant tag of an Item.
type Kind string

const (
	KindIngredient Kind = "INGREDIENT"
	KindDish       Kind = "DISH"
)

// Item is a closed variant over {Ingredient, Dish}. The zero Item is invalid.
type Item struct {
	kind   Kind
	flavor Flavor
	dish   *Dish
}

// NewIngredient creates a raw ingredient item.
func NewIngredient(f Flavor) Item {
	return Item{kind: KindIngredient, flavor: f}
}

// FromDish wraps a dish so it can be carried.
func FromDish(d *Dish) Item {
	if d == nil {
		panic("item: FromDish called with nil dish")
	}
	return Item{kind: KindDish, dish: d}
}

// Kind returns the variant tag.
func (i Item) Kind() Kind { return i.kind }

// Ingredient returns the flavor if the item is a raw ingredient.
func (i Item) Ingredient() (Flavor, bool) {
	if i.kind != KindIngredient {
		return "", false
	}
	return i.flavor, true
}

// Dish returns the dish if the item is a prepared dish.
func (i Item) Dish() (*Dish, bool) {
	if i.kind != KindDish {
		return nil, false
	}
	return i.dish, true
}

// Label renders the item the way the HUD shows it: "A" for an ingredient, "[A,B]" for a dish.
func (i Item) Label() string {
	switch i.kind {
	case KindIngredient:
		return string(i.flavor)
	case KindDish:
		return i.dish.String()
	default:
		return ""
	}
}

// Dish is a multiset of flavors. Contents are always kept sorted so two dishes
// holding the same flavors compare equal pairwise.
type Dish struct {
	contents []Flavor
}

// NewDish creates a dish from any number of flavors, in any order.
func NewDish(flavors ...Flavor) *Dish {
	d := &Dish{}
	d.AddFlavors(flavors...)
	return d
}

// AddIngredient consumes a raw ingredient into the dish.
func (d *Dish) AddIngredient(f Flavor) {
	pos, _ := slices.BinarySearch(d.contents, f)
	d.contents = slices.Insert(d.contents, pos, f)
}

// AddFlavors bulk-appends flavors. Used to encode a customer's order.
func (d *Dish) AddFlavors(flavors ...Flavor) {
	d.contents = append(d.contents, flavors...)
	slices.Sort(d.contents)
}

// Merge moves every flavor of other into d. other is left empty.
func (d *Dish) Merge(other *Dish) {
	if other == d {
		panic("item: dish merged into itself")
	}
	d.AddFlavors(other.contents...)
	other.contents = nil
}

// Clear empties the dish without discarding it.
func (d *Dish) Clear() {
	d.contents = d.contents[:0]
}

// Len returns the number of flavors held.
func (d *Dish) Len() int { return len(d.contents) }

// Contents returns a sorted copy of the flavors held.
func (d *Dish) Contents() []Flavor {
	return slices.Clone(d.contents)
}

// String renders the dish as "[A,B,C]".
func (d *Dish) String() string {
	parts := make([]string, len(d.contents))
	for i, f := range d.contents {
		parts[i] = string(f)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Match reports whether two dishes hold the same multiset of flavors.
func Match(a, b *Dish) bool {
	if a == nil || b == nil {
		return false
	}
	mustBeSorted(a)
	mustBeSorted(b)
	return slices.Equal(a.contents, b.contents)
}

func mustBeSorted(d *Dish) {
	if !slices.IsSorted(d.contents) {
		panic(fmt.Sprintf("item: dish contents out of order: %v", d.contents))
	}
}
