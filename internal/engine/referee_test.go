package engine

import (
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/events"
)

type award struct {
	id     player.ID
	points int
}

// fakeReferee records every callback a station makes.
type fakeReferee struct {
	players map[player.ID]*player.Player
	awards  []award
	time    map[player.ID]time.Duration
	boosts  []player.ID
	spawns  []player.ID
	journal []events.EventType
}

func newFakeReferee() *fakeReferee {
	return &fakeReferee{
		players: map[player.ID]*player.Player{
			player.One: player.NewPlayer(player.One, "one"),
			player.Two: player.NewPlayer(player.Two, "two"),
		},
		time: make(map[player.ID]time.Duration),
	}
}

func (r *fakeReferee) AddPoints(points int, id player.ID, _ string) error {
	r.awards = append(r.awards, award{id: id, points: points})
	return nil
}

func (r *fakeReferee) AddTime(d time.Duration, id player.ID) error {
	r.time[id] += d
	return nil
}

func (r *fakeReferee) BoostPlayer(id player.ID) error {
	r.boosts = append(r.boosts, id)
	return nil
}

func (r *fakeReferee) SpawnPickup(id player.ID) { r.spawns = append(r.spawns, id) }

func (r *fakeReferee) Player(id player.ID) (*player.Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

func (r *fakeReferee) Players() []player.ID { return []player.ID{player.One, player.Two} }

func (r *fakeReferee) Journal(t events.EventType, _, _ string, _ interface{}) {
	r.journal = append(r.journal, t)
}

func (r *fakeReferee) total(id player.ID) int {
	sum := 0
	for _, a := range r.awards {
		if a.id == id {
			sum += a.points
		}
	}
	return sum
}
