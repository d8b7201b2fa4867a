package engine

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/events"
)

// Reward is what collecting a pickup grants.
type Reward string

const (
	RewardSpeed Reward = "SPEED"
	RewardTime  Reward = "TIME"
	RewardScore Reward = "SCORE"
)

// Rewards lists every reward type.
var Rewards = []Reward{RewardSpeed, RewardTime, RewardScore}

// Pickup is a reward only its target cook can collect.
type Pickup struct {
	id      StationID
	reward  Reward
	target  player.ID
	pos     player.Vec
	spawner *PickupSpawner
}

func (pk *Pickup) ID() StationID        { return pk.id }
func (pk *Pickup) Kind() StationKind    { return KindPickup }
func (pk *Pickup) Reward() Reward       { return pk.reward }
func (pk *Pickup) Target() player.ID    { return pk.target }
func (pk *Pickup) Position() player.Vec { return pk.pos }

// Interact collects the pickup if p is its target.
func (pk *Pickup) Interact(p *player.Player) {
	if p.ID != pk.target {
		return
	}
	pk.spawner.Activate(pk, p.ID)
}

// Reset is a no-op; the spawner owns pickup lifetime.
func (pk *Pickup) Reset() {}

func (pk *Pickup) View() StationView {
	return StationView{ID: pk.id, Kind: KindPickup, Flavor: string(pk.reward)}
}

// PickupRules is what each reward is worth.
type PickupRules struct {
	BonusTime  time.Duration
	BonusScore int
	HalfWidth  float64
	HalfHeight float64
}

// PickupSpawner places pickups in a rectangular zone centred on the origin.
type PickupSpawner struct {
	referee Referee
	rng     *rand.Rand
	rules   PickupRules
	live    []*Pickup
}

// NewPickupSpawner creates a spawner with no live pickups.
func NewPickupSpawner(referee Referee, rng *rand.Rand, rules PickupRules) *PickupSpawner {
	return &PickupSpawner{referee: referee, rng: rng, rules: rules}
}

// Spawn places a pickup for target. An empty reward is chosen at random.
func (s *PickupSpawner) Spawn(target player.ID, reward Reward) *Pickup {
	if reward == "" {
		reward = Rewards[s.rng.IntN(len(Rewards))]
	}
	pk := &Pickup{
		id:      StationID("pickup-" + uuid.NewString()),
		reward:  reward,
		target:  target,
		pos:     player.Vec{X: s.uniform(s.rules.HalfWidth), Y: s.uniform(s.rules.HalfHeight)},
		spawner: s,
	}
	s.live = append(s.live, pk)
	s.referee.Journal(events.EventTypePickupSpawned, events.ActorSystem, string(target), pk.payload())
	return pk
}

func (s *PickupSpawner) uniform(half float64) float64 {
	return (s.rng.Float64()*2 - 1) * half
}

// Activate removes pk and applies its reward to id. Already-collected pickups are ignored.
func (s *PickupSpawner) Activate(pk *Pickup, id player.ID) {
	i := s.index(pk.id)
	if i < 0 {
		return
	}
	s.live = append(s.live[:i], s.live[i+1:]...)

	switch pk.reward {
	case RewardSpeed:
		_ = s.referee.BoostPlayer(id)
	case RewardTime:
		_ = s.referee.AddTime(s.rules.BonusTime, id)
	case RewardScore:
		_ = s.referee.AddPoints(s.rules.BonusScore, id, "pickup")
	}
	s.referee.Journal(events.EventTypePickupCollected, string(id), string(pk.id), pk.payload())
}

// Live returns the uncollected pickups.
func (s *PickupSpawner) Live() []*Pickup { return s.live }

// Find looks up a live pickup.
func (s *PickupSpawner) Find(id StationID) (*Pickup, bool) {
	if i := s.index(id); i >= 0 {
		return s.live[i], true
	}
	return nil, false
}

func (s *PickupSpawner) index(id StationID) int {
	for i, pk := range s.live {
		if pk.id == id {
			return i
		}
	}
	return -1
}

// Reset destroys every live pickup.
func (s *PickupSpawner) Reset() {
	s.live = nil
}

func (pk *Pickup) payload() events.PickupPayload {
	return events.PickupPayload{
		PickupID: string(pk.id),
		Reward:   string(pk.reward),
		PlayerID: string(pk.target),
		X:        pk.pos.X,
		Y:        pk.pos.Y,
	}
}
