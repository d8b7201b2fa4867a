package engine

import "github.com/MRamiBalles/CookOff/server/internal/domain/player"

// PlayerView is what a render adapter shows for one cook.
type PlayerView struct {
	ID            player.ID  `json:"id"`
	Name          string     `json:"name"`
	Slot          int        `json:"slot"`
	TimeRemaining float64    `json:"time_remaining"` // seconds
	Score         int        `json:"score"`
	Boosted       bool       `json:"boosted"`
	Locked        bool       `json:"locked"`
	Velocity      player.Vec `json:"velocity"`
	Holding       []string   `json:"holding"`
}

// PickupView is a live pickup.
type PickupView struct {
	ID       StationID  `json:"id"`
	Reward   Reward     `json:"reward"`
	Target   player.ID  `json:"target"`
	Position player.Vec `json:"position"`
}

// Snapshot is a read-only copy of the match for presentation.
type Snapshot struct {
	MatchID     string             `json:"match_id"`
	State       State              `json:"state"`
	Players     []PlayerView       `json:"players"`
	Stations    []StationView      `json:"stations"`
	Pickups     []PickupView       `json:"pickups"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Result      *Result            `json:"result,omitempty"`
}

// Snapshot copies out everything a render adapter reads.
func (m *Match) Snapshot() Snapshot {
	snap := Snapshot{
		MatchID:     m.id,
		State:       m.state,
		Players:     make([]PlayerView, len(m.players)),
		Stations:    make([]StationView, len(m.stations)),
		Pickups:     make([]PickupView, 0, len(m.pickups.Live())),
		Leaderboard: m.Leaderboard(),
		Result:      m.lastResult,
	}
	for i, p := range m.players {
		c := m.clocks[p.ID]
		snap.Players[i] = PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			Slot:          i,
			TimeRemaining: c.timeRemaining.Seconds(),
			Score:         c.score,
			Boosted:       c.boostActive,
			Locked:        !p.CanMove(),
			Velocity:      p.Velocity(),
			Holding:       p.Inventory.Labels(),
		}
	}
	for i, s := range m.stations {
		snap.Stations[i] = s.View()
	}
	for _, pk := range m.pickups.Live() {
		snap.Pickups = append(snap.Pickups, PickupView{
			ID:       pk.ID(),
			Reward:   pk.Reward(),
			Target:   pk.Target(),
			Position: pk.Position(),
		})
	}
	return snap
}
