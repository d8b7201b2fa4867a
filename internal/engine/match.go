package engine

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/CookOff/server/internal/domain/item"
	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/events"
	"github.com/MRamiBalles/CookOff/server/internal/platform/config"
	"github.com/MRamiBalles/CookOff/server/internal/platform/logger"
	"github.com/MRamiBalles/CookOff/server/internal/platform/metrics"
)

// State is the match lifecycle phase.
type State string

const (
	StateWaiting State = "WAITING"
	StatePlaying State = "PLAYING"
	StatePaused  State = "PAUSED"
)

// clock is the per-cook match state.
type clock struct {
	timeRemaining  time.Duration
	score          int
	boostActive    bool
	boostRemaining time.Duration
}

// LeaderboardEntry is one cook's result from a finished match.
type LeaderboardEntry struct {
	PlayerID player.ID `json:"player_id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	MatchID  string    `json:"match_id"`
	EndedAt  time.Time `json:"ended_at"`
}

// Result is the outcome of EndGame.
type Result struct {
	MatchID string            `json:"match_id"`
	Scores  map[player.ID]int `json:"scores"`
	Winners []player.ID       `json:"winners"`
}

// Match owns the cooks, the kitchen layout and the clocks of one running game.
// It is not safe for concurrent use; drive it from a single goroutine (see Ticker).
type Match struct {
	cfg     config.Match
	logger  *logger.Logger
	journal *events.EventLog
	rng     *rand.Rand
	now     func() time.Time

	id      string
	state   State
	players []*player.Player
	clocks  map[player.ID]*clock

	stations  []Station
	byID      map[StationID]Station
	customers *CustomerManager
	pickups   *PickupSpawner

	leaderboard []LeaderboardEntry
	lastResult  *Result
}

// NewMatch builds the kitchen described by cfg. journal may be nil.
func NewMatch(cfg config.Match, journal *events.EventLog, log *logger.Logger) *Match {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	m := &Match{
		cfg:     cfg,
		logger:  log,
		journal: journal,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:     time.Now,
		id:      uuid.NewString(),
		state:   StateWaiting,
		players: []*player.Player{
			player.NewPlayer(player.One, "Player 1"),
			player.NewPlayer(player.Two, "Player 2"),
		},
		clocks: make(map[player.ID]*clock),
		byID:   make(map[StationID]Station),
	}
	for _, p := range m.players {
		m.clocks[p.ID] = &clock{timeRemaining: cfg.GameTime}
	}
	m.buildKitchen()
	return m
}

func (m *Match) buildKitchen() {
	for _, f := range item.Flavors {
		m.addStation(NewDispenser(StationID("dispenser-"+string(f)), f))
	}
	for i := 1; i <= m.cfg.Plates; i++ {
		m.addStation(NewPlate(numbered("plate", i)))
	}
	m.addStation(NewTrashBin("trash-1", m, m.cfg.TrashPenalty))
	for i := 1; i <= m.cfg.Boards; i++ {
		m.addStation(NewCuttingBoard(numbered("board", i), m, m.cfg.ChopTime))
	}

	rules := SeatRules{
		ServeReward:    m.cfg.ServeReward,
		ServePenalty:   m.cfg.ServePenalty,
		ExpiryPenalty:  m.cfg.ExpiryPenalty,
		FastServeRatio: m.cfg.FastServeRatio,
	}
	seats := make([]*CustomerSeat, m.cfg.Seats)
	for i := range seats {
		seats[i] = NewCustomerSeat(numbered("seat", i+1), m, rules)
		m.addStation(seats[i])
	}
	m.customers = NewCustomerManager(m, m.rng, m.cfg.SeatingInterval, m.cfg.CustomerWait, m.cfg.AngryMultiplier, seats)
	m.pickups = NewPickupSpawner(m, m.rng, PickupRules{
		BonusTime:  m.cfg.PickupTime,
		BonusScore: m.cfg.PickupScore,
		HalfWidth:  m.cfg.SpawnHalfWidth,
		HalfHeight: m.cfg.SpawnHalfHeight,
	})
}

func numbered(prefix string, i int) StationID {
	return StationID(prefix + "-" + strconv.Itoa(i))
}

func (m *Match) addStation(s Station) {
	m.stations = append(m.stations, s)
	m.byID[s.ID()] = s
}

// ID returns the current match identifier. Reset assigns a new one.
func (m *Match) ID() string { return m.id }

// State returns the lifecycle phase.
func (m *Match) State() State { return m.state }

// Customers exposes the seat pool.
func (m *Match) Customers() *CustomerManager { return m.customers }

// Pickups exposes the pickup spawner.
func (m *Match) Pickups() *PickupSpawner { return m.pickups }

// Station looks up a fixed station or a live pickup.
func (m *Match) Station(id StationID) (Station, bool) {
	if s, ok := m.byID[id]; ok {
		return s, true
	}
	if pk, ok := m.pickups.Find(id); ok {
		return pk, true
	}
	return nil, false
}

// Stations returns the fixed stations in layout order.
func (m *Match) Stations() []Station { return m.stations }

// Player implements Referee.
func (m *Match) Player(id player.ID) (*player.Player, bool) {
	for _, p := range m.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Players implements Referee.
func (m *Match) Players() []player.ID {
	ids := make([]player.ID, len(m.players))
	for i, p := range m.players {
		ids[i] = p.ID
	}
	return ids
}

// Slot returns the cook's seat order, 0 for player one.
func (m *Match) Slot(id player.ID) (int, bool) {
	for i, p := range m.players {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Score returns the cook's current score.
func (m *Match) Score(id player.ID) (int, error) {
	c, err := m.clock(id)
	if err != nil {
		return 0, err
	}
	return c.score, nil
}

// TimeRemaining returns the cook's match clock.
func (m *Match) TimeRemaining(id player.ID) (time.Duration, error) {
	c, err := m.clock(id)
	if err != nil {
		return 0, err
	}
	return c.timeRemaining, nil
}

// BoostActive reports whether the cook is boosted.
func (m *Match) BoostActive(id player.ID) (bool, error) {
	c, err := m.clock(id)
	if err != nil {
		return false, err
	}
	return c.boostActive, nil
}

// Leaderboard returns past results, best first.
func (m *Match) Leaderboard() []LeaderboardEntry { return slices.Clone(m.leaderboard) }

// LastResult returns the most recent EndGame outcome, or nil.
func (m *Match) LastResult() *Result { return m.lastResult }

func (m *Match) clock(id player.ID) (*clock, error) {
	c, ok := m.clocks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, id)
	}
	return c, nil
}

// misuse logs and counts a call naming an unknown cook.
func (m *Match) misuse(op string, err error) error {
	metrics.Get().RecordMisuse()
	m.logger.Warn(op + ": " + err.Error())
	return err
}

// AddPoints adds points, possibly negative, to the cook's score.
func (m *Match) AddPoints(points int, id player.ID, reason string) error {
	c, err := m.clock(id)
	if err != nil {
		return m.misuse("add points", err)
	}
	c.score += points
	m.Journal(events.EventTypePointsAwarded, string(id), string(id), events.PointsPayload{
		PlayerID: string(id),
		Points:   points,
		Score:    c.score,
		Reason:   reason,
	})
	return nil
}

// AddTime extends the cook's match clock. There is no upper bound.
func (m *Match) AddTime(d time.Duration, id player.ID) error {
	c, err := m.clock(id)
	if err != nil {
		return m.misuse("add time", err)
	}
	c.timeRemaining += d
	m.Journal(events.EventTypeTimeAdded, string(id), string(id), map[string]float64{"seconds": d.Seconds()})
	return nil
}

// BoostPlayer (re)arms the cook's boost for the configured duration.
func (m *Match) BoostPlayer(id player.ID) error {
	c, err := m.clock(id)
	if err != nil {
		return m.misuse("boost player", err)
	}
	c.boostActive = true
	c.boostRemaining = m.cfg.BoostDuration
	p, _ := m.Player(id)
	p.SetBoosted(true)
	m.Journal(events.EventTypeBoostGranted, string(id), string(id), map[string]float64{"seconds": m.cfg.BoostDuration.Seconds()})
	return nil
}

// SpawnPickup implements Referee with a random reward.
func (m *Match) SpawnPickup(id player.ID) {
	if _, ok := m.clocks[id]; !ok {
		_ = m.misuse("spawn pickup", fmt.Errorf("%w: %q", ErrUnknownPlayer, id))
		return
	}
	m.pickups.Spawn(id, "")
}

// Journal implements Referee. Without a journal it is a no-op.
func (m *Match) Journal(t events.EventType, actorID, targetID string, payload interface{}) {
	if m.journal == nil {
		return
	}
	m.journal.Append(events.GameEvent{
		Type:     t,
		MatchID:  m.id,
		ActorID:  actorID,
		TargetID: targetID,
		Payload:  payload,
	})
}

// StartGame moves the match to Playing from any state. Starting after EndGame
// resets first, so a finished match is never played or recorded twice.
func (m *Match) StartGame() {
	if m.state == StateWaiting && m.lastResult != nil {
		m.Reset()
	}
	m.state = StatePlaying
	m.logger.Info("match started: " + m.id)
	m.Journal(events.EventTypeMatchStarted, events.ActorSystem, m.id, nil)
}

// RestartGame resets everything and starts again.
func (m *Match) RestartGame() {
	m.Reset()
	m.StartGame()
}

// Pause suspends or resumes play. Calls that do not match the current state are ignored.
func (m *Match) Pause(pause bool) {
	switch {
	case pause && m.state == StatePlaying:
		m.state = StatePaused
		m.Journal(events.EventTypeMatchPaused, events.ActorSystem, m.id, nil)
	case !pause && m.state == StatePaused:
		m.state = StatePlaying
		m.Journal(events.EventTypeMatchResumed, events.ActorSystem, m.id, nil)
	}
}

// RequestPause toggles between Playing and Paused.
func (m *Match) RequestPause() {
	m.Pause(m.state == StatePlaying)
}

// Advance is the single per-frame tick: match clocks, then customers, then station timers.
func (m *Match) Advance(dt time.Duration) {
	if m.state != StatePlaying {
		return
	}

	out := 0
	for _, p := range m.players {
		c := m.clocks[p.ID]
		c.timeRemaining -= dt
		if c.timeRemaining <= 0 {
			c.timeRemaining = 0
			out++
		}
		if c.boostActive {
			c.boostRemaining -= dt
			if c.boostRemaining <= 0 {
				c.boostRemaining = 0
				c.boostActive = false
				p.SetBoosted(false)
			}
		}
	}
	if out == len(m.players) {
		m.EndGame()
		return
	}

	// A customer seated this frame starts with full patience.
	seated := m.customers.Advance(dt)
	for _, s := range m.stations {
		if seated != nil && s == Station(seated) {
			continue
		}
		if a, ok := s.(Advancer); ok {
			a.Advance(dt)
		}
	}
}

// Interact routes a cook's interaction to a station or live pickup.
func (m *Match) Interact(id player.ID, stationID StationID) error {
	if m.state != StatePlaying {
		return ErrNotPlaying
	}
	p, ok := m.Player(id)
	if !ok {
		return m.misuse("interact", fmt.Errorf("%w: %q", ErrUnknownPlayer, id))
	}
	if !p.CanMove() {
		return fmt.Errorf("%w: %q", ErrPlayerLocked, id)
	}
	s, ok := m.Station(stationID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStation, stationID)
	}
	s.Interact(p)
	metrics.Get().RecordInteraction()
	return nil
}

// CanMove reports whether the cook may move right now.
func (m *Match) CanMove(id player.ID) bool {
	p, ok := m.Player(id)
	if !ok || m.state != StatePlaying || !p.CanMove() {
		return false
	}
	return m.clocks[id].timeRemaining > 0
}

// RequestMove turns an input direction into the cook's velocity.
func (m *Match) RequestMove(id player.ID, dir player.Vec) (player.Vec, error) {
	p, ok := m.Player(id)
	if !ok {
		return player.Vec{}, m.misuse("move", fmt.Errorf("%w: %q", ErrUnknownPlayer, id))
	}
	if !m.CanMove(id) {
		p.SetVelocity(player.Vec{})
		return player.Vec{}, nil
	}
	speed := m.cfg.MoveSpeed
	if p.Boosted() {
		speed *= m.cfg.BoostMultiplier
	}
	v := dir.Normalized().Scale(speed)
	p.SetVelocity(v)
	return v, nil
}

// EndGame freezes play, picks the winner and records both cooks on the leaderboard.
func (m *Match) EndGame() *Result {
	m.state = StateWaiting
	endedAt := m.now()

	res := &Result{MatchID: m.id, Scores: make(map[player.ID]int, len(m.players))}
	best := 0
	for i, p := range m.players {
		score := m.clocks[p.ID].score
		res.Scores[p.ID] = score
		switch {
		case i == 0 || score > best:
			best = score
			res.Winners = []player.ID{p.ID}
		case score == best:
			res.Winners = append(res.Winners, p.ID)
		}
		m.leaderboard = append(m.leaderboard, LeaderboardEntry{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    score,
			MatchID:  m.id,
			EndedAt:  endedAt,
		})
	}
	slices.SortStableFunc(m.leaderboard, func(a, b LeaderboardEntry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(m.leaderboard) > m.cfg.LeaderboardSize {
		m.leaderboard = m.leaderboard[:m.cfg.LeaderboardSize]
	}
	m.lastResult = res

	payload := events.MatchEndPayload{Scores: make(map[string]int, len(res.Scores))}
	for id, s := range res.Scores {
		payload.Scores[string(id)] = s
	}
	for _, id := range res.Winners {
		payload.Winners = append(payload.Winners, string(id))
	}
	m.Journal(events.EventTypeMatchEnded, events.ActorSystem, m.id, payload)
	metrics.Get().RecordMatchEnd()
	m.logger.Info(fmt.Sprintf("match ended: %s winners=%v", m.id, res.Winners))
	return res
}

// Reset returns every component to its starting state without rebuilding the kitchen.
// The leaderboard survives. The RNG is not reseeded, so orders and pickups after a
// reset continue the current sequence rather than repeating a fresh match's.
func (m *Match) Reset() {
	m.Journal(events.EventTypeMatchReset, events.ActorSystem, m.id, nil)
	for _, s := range m.stations {
		s.Reset()
	}
	m.customers.Reset()
	m.pickups.Reset()
	for _, p := range m.players {
		p.Reset()
		m.clocks[p.ID] = &clock{timeRemaining: m.cfg.GameTime}
	}
	m.state = StateWaiting
	m.lastResult = nil
	m.id = uuid.NewString()
}
