package engine

import (
	"errors"
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/events"
)

var (
	// ErrUnknownPlayer is returned when a call names a cook the match does not know.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrUnknownStation is returned when an interaction targets a missing station.
	ErrUnknownStation = errors.New("unknown station")
	// ErrNotPlaying is returned when input arrives outside the Playing state.
	ErrNotPlaying = errors.New("match is not playing")
	// ErrPlayerLocked is returned when a cook pinned by a station tries to interact.
	ErrPlayerLocked = errors.New("player is locked")
)

// StationID identifies a station within a match, e.g. "board-1".
type StationID string

// StationKind is the variant tag of a station.
type StationKind string

const (
	KindDispenser    StationKind = "DISPENSER"
	KindPlate        StationKind = "PLATE"
	KindTrashBin     StationKind = "TRASH_BIN"
	KindCuttingBoard StationKind = "CUTTING_BOARD"
	KindCustomerSeat StationKind = "CUSTOMER_SEAT"
	KindPickup       StationKind = "PICKUP"
)

// Station is anything a cook can interact with.
type Station interface {
	ID() StationID
	Kind() StationKind
	// Interact consumes the cook's intent. Failed attempts are silent no-ops.
	Interact(p *player.Player)
	// Reset returns the station to its idle baseline, discarding anything it holds.
	Reset()
	// View is the read-only state render adapters draw.
	View() StationView
}

// Advancer is implemented by stations with an internal timer.
type Advancer interface {
	Advance(dt time.Duration)
}

// Referee is the handle stations use to report back into the running match.
// Implemented by *Match.
type Referee interface {
	AddPoints(points int, id player.ID, reason string) error
	AddTime(d time.Duration, id player.ID) error
	BoostPlayer(id player.ID) error
	SpawnPickup(id player.ID)
	Player(id player.ID) (*player.Player, bool)
	Players() []player.ID
	Journal(t events.EventType, actorID, targetID string, payload interface{})
}

// StationView is the presentation state of one station.
type StationView struct {
	ID         StationID   `json:"id"`
	Kind       StationKind `json:"kind"`
	InUse      bool        `json:"in_use,omitempty"`
	LockedBy   player.ID   `json:"locked_by,omitempty"`
	Progress   float64     `json:"progress"`
	Holding    string      `json:"holding,omitempty"`
	Flavor     string      `json:"flavor,omitempty"`
	Waiting    bool        `json:"waiting,omitempty"`
	Order      []string    `json:"order,omitempty"`
	Multiplier float64     `json:"multiplier,omitempty"`
}
