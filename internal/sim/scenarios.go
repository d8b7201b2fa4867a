package sim

import (
	"fmt"
	"slices"
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/events"
	"github.com/MRamiBalles/CookOff/server/internal/platform/config"
)

func shortShift(m *config.Match) {
	m.GameTime = 90 * time.Second
}

// DefaultScenarios is the stock soak suite.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Name:        "idle-kitchen",
			Description: "nobody cooks; every customer walks out and both cooks share the blame",
			Tune:        shortShift,
			Check:       checkIdleKitchen,
		},
		{
			Name:        "solo-cook",
			Description: "only P1 cooks and should win outright",
			Autopilot:   []player.ID{player.One},
			Tune:        shortShift,
			Check:       checkSoloCook,
		},
		{
			Name:        "full-shift",
			Description: "both cooks race for the same customers",
			Autopilot:   []player.ID{player.One, player.Two},
			Tune:        shortShift,
			Check:       checkFullShift,
		},
	}
}

func checkIdleKitchen(r Report) error {
	if n := r.Count(events.EventTypeCustomerServed); n != 0 {
		return fmt.Errorf("%d customers served in an idle kitchen", n)
	}
	expired := r.Count(events.EventTypeCustomerExpired)
	if expired == 0 {
		return fmt.Errorf("no customer expired")
	}
	p1, p2 := r.Result.Scores[player.One], r.Result.Scores[player.Two]
	if p1 != p2 {
		return fmt.Errorf("idle cooks diverged: %d vs %d", p1, p2)
	}
	if len(r.Result.Winners) != 2 {
		return fmt.Errorf("idle match should tie, winners %v", r.Result.Winners)
	}
	return nil
}

func checkSoloCook(r Report) error {
	if r.Served[player.One] == 0 {
		return fmt.Errorf("P1 served nobody")
	}
	if !slices.Equal(r.Result.Winners, []player.ID{player.One}) {
		return fmt.Errorf("expected P1 to win, winners %v", r.Result.Winners)
	}
	return nil
}

func checkFullShift(r Report) error {
	served := r.Count(events.EventTypeCustomerServed)
	if served == 0 {
		return fmt.Errorf("no customer served")
	}
	if got := r.Served[player.One] + r.Served[player.Two]; got != served {
		return fmt.Errorf("cooks report %d serves, journal has %d", got, served)
	}
	return nil
}
