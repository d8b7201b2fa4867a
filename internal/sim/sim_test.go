package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/CookOff/server/internal/domain/item"
	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/engine"
	"github.com/MRamiBalles/CookOff/server/internal/events"
	"github.com/MRamiBalles/CookOff/server/internal/platform/config"
	"github.com/MRamiBalles/CookOff/server/internal/platform/logger"
)

func testRunner(t *testing.T) *Runner {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Match.Seed = 42
	return NewRunner(cfg.Match, 50*time.Millisecond, 250*time.Millisecond, logger.NewNopLogger())
}

func TestDefaultScenariosPass(t *testing.T) {
	r := testRunner(t)
	for _, sc := range DefaultScenarios() {
		t.Run(sc.Name, func(t *testing.T) {
			out := r.Run(sc)
			assert.True(t, out.Passed, out.Reason)
			assert.NotEmpty(t, out.Report.MatchID)
		})
	}
}

func TestCookServesOneCustomer(t *testing.T) {
	r := testRunner(t)
	report, err := r.Play(Scenario{
		Name:      "single-seat",
		Autopilot: []player.ID{player.One},
		Tune: func(m *config.Match) {
			m.GameTime = 30 * time.Second
			m.Seats = 1
			m.SeatingInterval = time.Second
			m.CustomerWait = 100 * time.Second
		},
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, report.Served[player.One], 1)
	assert.Equal(t, report.Served[player.One], report.Count(events.EventTypeCustomerServed))
	assert.Zero(t, report.Count(events.EventTypeCustomerAngered))
	assert.Zero(t, report.Count(events.EventTypeItemTrashed))
	assert.NoError(t, verifyLedger(report))
}

func TestPlayRejectsMoreCooksThanBoards(t *testing.T) {
	r := testRunner(t)
	_, err := r.Play(Scenario{
		Name:      "crowded",
		Autopilot: []player.ID{player.One, player.Two},
		Tune:      func(m *config.Match) { m.Boards = 1 },
	})
	assert.Error(t, err)
}

func TestVerifyLedgerCatchesDrift(t *testing.T) {
	report := Report{
		Result: &engine.Result{Scores: map[player.ID]int{player.One: 500, player.Two: 0}},
		Journal: []events.GameEvent{
			{Type: events.EventTypePointsAwarded, Payload: events.PointsPayload{PlayerID: "P1", Points: 450}},
		},
	}
	assert.Error(t, verifyLedger(report))

	report.Journal = append(report.Journal, events.GameEvent{
		Type:    events.EventTypePointsAwarded,
		Payload: events.PointsPayload{PlayerID: "P1", Points: 50},
	})
	assert.NoError(t, verifyLedger(report))

	assert.Error(t, verifyLedger(Report{}))
}

func TestMissingFlavor(t *testing.T) {
	order := item.NewDish(item.FlavorA, item.FlavorC)

	f, ok := missing(order, nil)
	require.True(t, ok)
	assert.Equal(t, item.FlavorA, f)

	f, ok = missing(order, item.NewDish(item.FlavorA))
	require.True(t, ok)
	assert.Equal(t, item.FlavorC, f)

	_, ok = missing(order, item.NewDish(item.FlavorC, item.FlavorA))
	assert.False(t, ok)
}
