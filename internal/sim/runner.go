package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/engine"
	"github.com/MRamiBalles/CookOff/server/internal/events"
	"github.com/MRamiBalles/CookOff/server/internal/platform/config"
	"github.com/MRamiBalles/CookOff/server/internal/platform/logger"
)

// Report is what a finished simulated match left behind.
type Report struct {
	MatchID string
	Frames  int
	Result  *engine.Result
	Served  map[player.ID]int
	Journal []events.GameEvent
}

// Count returns how many journal events have type t.
func (r Report) Count(t events.EventType) int {
	n := 0
	for _, e := range r.Journal {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Tally sums POINTS_AWARDED per cook.
func (r Report) Tally() map[player.ID]int {
	out := make(map[player.ID]int)
	for _, e := range r.Journal {
		if p, ok := e.Payload.(events.PointsPayload); ok && e.Type == events.EventTypePointsAwarded {
			out[player.ID(p.PlayerID)] += p.Points
		}
	}
	return out
}

// Scenario is one simulated match and the checks its outcome must pass.
type Scenario struct {
	Name        string
	Description string
	Autopilot   []player.ID
	Tune        func(*config.Match)
	Check       func(Report) error
}

// Outcome captures the result of running one scenario.
type Outcome struct {
	Scenario string
	Report   Report
	Passed   bool
	Reason   string
}

// Runner plays scenarios to completion with a fixed frame step.
type Runner struct {
	cfg      config.Match
	step     time.Duration
	reaction time.Duration
	logger   *logger.Logger
}

// NewRunner creates a runner. cfg is copied and tuned per scenario.
func NewRunner(cfg config.Match, step, reaction time.Duration, log *logger.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		step:     step,
		reaction: reaction,
		logger:   log,
	}
}

// Play runs sc and returns the report without judging it.
func (r *Runner) Play(sc Scenario) (Report, error) {
	cfg := r.cfg
	if sc.Tune != nil {
		sc.Tune(&cfg)
	}
	journal := events.NewEventLog(nil)
	m := engine.NewMatch(cfg, journal, r.logger.With("scenario", sc.Name))

	if len(sc.Autopilot) > cfg.Boards {
		return Report{}, fmt.Errorf("scenario %s: %d cooks but only %d boards", sc.Name, len(sc.Autopilot), cfg.Boards)
	}
	cooks := make([]*Cook, 0, len(sc.Autopilot))
	for i, id := range sc.Autopilot {
		cooks = append(cooks, NewCook(id, engine.StationID(fmt.Sprintf("board-%d", i+1)), r.reaction))
	}

	// Pickups can extend a clock; four game lengths is a generous ceiling.
	maxFrames := int(4*cfg.GameTime/r.step) + 1

	m.StartGame()
	report := Report{MatchID: m.ID(), Served: make(map[player.ID]int)}
	claimed := make(map[engine.StationID]player.ID)
	for m.State() == engine.StatePlaying {
		if report.Frames >= maxFrames {
			return report, fmt.Errorf("scenario %s: match still running after %d frames", sc.Name, report.Frames)
		}
		for _, c := range cooks {
			c.Step(m, r.step, claimed)
		}
		m.Advance(r.step)
		report.Frames++
	}

	for _, c := range cooks {
		report.Served[c.ID()] = c.Served()
	}
	report.Result = m.LastResult()
	report.Journal = journal.GetByMatch(report.MatchID)
	return report, nil
}

// Run plays sc and judges it: the journal must account for every point,
// then the scenario's own check applies.
func (r *Runner) Run(sc Scenario) Outcome {
	out := Outcome{Scenario: sc.Name}
	report, err := r.Play(sc)
	out.Report = report
	if err == nil {
		err = verifyLedger(report)
	}
	if err == nil && sc.Check != nil {
		err = sc.Check(report)
	}
	if err != nil {
		out.Reason = err.Error()
		r.logger.Warn("scenario failed: " + sc.Name + ": " + out.Reason)
		return out
	}
	out.Passed = true
	r.logger.Info(fmt.Sprintf("scenario passed: %s (%d frames)", sc.Name, report.Frames))
	return out
}

func verifyLedger(r Report) error {
	if r.Result == nil {
		return errors.New("match ended without a result")
	}
	tally := r.Tally()
	var errs []error
	for id, score := range r.Result.Scores {
		if tally[id] != score {
			errs = append(errs, fmt.Errorf("%s: journal sums to %d, final score %d", id, tally[id], score))
		}
	}
	return errors.Join(errs...)
}
