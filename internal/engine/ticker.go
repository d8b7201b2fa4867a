package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MRamiBalles/CookOff/server/internal/platform/logger"
	"github.com/MRamiBalles/CookOff/server/internal/platform/metrics"
)

// ErrTickerStopped is returned by Do once the loop has exited or been stopped.
var ErrTickerStopped = errors.New("ticker stopped")

// Command lifecycle. The loop and the caller race to move a command out of
// pending; whoever wins decides whether fn runs.
const (
	cmdPending int32 = iota
	cmdRunning
	cmdAbandoned
)

type command struct {
	fn    func(*Match) error
	state atomic.Int32
	done  chan error
}

// Ticker is the real-time heartbeat. It owns the Match: the frame tick and
// every mutating call run on its goroutine, one at a time.
type Ticker struct {
	match    *Match
	logger   *logger.Logger
	rate     time.Duration
	every    int
	onFrame  func(Snapshot)
	commands chan *command
	stopChan chan struct{}
	stopOnce sync.Once
	exited   chan struct{}
	exitOnce sync.Once
	frame    int64
}

// NewTicker creates a ticker that advances m every rate and hands a snapshot
// to onFrame every `every` frames. onFrame may be nil.
func NewTicker(m *Match, log *logger.Logger, rate time.Duration, every, buffer int, onFrame func(Snapshot)) *Ticker {
	return &Ticker{
		match:    m,
		logger:   log,
		rate:     rate,
		every:    max(every, 1),
		onFrame:  onFrame,
		commands: make(chan *command, buffer),
		stopChan: make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

// Start runs the loop until ctx is done or Stop is called. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("kitchen ticker started")
	defer t.exitOnce.Do(func() { close(t.exited) })

	ticker := time.NewTicker(t.rate)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("kitchen ticker stopped by context")
			return
		case <-t.stopChan:
			t.logger.Info("kitchen ticker stopped")
			return
		case cmd := <-t.commands:
			t.run(cmd)
		case now := <-ticker.C:
			t.tick(now.Sub(last))
			last = now
		}
	}
}

// Stop ends the loop. Safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stopChan) })
}

// Do runs fn against the match on the loop goroutine and returns its error.
// When Do returns ctx's error or ErrTickerStopped, fn has not run and never will.
func (t *Ticker) Do(ctx context.Context, fn func(*Match) error) error {
	cmd := &command{fn: fn, done: make(chan error, 1)}
	select {
	case t.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-t.stopChan:
		return ErrTickerStopped
	case <-t.exited:
		return ErrTickerStopped
	}
	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return abandon(cmd, ctx.Err())
	case <-t.exited:
		return abandon(cmd, ErrTickerStopped)
	}
}

// abandon withdraws a queued command. If the loop already picked it up, its
// result is awaited instead.
func abandon(cmd *command, err error) error {
	if cmd.state.CompareAndSwap(cmdPending, cmdAbandoned) {
		return err
	}
	return <-cmd.done
}

func (t *Ticker) run(cmd *command) {
	if !cmd.state.CompareAndSwap(cmdPending, cmdRunning) {
		return
	}
	cmd.done <- cmd.fn(t.match)
}

// Snapshot reads the match through the loop.
func (t *Ticker) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := t.Do(ctx, func(m *Match) error {
		snap = m.Snapshot()
		return nil
	})
	return snap, err
}

func (t *Ticker) tick(dt time.Duration) {
	start := time.Now()
	t.match.Advance(dt)
	metrics.Get().RecordTick(time.Since(start))

	t.frame++
	if t.onFrame != nil && t.frame%int64(t.every) == 0 {
		t.onFrame(t.match.Snapshot())
	}
}
