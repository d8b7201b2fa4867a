package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/CookOff/server/internal/domain/player"
	"github.com/MRamiBalles/CookOff/server/internal/platform/logger"
)

func TestTickerSerializesCommands(t *testing.T) {
	m := newTestMatch(t, testMatchConfig())
	frames := make(chan Snapshot, 16)
	tk := NewTicker(m, logger.NewNopLogger(), 5*time.Millisecond, 1, 4, func(s Snapshot) {
		select {
		case frames <- s:
		default:
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tk.Start(ctx)

	require.NoError(t, tk.Do(ctx, func(m *Match) error {
		m.StartGame()
		return nil
	}))
	boom := errors.New("boom")
	assert.ErrorIs(t, tk.Do(ctx, func(*Match) error { return boom }), boom)

	deadline := time.After(time.Second)
	for running := false; !running; {
		select {
		case snap := <-frames:
			running = snap.State == StatePlaying && snap.Players[0].TimeRemaining < 900
		case <-deadline:
			t.Fatal("no running frame published")
		}
	}

	snap, err := tk.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, player.One, snap.Players[0].ID)
}

func TestTickerStop(t *testing.T) {
	tk := NewTicker(newTestMatch(t, testMatchConfig()), logger.NewNopLogger(), time.Millisecond, 1, 0, nil)
	done := make(chan struct{})
	go func() {
		tk.Start(context.Background())
		close(done)
	}()

	tk.Stop()
	tk.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
	err := tk.Do(context.Background(), func(*Match) error { return nil })
	assert.ErrorIs(t, err, ErrTickerStopped)
}

func TestTickerDoFailsFastOnceLoopExits(t *testing.T) {
	tk := NewTicker(newTestMatch(t, testMatchConfig()), logger.NewNopLogger(), time.Millisecond, 1, 8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tk.Start(ctx)
		close(done)
	}()
	cancel()
	<-done

	// The buffer has room, so the send succeeds; Do must still notice the loop is gone.
	errs := make(chan error, 1)
	go func() { errs <- tk.Do(context.Background(), func(*Match) error { return nil }) }()
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ErrTickerStopped)
	case <-time.After(time.Second):
		t.Fatal("Do blocked after the loop exited")
	}
}

func TestTickerNeverRunsTimedOutCommand(t *testing.T) {
	tk := NewTicker(newTestMatch(t, testMatchConfig()), logger.NewNopLogger(), time.Millisecond, 1, 4, nil)

	short, cancelShort := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelShort()
	err := tk.Do(short, func(m *Match) error {
		m.StartGame()
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tk.Start(ctx)

	snap, err := tk.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateWaiting, snap.State, "a command reported as failed must not be applied")
}
