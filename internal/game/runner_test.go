package game

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vovakirdan/platform-runner/internal/board"
	"github.com/vovakirdan/platform-runner/internal/config"
	"github.com/vovakirdan/platform-runner/internal/core"
)

func fastEngine() *config.EngineConfig {
	eng := config.DefaultEngineConfig()
	eng.Simulation.TickRate = 500
	return &eng
}

func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

type runResult struct {
	c   Completion
	err error
}

func start(ctx context.Context, r *Runner) <-chan runResult {
	out := make(chan runResult, 1)
	go func() {
		c, err := r.Run(ctx)
		out <- runResult{c, err}
	}()
	return out
}

func TestRunnerKeepsTickingAfterFallingOut(t *testing.T) {
	s := newTestSession(t, level{w: 3, h: 3, startX: 1, gravity: 100, floorRow: -1, eng: fastEngine()})
	r := NewRunner(s, nil, nil)
	var falls atomic.Int32
	r.OnOutcome(func(res StepResult, snap Snapshot) {
		// The snapshot is taken after the reset; the result keeps the fall position.
		if res.Outcome == OutcomeFellOut && res.Y >= 2 && snap.Y == 0 {
			falls.Add(1)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := start(ctx, r)

	waitFor(t, 5*time.Second, "two deaths", func() bool { return r.Snapshot().Deaths >= 2 })
	waitFor(t, 5*time.Second, "two observed falls", func() bool { return falls.Load() >= 2 })
	ticks := r.Ticks()
	waitFor(t, 5*time.Second, "more ticks", func() bool { return r.Ticks() >= ticks+10 })

	cancel()
	select {
	case res := <-results:
		if !errors.Is(res.err, context.Canceled) {
			t.Errorf("Run() error = %v, expected context.Canceled", res.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	select {
	case _, ok := <-r.Done():
		if ok {
			t.Error("Done() delivered a completion for an abandoned level")
		}
	default:
	}
}

func TestRunnerDeliversCompletion(t *testing.T) {
	s := newTestSession(t, level{
		w: 4, h: 3, startX: 1, startY: 1, gravity: 9.8, floorRow: 2,
		tiles: map[board.Cell]board.Tile{{Col: 1, Row: 1}: board.Finish},
		eng:   fastEngine(),
	})
	r := NewRunner(s, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var res runResult
	select {
	case res = <-start(ctx, r):
	case <-time.After(10 * time.Second):
		t.Fatal("Run() did not finish")
	}
	if res.err != nil {
		t.Fatalf("Run() error = %v", res.err)
	}
	if res.c.Attempts != 1 || res.c.ElapsedFrames != 500 || res.c.TickRate != 500 {
		t.Errorf("Completion = %+v, expected 1 attempt in 500 frames", res.c)
	}
	if got := res.c.Elapsed(); got != time.Second {
		t.Errorf("Elapsed() = %v, expected 1s", got)
	}

	c, ok := <-r.Done()
	if !ok || c != res.c {
		t.Errorf("Done() = %+v, %v; expected %+v", c, ok, res.c)
	}
	if _, ok := <-r.Done(); ok {
		t.Error("Done() should be closed after the completion")
	}
	if snap := r.Snapshot(); snap.Motion != Finished || snap.Outcome != OutcomeFinished {
		t.Errorf("final snapshot motion/outcome = %v/%v", snap.Motion, snap.Outcome)
	}

	if _, err := r.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, expected ErrAlreadyRunning", err)
	}
}

func TestRunnerSamplesIntentEachTick(t *testing.T) {
	s := newTestSession(t, level{w: 40, h: 3, startY: 1, gravity: 9.8, floorRow: 2, eng: fastEngine()})
	var latch core.IntentLatch
	r := NewRunner(s, IntentFunc(latch.Intent), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := start(ctx, r)

	waitFor(t, 5*time.Second, "landing", func() bool { return r.Snapshot().Motion == Grounded })
	if vx := r.Snapshot().VX; vx != 0 {
		t.Fatalf("VX = %v before any intent", vx)
	}

	latch.Store(core.Intent{Right: true})
	waitFor(t, 5*time.Second, "rightward motion", func() bool { return r.Snapshot().VX > 0 })

	latch.Store(core.Intent{})
	waitFor(t, 5*time.Second, "stopping", func() bool { return r.Snapshot().VX == 0 })

	cancel()
	<-results
}

func TestRunnerInitialSnapshot(t *testing.T) {
	s := newTestSession(t, level{w: 5, h: 5, startX: 2, startY: 1, gravity: 9.8, floorRow: -1})
	r := NewRunner(s, nil, nil)

	snap := r.Snapshot()
	if snap.X != 2 || snap.Y != 1 || snap.VY != -2 || snap.LevelID != "test" {
		t.Errorf("initial snapshot = %+v", snap)
	}
	if r.Ticks() != 0 {
		t.Errorf("Ticks() = %d before Run", r.Ticks())
	}
}

func TestRunnerStopsDuringRespawnPause(t *testing.T) {
	eng := fastEngine()
	eng.Simulation.RespawnPauseTicks = 5000 // ten seconds at 500 ticks per second
	s := newTestSession(t, level{
		w: 3, h: 3, startX: 1, startY: 1, gravity: 9.8, floorRow: -1,
		tiles: map[board.Cell]board.Tile{{Col: 1, Row: 1}: board.Spike},
		eng:   eng,
	})
	r := NewRunner(s, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	results := start(ctx, r)
	waitFor(t, 5*time.Second, "first death", func() bool { return r.Snapshot().Deaths == 1 })
	cancel()

	select {
	case res := <-results:
		if !errors.Is(res.err, context.Canceled) {
			t.Errorf("Run() error = %v, expected context.Canceled", res.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return during the respawn pause")
	}
}
