package game

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/platform-runner/internal/core"
)

// ErrAlreadyRunning is returned by Run when the runner was started before.
var ErrAlreadyRunning = errors.New("game: runner already started")

// IntentSource provides the directional intent sampled at each tick.
// Implementations must be safe to call from the Runner goroutine while
// other goroutines update them.
type IntentSource interface {
	Intent() core.Intent
}

// IntentFunc adapts a function to IntentSource.
type IntentFunc func() core.Intent

// Intent calls f.
func (f IntentFunc) Intent() core.Intent {
	return f()
}

// FixedIntent is an IntentSource that always returns the same intent.
type FixedIntent core.Intent

// Intent returns the fixed intent.
func (f FixedIntent) Intent() core.Intent {
	return core.Intent(f)
}

// Runner drives a Session at its tick rate on the goroutine that calls Run.
// Presentation reads the latest state through Snapshot without blocking the
// loop.
type Runner struct {
	session  *Session
	input    IntentSource
	logger   *log.Logger
	interval time.Duration
	pause    time.Duration

	observe  func(StepResult, Snapshot)

	snapshot atomic.Pointer[Snapshot]
	ticks    atomic.Int64
	done     chan Completion
	started  atomic.Bool
}

// NewRunner creates a runner for a session. A nil logger discards output.
func NewRunner(s *Session, input IntentSource, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if input == nil {
		input = FixedIntent{}
	}
	interval := time.Second / time.Duration(s.TickRate())
	r := &Runner{
		session:  s,
		input:    input,
		logger:   logger.With("level", s.Config().ID),
		interval: interval,
		pause:    interval * time.Duration(s.eng.Simulation.RespawnPauseTicks),
		done:     make(chan Completion, 1),
	}
	snap := s.Snapshot()
	r.snapshot.Store(&snap)
	return r
}

// OnOutcome registers fn to be called on the Runner goroutine after every
// tick with a notable outcome (a death, a fall or the finish). It must be
// called before Run.
func (r *Runner) OnOutcome(fn func(StepResult, Snapshot)) {
	r.observe = fn
}

// Snapshot returns the state published after the most recent tick.
func (r *Runner) Snapshot() Snapshot {
	return *r.snapshot.Load()
}

// Ticks returns the number of ticks run so far.
func (r *Runner) Ticks() int64 {
	return r.ticks.Load()
}

// Done delivers the completion once when the level is finished, then closes.
func (r *Runner) Done() <-chan Completion {
	return r.done
}

// Run ticks the session until the level is finished or ctx is cancelled.
// Deaths and falls reset the session, pause for the respawn delay and
// restart the tick bookkeeping; the loop keeps running. Run may be called
// once.
func (r *Runner) Run(ctx context.Context) (Completion, error) {
	if !r.started.CompareAndSwap(false, true) {
		return Completion{}, ErrAlreadyRunning
	}
	if c, ok := r.session.Completion(); ok {
		r.done <- c
		close(r.done)
		return c, nil
	}

	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	now := time.Now()
	deadline := now.Add(r.interval)
	secondStart := now
	ticks, late := 0, 0

	r.logger.Info("level started", "number", r.session.Config().LevelNumber, "rate", r.session.TickRate())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("level abandoned", "deaths", r.session.Deaths())
			return Completion{}, ctx.Err()
		case <-timer.C:
		}

		now = time.Now()
		if now.Sub(deadline) > r.interval {
			late++
		}

		res := r.session.Step(r.input.Intent())
		ticks++
		r.ticks.Add(1)
		snap := r.publish()
		if res.Outcome != OutcomeNone && r.observe != nil {
			r.observe(res, snap)
		}

		switch res.Outcome {
		case OutcomeDied, OutcomeFellOut:
			r.logDeath(res)
			if err := r.sleep(ctx, r.pause); err != nil {
				return Completion{}, err
			}
			// Restart bookkeeping from here.
			now = time.Now()
			deadline = now.Add(r.interval)
			secondStart = now
			ticks, late = 0, 0
			timer.Reset(r.interval)
			continue

		case OutcomeFinished:
			c := r.session.completion()
			r.logger.Info("level finished",
				"attempts", c.Attempts,
				"elapsed", c.Elapsed().Round(time.Millisecond))
			r.done <- c
			close(r.done)
			return c, nil
		}

		if now.Sub(secondStart) >= time.Second {
			r.logger.Debug("loop stats", "ticks", ticks, "late", late)
			r.session.ResetSecond()
			secondStart = now
			ticks, late = 0, 0
		}

		deadline = deadline.Add(r.interval)
		if now.Sub(deadline) > 2*r.interval {
			// Too far behind to catch up; drop the missed ticks.
			deadline = now.Add(r.interval)
		}
		timer.Reset(time.Until(deadline))
	}
}

func (r *Runner) publish() Snapshot {
	snap := r.session.Snapshot()
	r.snapshot.Store(&snap)
	return snap
}

func (r *Runner) logDeath(res StepResult) {
	msg := "player died"
	if res.Outcome == OutcomeFellOut {
		msg = "player fell out of the map"
	}
	if !res.Counted {
		r.logger.Debug(msg, "deaths", r.session.Deaths(), "repeat", true)
		return
	}
	r.logger.Info(msg, "deaths", r.session.Deaths())
}

// sleep waits for d or until ctx is done. The session is already reset when
// it is called, so returning early leaves no partial state behind.
func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
