package game

import (
	"context"
	"log/slog"
	"time"
)

// PlayerAction is an action submitted for one player.
type PlayerAction struct {
	Player int
	Action Action
}

// Runner drives a session in real time. Ticks arrive on a channel; actions
// submitted from any goroutine are queued and applied at the start of the
// next tick by the goroutine running Run, which is the only one touching
// the session.
type Runner struct {
	session *Session
	queue   chan PlayerAction
	logger  *slog.Logger
}

// NewRunner creates a runner with room for queueSize pending actions.
func NewRunner(s *Session, queueSize int) *Runner {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Runner{
		session: s,
		queue:   make(chan PlayerAction, queueSize),
		logger:  s.logger,
	}
}

// TickInterval returns the wall-clock period of one tick.
func TickInterval(ticksPerSecond int) time.Duration {
	if ticksPerSecond < 1 {
		ticksPerSecond = 1
	}
	return time.Second / time.Duration(ticksPerSecond)
}

// Submit queues an action for the next tick. It never blocks.
func (r *Runner) Submit(player int, a Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	select {
	case r.queue <- PlayerAction{Player: player, Action: a}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run ticks the session once per value received from ticks until the
// session ends, ticks is closed, or ctx is cancelled. onTick, if set, is
// called with the snapshot after every tick on the running goroutine.
func (r *Runner) Run(ctx context.Context, ticks <-chan time.Time, onTick func(Snapshot)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			r.drain()
			if err := r.session.Tick(); err != nil {
				return err
			}
			snap := r.session.Snapshot()
			if onTick != nil {
				onTick(snap)
			}
			if snap.Done() {
				return nil
			}
		}
	}
}

// drain applies every queued action in submission order.
func (r *Runner) drain() {
	for {
		select {
		case pa := <-r.queue:
			if err := r.session.Apply(pa.Player, pa.Action); err != nil {
				r.logger.Warn("dropping action", "player", pa.Player, "action", pa.Action.String(), "error", err)
			}
		default:
			return
		}
	}
}
