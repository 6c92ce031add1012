package game

import (
	"io"
	"log/slog"
	"testing"

	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/level"
	"github.com/pthm-cable/bubbletrouble/progress"
)

// staticConfig returns defaults with motion and randomness switched off so
// bubbles hang where the level places them.
func staticConfig() *config.Config {
	cfg := config.Default().Clone()
	cfg.Bubbles.Ball.Gravity = 0
	cfg.Bubbles.Hexagon.Gravity = 0
	cfg.Split.ChildSpeedX = 0
	cfg.Split.KickY = 0
	cfg.Bonus.DropChance = 0
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustSet(t *testing.T, defs ...level.Definition) *level.Set {
	t.Helper()
	set, err := level.NewSet(defs...)
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return set
}

func ball(x, y float32, size int) level.Spawn {
	return level.Spawn{X: x, Y: y, Size: size}
}

// startSession creates and starts a session on level 1.
func startSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	if opts.Progress == nil {
		opts.Progress = progress.NewMemoryStore(1)
	}
	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.Start(1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

// fireUntilPop fires player 0 and ticks until the score changes.
func fireUntilPop(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Apply(0, ActionFire); err != nil {
		t.Fatalf("Apply(fire): %v", err)
	}
	before := s.Score()
	for i := 0; i < 200; i++ {
		if err := s.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		if s.Score() != before {
			return
		}
	}
	t.Fatal("shot never popped a bubble")
}

func mustTick(t *testing.T, s *Session, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.Tick(); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}
}

// recorder collects events.
type recorder struct {
	events []Event
}

func (r *recorder) Observe(e Event) { r.events = append(r.events, e) }

func (r *recorder) count(t EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func levelDef(n, seconds int, balls ...level.Spawn) level.Definition {
	return level.Definition{Number: n, Time: seconds, Balls: balls}
}
