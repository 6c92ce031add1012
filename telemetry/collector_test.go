package telemetry

import (
	"testing"

	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/game"
	"github.com/pthm-cable/bubbletrouble/level"
	"github.com/pthm-cable/bubbletrouble/progress"
)

func TestCollectorAttempts(t *testing.T) {
	c := NewCollector("ep", 50)
	events := []game.Event{
		{Type: game.EventLevelStart, Level: 1, Tick: 0},
		{Type: game.EventPop, Level: 1, Tick: 10, Points: 50},
		{Type: game.EventLifeLost, Level: 1, Tick: 50, Lives: 2},
		{Type: game.EventLevelStart, Level: 1, Tick: 100, Score: 50, Lives: 2},
		{Type: game.EventPop, Level: 1, Tick: 120, Points: 50},
		{Type: game.EventBonus, Level: 1, Tick: 130},
		{Type: game.EventLevelCompleted, Level: 1, Tick: 200, Score: 100, TimeLeft: 20, Lives: 2},
		{Type: game.EventTimeBonus, Level: 1, Tick: 200, Points: 200, Score: 300},
		{Type: game.EventLevelStart, Level: 2, Tick: 200, Score: 300, Lives: 2},
		{Type: game.EventLifeLost, Level: 2, Tick: 250, Lives: 0},
		{Type: game.EventGameOver, Level: 2, Tick: 250, Score: 300},
	}
	for _, e := range events {
		c.Observe(e)
	}

	got := c.Levels()
	if len(got) != 3 {
		t.Fatalf("attempts = %d, want 3", len(got))
	}

	tests := []struct {
		level, attempt int
		outcome        string
		popped, deaths int
		points         int
		duration       float64
	}{
		{1, 1, OutcomeDied, 1, 1, 50, 2},
		{1, 2, OutcomeCleared, 1, 0, 250, 2},
		{2, 1, OutcomeGameOver, 0, 1, 0, 1},
	}
	for i, tt := range tests {
		r := got[i]
		if r.Level != tt.level || r.Attempt != tt.attempt || r.Outcome != tt.outcome {
			t.Errorf("attempt %d = level %d #%d %s, want level %d #%d %s",
				i, r.Level, r.Attempt, r.Outcome, tt.level, tt.attempt, tt.outcome)
		}
		if r.Popped != tt.popped || r.Deaths != tt.deaths || r.Points != tt.points {
			t.Errorf("attempt %d popped/deaths/points = %d/%d/%d, want %d/%d/%d",
				i, r.Popped, r.Deaths, r.Points, tt.popped, tt.deaths, tt.points)
		}
		if r.DurationSec != tt.duration {
			t.Errorf("attempt %d duration = %v, want %v", i, r.DurationSec, tt.duration)
		}
		if r.Episode != "ep" {
			t.Errorf("attempt %d episode = %q, want ep", i, r.Episode)
		}
	}
	if got[1].Score != 300 {
		t.Errorf("cleared attempt score = %d, want 300 including time bonus", got[1].Score)
	}

	totals := c.Totals()
	if totals != (Totals{Popped: 2, Deaths: 2, Bonuses: 1, TimeBonus: 200}) {
		t.Errorf("Totals = %+v", totals)
	}

	c.Reset("next")
	if len(c.Levels()) != 0 || c.Totals() != (Totals{}) {
		t.Error("Reset kept records")
	}
}

func TestCollectorObservesSession(t *testing.T) {
	cfg := config.Default().Clone()
	cfg.Bubbles.Ball.Gravity = 0
	cfg.Bonus.DropChance = 0

	set, err := level.NewSet(level.Definition{
		Number: 1,
		Time:   30,
		Balls:  []level.Spawn{{X: 320, Y: 100, Size: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	c := NewCollector("session", cfg.Physics.TicksPerSecond)
	s, err := game.NewSession(game.Options{
		Config:   cfg,
		Levels:   set,
		Progress: progress.NewMemoryStore(1),
		Observer: c,
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(1); err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(0, game.ActionFire); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200 && !s.Done(); i++ {
		if err := s.Tick(); err != nil {
			t.Fatal(err)
		}
	}

	levels := c.Levels()
	if len(levels) != 1 {
		t.Fatalf("attempts = %d, want 1", len(levels))
	}
	if levels[0].Outcome != OutcomeCleared || levels[0].Popped != 1 {
		t.Errorf("attempt = %+v, want one pop and cleared", levels[0])
	}
	if levels[0].Score != s.Score() {
		t.Errorf("attempt score = %d, want %d", levels[0].Score, s.Score())
	}
}

func TestCollectorCloseUnfinished(t *testing.T) {
	c := NewCollector("ep", 60)
	c.Observe(game.Event{Type: game.EventLevelStart, Level: 3, Tick: 5})
	c.Close(game.Snapshot{Tick: 65, Level: 3, Score: 10, TimeLeft: 7})

	levels := c.Levels()
	if len(levels) != 1 || levels[0].Outcome != OutcomeUnfinished {
		t.Fatalf("levels = %+v, want one unfinished attempt", levels)
	}
	if levels[0].DurationSec != 1 || levels[0].TimeLeft != 7 {
		t.Errorf("duration %v time left %d, want 1 7", levels[0].DurationSec, levels[0].TimeLeft)
	}

	c.Close(game.Snapshot{})
	if len(c.Levels()) != 1 {
		t.Error("second Close added a record")
	}
}
