package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/pthm-cable/bubbletrouble/telemetry"
)

func TestEvaluateDeterministic(t *testing.T) {
	opts := EvalOptions{
		NewAgent: func(seed int64) Agent { return NewRandom(seed) },
		Episodes: 6,
		Workers:  3,
		Seed:     100,
		MaxSteps: 400,
		Logger:   quietLogger(),
	}

	first, err := Evaluate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Workers = 1
	second, err := Evaluate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 6 || len(second) != 6 {
		t.Fatalf("records = %d and %d, want 6", len(first), len(second))
	}
	for i := range first {
		a, b := first[i].Result, second[i].Result
		if a.Seed != 100+int64(i) {
			t.Errorf("episode %d seed = %d, want %d", i, a.Seed, 100+i)
		}
		if a.Score != b.Score || a.Ticks != b.Ticks || a.Outcome != b.Outcome {
			t.Errorf("episode %d differs across worker counts: %+v vs %+v", i, a, b)
		}
		if len(first[i].Levels) == 0 {
			t.Errorf("episode %d has no level records", i)
		}
	}

	if s := telemetry.Summarize(Results(first)); s.Episodes != 6 {
		t.Errorf("summary episodes = %d, want 6", s.Episodes)
	}
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Evaluate(ctx, EvalOptions{
		NewAgent: func(int64) Agent { return Idle{} },
		Episodes: 4,
		Logger:   quietLogger(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
