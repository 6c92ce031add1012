package agent

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/game"
	"github.com/pthm-cable/bubbletrouble/level"
	"github.com/pthm-cable/bubbletrouble/progress"
	"github.com/pthm-cable/bubbletrouble/telemetry"
)

// EvalOptions configures a batch of independent episodes.
type EvalOptions struct {
	Config   *config.Config
	Levels   *level.Set
	NewAgent func(seed int64) Agent
	Episodes int
	Workers  int   // 0 = GOMAXPROCS
	Seed     int64 // episode i runs with Seed+i
	MaxSteps int   // 0 = unlimited
	Logger   *slog.Logger
}

// EpisodeRecord is the outcome of one evaluated episode.
type EpisodeRecord struct {
	Result telemetry.EpisodeResult
	Levels []telemetry.LevelStats
}

// Evaluate plays opts.Episodes episodes across a pool of workers. Every
// episode gets its own session, agent and in-memory progress store, so
// results depend only on the seed. Records come back in episode order.
func Evaluate(ctx context.Context, opts EvalOptions) ([]EpisodeRecord, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Levels == nil {
		opts.Levels = level.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, max(opts.Episodes, 1))

	records := make([]EpisodeRecord, opts.Episodes)
	errs := make([]error, opts.Episodes)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i], errs[i] = evaluateOne(ctx, opts, opts.Seed+int64(i))
			}
		}()
	}

feed:
	for i := 0; i < opts.Episodes; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func evaluateOne(ctx context.Context, opts EvalOptions, seed int64) (EpisodeRecord, error) {
	collector := telemetry.NewCollector("", opts.Config.Physics.TicksPerSecond)
	env := game.NewEnv(game.EnvOptions{
		Config:   opts.Config,
		Levels:   opts.Levels,
		Progress: progress.NewMemoryStore(1),
		Seed:     seed,
		MaxSteps: opts.MaxSteps,
		Observer: collector,
		Logger:   opts.Logger,
	})
	defer env.Close()

	result, err := Play(ctx, env, opts.NewAgent(seed), PlayOptions{Collector: collector})
	if err != nil {
		return EpisodeRecord{}, err
	}
	return EpisodeRecord{Result: result, Levels: collector.Levels()}, nil
}

// Results extracts the episode results of records.
func Results(records []EpisodeRecord) []telemetry.EpisodeResult {
	out := make([]telemetry.EpisodeResult, len(records))
	for i, r := range records {
		out[i] = r.Result
	}
	return out
}
