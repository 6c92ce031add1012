package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/bubbletrouble/agent"
	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/game"
	"github.com/pthm-cable/bubbletrouble/level"
	"github.com/pthm-cable/bubbletrouble/progress"
	"github.com/pthm-cable/bubbletrouble/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelsPath := flag.String("levels", "", "Path to a level set (empty = config or embedded levels)")
	progressPath := flag.String("progress", "", "Path to the unlocked level file (empty = config or in-memory)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	agentName := flag.String("agent", "heuristic", fmt.Sprintf("Controller, one of %v", agent.Names()))
	startLevel := flag.Int("level", 0, "Level to start on (0 = config)")
	players := flag.Int("players", 0, "Number of players (0 = config)")
	realtime := flag.Bool("realtime", false, "Pace ticks with the wall clock")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	replay := flag.Bool("replay", false, "Write a msgpack replay of every frame to the output directory")
	debug := flag.Bool("debug", false, "Log at debug level")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	applyOverrides(cfg, *levelsPath, *progressPath, *outputDir, *startLevel, *players, *replay)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *agentName, rngSeed, *realtime, *maxTicks); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// applyOverrides lets command-line flags win over the configuration file.
func applyOverrides(cfg *config.Config, levelsPath, progressPath, outputDir string, startLevel, players int, replay bool) {
	if levelsPath != "" {
		cfg.Levels.Path = levelsPath
	}
	if progressPath != "" {
		cfg.Progress.Path = progressPath
	}
	if outputDir != "" {
		cfg.Telemetry.OutputDir = outputDir
	}
	if startLevel > 0 {
		cfg.Levels.StartLevel = startLevel
	}
	if players > 0 {
		cfg.Player.Count = players
	}
	if replay {
		cfg.Telemetry.Replay = true
	}
}

func run(ctx context.Context, cfg *config.Config, agentName string, seed int64, realtime bool, maxTicks int) error {
	ctrl, err := agent.New(agentName, seed)
	if err != nil {
		return err
	}

	levels := level.Default()
	if cfg.Levels.Path != "" {
		if levels, err = level.Load(cfg.Levels.Path); err != nil {
			return err
		}
	}

	var store progress.Store = progress.NewMemoryStore(1)
	if cfg.Progress.Path != "" {
		store = progress.NewFileStore(cfg.Progress.Path)
	}

	om, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		return err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	collector := telemetry.NewCollector("", cfg.Physics.TicksPerSecond)
	perf := game.NewPerfStats(game.DefaultPerfWindow)
	observers := game.Observers{collector}
	if cfg.Telemetry.LogLevels {
		observers = append(observers, game.ObserverFunc(logEvent))
	}

	slog.Info("starting episode",
		"seed", seed,
		"agent", ctrl.Name(),
		"start_level", cfg.Levels.StartLevel,
		"players", cfg.Player.Count,
		"max_level", levels.MaxLevel(),
		"realtime", realtime,
	)

	var result telemetry.EpisodeResult
	if realtime {
		result, err = runRealtime(ctx, cfg, levels, store, observers, collector, ctrl, seed, maxTicks)
	} else {
		env := game.NewEnv(game.EnvOptions{
			Config:   cfg,
			Levels:   levels,
			Progress: store,
			Seed:     seed,
			MaxSteps: maxTicks,
			Observer: observers,
			Perf:     perf,
		})
		defer env.Close()

		var rec *telemetry.Recorder
		if cfg.Telemetry.Replay && om != nil {
			if rec, err = telemetry.CreateRecorder(om.Path("episode.replay")); err != nil {
				return err
			}
			defer rec.Close()
		}
		result, err = agent.Play(ctx, env, ctrl, agent.PlayOptions{Collector: collector, Recorder: rec})
	}
	if err != nil {
		return err
	}

	slog.Info("episode finished", "result", result)
	for _, ph := range perf.Slowest() {
		slog.Debug("perf", "phase", ph.String(), "avg", perf.Avg(ph), "max", perf.Max(ph))
	}

	if err := om.WriteLevels(collector.Levels()); err != nil {
		return err
	}
	if err := om.WriteEpisode(result); err != nil {
		return err
	}
	return om.WritePerf(result.Episode, perf)
}

// runRealtime drives a session from a ticker, with the controller
// submitting actions from its own goroutine the way a human player would.
func runRealtime(ctx context.Context, cfg *config.Config, levels *level.Set, store progress.Store,
	observer game.Observer, collector *telemetry.Collector, ctrl agent.Agent, seed int64, maxTicks int) (telemetry.EpisodeResult, error) {
	episode := uuid.NewString()
	collector.Label(episode)

	session, err := game.NewSession(game.Options{
		Config:   cfg,
		Levels:   levels,
		Progress: store,
		Seed:     seed,
		Observer: observer,
		Logger:   slog.Default().With("episode", episode),
	})
	if err != nil {
		return telemetry.EpisodeResult{}, err
	}
	defer session.Close()
	if err := session.Start(max(cfg.Levels.StartLevel, 1)); err != nil {
		return telemetry.EpisodeResult{}, err
	}

	runner := game.NewRunner(session, 4*session.NumPlayers())
	ticker := time.NewTicker(game.TickInterval(cfg.Physics.TicksPerSecond))
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snaps := make(chan game.Snapshot, 1)
	go func() {
		for snap := range snaps {
			for i := range snap.Players {
				if err := runner.Submit(i, ctrl.Act(&snap, i)); err != nil {
					slog.Debug("action dropped", "player", i, "error", err)
				}
			}
		}
	}()
	defer close(snaps)

	last := session.Snapshot()
	hitLimit := false
	snaps <- last
	err = runner.Run(ctx, ticker.C, func(snap game.Snapshot) {
		last = snap
		// Drop the frame if the controller is still thinking.
		select {
		case snaps <- snap:
		default:
		}
		if maxTicks > 0 && snap.Tick >= int64(maxTicks) {
			hitLimit = true
			cancel()
		}
	})
	if err != nil && !(hitLimit && errors.Is(err, context.Canceled)) {
		return telemetry.EpisodeResult{}, err
	}
	if hitLimit {
		collector.Close(last)
	}

	totals := collector.Totals()
	return telemetry.EpisodeResult{
		Episode:     episode,
		Seed:        seed,
		Agent:       ctrl.Name(),
		Outcome:     telemetry.EpisodeOutcome(&last),
		Score:       last.Score,
		Level:       last.Level,
		Ticks:       last.Tick,
		LivesLeft:   last.Lives(),
		Popped:      totals.Popped,
		Deaths:      totals.Deaths,
		Bonuses:     totals.Bonuses,
		DurationSec: float64(last.Tick) * cfg.Derived.SecondsPerTick,
	}, nil
}

func logEvent(e game.Event) {
	slog.Info("event",
		"type", e.Type.String(),
		"tick", e.Tick,
		"level", e.Level,
		"player", e.Player,
		"score", e.Score,
		"time_left", e.TimeLeft,
		"lives", e.Lives,
	)
}
