// Package main evaluates a controller over many independent episodes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/bubbletrouble/agent"
	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/level"
	"github.com/pthm-cable/bubbletrouble/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelsPath := flag.String("levels", "", "Path to a level set (empty = config or embedded levels)")
	agentName := flag.String("agent", "heuristic", fmt.Sprintf("Controller, one of %v", agent.Names()))
	episodes := flag.Int("episodes", 100, "Number of episodes")
	workers := flag.Int("workers", 0, "Parallel workers (0 = GOMAXPROCS)")
	seed := flag.Int64("seed", 1, "Seed of the first episode")
	maxSteps := flag.Int("max-steps", 20000, "Truncate episodes after N steps (0 = unlimited)")
	outputDir := flag.String("output", "", "Output directory for episodes.csv, levels.csv and summary.yaml")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *levelsPath != "" {
		cfg.Levels.Path = *levelsPath
	}
	levels := level.Default()
	if cfg.Levels.Path != "" {
		var err error
		if levels, err = level.Load(cfg.Levels.Path); err != nil {
			slog.Error("failed to load levels", "error", err)
			os.Exit(1)
		}
	}

	if _, err := agent.New(*agentName, 0); err != nil {
		slog.Error("bad agent", "error", err)
		os.Exit(1)
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Episode logs would drown the summary.
	quiet := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	slog.Info("starting evaluation",
		"agent", *agentName,
		"episodes", *episodes,
		"workers", *workers,
		"seed", *seed,
	)
	start := time.Now()
	records, err := agent.Evaluate(ctx, agent.EvalOptions{
		Config: cfg,
		Levels: levels,
		NewAgent: func(s int64) agent.Agent {
			a, _ := agent.New(*agentName, s)
			return a
		},
		Episodes: *episodes,
		Workers:  *workers,
		Seed:     *seed,
		MaxSteps: *maxSteps,
		Logger:   quiet,
	})
	if err != nil {
		slog.Error("evaluation failed", "error", err)
		os.Exit(1)
	}

	for _, r := range records {
		if err := om.WriteEpisode(r.Result); err != nil {
			slog.Error("failed to write episode", "error", err)
		}
		if err := om.WriteLevels(r.Levels); err != nil {
			slog.Error("failed to write levels", "error", err)
		}
	}

	summary := telemetry.Summarize(agent.Results(records))
	if err := om.WriteSummary(summary); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
	slog.Info("evaluation finished", "elapsed", time.Since(start).Round(time.Millisecond), "summary", summary)
}
