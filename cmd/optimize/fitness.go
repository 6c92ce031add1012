package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/bubbletrouble/agent"
	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/level"
	"github.com/pthm-cable/bubbletrouble/telemetry"
)

// FitnessEvaluator plays headless episodes and scores parameter vectors.
type FitnessEvaluator struct {
	params   *ParamVector
	cfg      *config.Config
	levels   *level.Set
	episodes int
	seed     int64
	maxSteps int
	logger   *slog.Logger

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestSummary telemetry.Summary
	lastSummary telemetry.Summary
}

// NewFitnessEvaluator creates a new evaluator.
// Every evaluation replays the same episodes, seeded seed..seed+episodes-1.
func NewFitnessEvaluator(params *ParamVector, cfg *config.Config, levels *level.Set, episodes int, seed int64, maxSteps int, logger *slog.Logger) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		cfg:         cfg,
		levels:      levels,
		episodes:    max(episodes, 1),
		seed:        seed,
		maxSteps:    maxSteps,
		logger:      logger,
		bestFitness: math.Inf(1),
	}
}

// LastSummary returns the episode summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() telemetry.Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// BestSummary returns the episode summary of the best evaluation.
func (fe *FitnessEvaluator) BestSummary() telemetry.Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSummary
}

// Evaluate computes fitness for raw parameter values (lower = better).
// All episodes run in parallel.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	p := fe.params.ApplyToParams(x)

	records, err := agent.Evaluate(context.Background(), agent.EvalOptions{
		Config:   fe.cfg,
		Levels:   fe.levels,
		NewAgent: func(int64) agent.Agent { return agent.NewHeuristic(p) },
		Episodes: fe.episodes,
		Workers:  fe.episodes,
		Seed:     fe.seed,
		MaxSteps: fe.maxSteps,
		Logger:   fe.logger,
	})
	if err != nil {
		fe.logger.Error("evaluation failed", "error", err)
		return math.Inf(1)
	}

	summary := telemetry.Summarize(agent.Results(records))
	fitness := computeFitness(summary)

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestSummary = summary
	}
	fe.lastSummary = summary
	fe.mu.Unlock()

	return fitness
}

// computeFitness rewards score first and progress second:
// -(mean score × (1 + 0.1 × mean level reached)).
func computeFitness(s telemetry.Summary) float64 {
	return -(s.ScoreMean * (1.0 + 0.1*s.LevelMean))
}
