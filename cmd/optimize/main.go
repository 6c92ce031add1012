package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/level"
)

// evalRecord is one row of optimize_log.csv.
type evalRecord struct {
	Eval      int     `csv:"eval"`
	Fitness   float64 `csv:"fitness"`
	ScoreMean float64 `csv:"score_mean"`
	LevelMean float64 `csv:"level_mean"`
	TooClose  float64 `csv:"too_close"`
	TooLow    float64 `csv:"too_low"`
	Align     float64 `csv:"align"`
	Lead      float64 `csv:"lead"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	levelsPath := flag.String("levels", "", "Path to a level set (empty = config or embedded levels)")
	maxSteps := flag.Int("max-steps", 20000, "Truncate each episode after N steps")
	episodes := flag.Int("episodes", 8, "Episodes per evaluation")
	seed := flag.Int64("seed", 42, "Seed of the first episode")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	// Create output directory
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	if *levelsPath != "" {
		cfg.Levels.Path = *levelsPath
	}
	levels := level.Default()
	if cfg.Levels.Path != "" {
		var err error
		if levels, err = level.Load(cfg.Levels.Path); err != nil {
			log.Fatalf("failed to load levels: %v", err)
		}
	}

	params := NewParamVector()
	quiet := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	evaluator := NewFitnessEvaluator(params, cfg, levels, *episodes, *seed, *maxSteps, quiet)

	// Set up CMA-ES
	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	// Create optimization problem
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// Denormalize to get raw parameter values
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // episodes already run in parallel
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	headerWritten := false

	// Track evaluations and timing
	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	// Wrap the function to log evaluations
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		summary := evaluator.LastSummary()
		rec := []evalRecord{{
			Eval:      evalCount,
			Fitness:   fitness,
			ScoreMean: summary.ScoreMean,
			LevelMean: summary.LevelMean,
			TooClose:  clamped[0],
			TooLow:    clamped[1],
			Align:     clamped[2],
			Lead:      clamped[3],
		}}
		if headerWritten {
			err = gocsv.MarshalWithoutHeaders(rec, logFile)
		} else {
			err = gocsv.Marshal(rec, logFile)
			headerWritten = true
		}
		if err != nil {
			log.Printf("failed to log evaluation: %v", err)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: score=%.0f level=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, summary.ScoreMean, summary.LevelMean, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Episodes per evaluation: %d, steps per episode: %d\n", *episodes, *maxSteps)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.0f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.3f\n", spec.Name, bestParams[i])
	}

	best := struct {
		Heuristic any `yaml:"heuristic"`
		Summary   any `yaml:"summary"`
	}{params.ApplyToParams(bestParams), evaluator.BestSummary()}
	data, err := yaml.Marshal(best)
	if err != nil {
		log.Fatalf("failed to marshal best parameters: %v", err)
	}
	outPath := filepath.Join(*outputDir, "best_params.yaml")
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		log.Printf("failed to write best parameters: %v", err)
	} else {
		fmt.Printf("\nBest parameters saved to: %s\n", outPath)
	}
}
