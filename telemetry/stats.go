package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/bubbletrouble/game"
)

// EpisodeResult summarises one finished episode.
type EpisodeResult struct {
	Episode     string  `csv:"episode"`
	Seed        int64   `csv:"seed"`
	Agent       string  `csv:"agent"`
	Outcome     string  `csv:"outcome"`
	Score       int     `csv:"score"`
	Level       int     `csv:"level"`
	Ticks       int64   `csv:"ticks"`
	Steps       int     `csv:"steps"`
	LivesLeft   int     `csv:"lives_left"`
	Popped      int     `csv:"popped"`
	Deaths      int     `csv:"deaths"`
	Bonuses     int     `csv:"bonuses"`
	TotalReward float64 `csv:"total_reward"`
	DurationSec float64 `csv:"duration_sec"`
}

// EpisodeOutcome names how an episode ended.
func EpisodeOutcome(snap *game.Snapshot) string {
	switch {
	case snap.AllCompleted:
		return OutcomeCleared
	case snap.GameOver:
		return OutcomeGameOver
	default:
		return OutcomeUnfinished
	}
}

// Summary aggregates a batch of episodes.
type Summary struct {
	Episodes   int     `yaml:"episodes"`
	Cleared    int     `yaml:"cleared"`
	ClearRate  float64 `yaml:"clear_rate"`
	ScoreMean  float64 `yaml:"score_mean"`
	ScoreStd   float64 `yaml:"score_std"`
	ScoreP10   float64 `yaml:"score_p10"`
	ScoreP50   float64 `yaml:"score_p50"`
	ScoreP90   float64 `yaml:"score_p90"`
	LevelMean  float64 `yaml:"level_mean"`
	LevelMax   int     `yaml:"level_max"`
	RewardMean float64 `yaml:"reward_mean"`
	TicksMean  float64 `yaml:"ticks_mean"`
}

// Summarize computes batch statistics. The standard deviation is zero
// for fewer than two episodes.
func Summarize(results []EpisodeResult) Summary {
	n := len(results)
	if n == 0 {
		return Summary{}
	}

	scores := make([]float64, n)
	levels := make([]float64, n)
	rewards := make([]float64, n)
	ticks := make([]float64, n)
	s := Summary{Episodes: n}
	for i, r := range results {
		scores[i] = float64(r.Score)
		levels[i] = float64(r.Level)
		rewards[i] = r.TotalReward
		ticks[i] = float64(r.Ticks)
		if r.Outcome == OutcomeCleared {
			s.Cleared++
		}
		s.LevelMax = max(s.LevelMax, r.Level)
	}

	s.ClearRate = float64(s.Cleared) / float64(n)
	s.ScoreMean = stat.Mean(scores, nil)
	if n > 1 {
		s.ScoreStd = stat.StdDev(scores, nil)
	}
	s.LevelMean = stat.Mean(levels, nil)
	s.RewardMean = stat.Mean(rewards, nil)
	s.TicksMean = stat.Mean(ticks, nil)

	sort.Float64s(scores)
	s.ScoreP10 = stat.Quantile(0.10, stat.Empirical, scores, nil)
	s.ScoreP50 = stat.Quantile(0.50, stat.Empirical, scores, nil)
	s.ScoreP90 = stat.Quantile(0.90, stat.Empirical, scores, nil)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("episodes", s.Episodes),
		slog.Int("cleared", s.Cleared),
		slog.Float64("clear_rate", s.ClearRate),
		slog.Float64("score_mean", s.ScoreMean),
		slog.Float64("score_std", s.ScoreStd),
		slog.Float64("score_p10", s.ScoreP10),
		slog.Float64("score_p50", s.ScoreP50),
		slog.Float64("score_p90", s.ScoreP90),
		slog.Float64("level_mean", s.LevelMean),
		slog.Int("level_max", s.LevelMax),
		slog.Float64("reward_mean", s.RewardMean),
		slog.Float64("ticks_mean", s.TicksMean),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (r EpisodeResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("episode", r.Episode),
		slog.Int64("seed", r.Seed),
		slog.String("outcome", r.Outcome),
		slog.Int("score", r.Score),
		slog.Int("level", r.Level),
		slog.Int64("ticks", r.Ticks),
		slog.Int("lives_left", r.LivesLeft),
		slog.Float64("reward", r.TotalReward),
	)
}
