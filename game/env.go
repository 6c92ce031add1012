package game

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/level"
	"github.com/pthm-cable/bubbletrouble/progress"
)

// RewardTable maps step outcomes to rewards.
type RewardTable struct {
	Moving float64 `yaml:"moving"`
	Fire   float64 `yaml:"fire"`
	Score  float64 `yaml:"score"`
	Death  float64 `yaml:"death"`
	Win    float64 `yaml:"win"`
	Step   float64 `yaml:"step"`
}

// DefaultRewards rewards a pop with +1 and a death with -1.
func DefaultRewards() RewardTable {
	return RewardTable{Score: 1, Death: -1}
}

// RewardsFromConfig converts the configured reward table.
func RewardsFromConfig(r config.RewardsConfig) RewardTable {
	return RewardTable{Moving: r.Moving, Fire: r.Fire, Score: r.Score, Death: r.Death, Win: r.Win, Step: r.Step}
}

// Reward scores one step for the controlling player.
func (r RewardTable) Reward(action Action, died, won, scored bool) float64 {
	reward := r.Step
	switch action {
	case ActionFire:
		reward += r.Fire
	case ActionLeft, ActionRight:
		reward += r.Moving
	}
	if died {
		reward += r.Death
	}
	if won {
		reward += r.Win
	}
	if scored {
		reward += r.Score
	}
	return reward
}

// Info carries step details beyond the observation.
type Info struct {
	EpisodeID      string
	Step           int
	Tick           int64
	Level          int
	Score          int
	Lives          int
	TimeLeft       int
	Scored         bool
	LifeLost       bool
	LevelCompleted bool
	AllCompleted   bool
	GameOver       bool
	Truncated      bool // step limit reached before a terminal state
}

// Transition is the result of one controller step.
type Transition struct {
	Observation Snapshot
	Reward      float64
	Done        bool
	Info        Info
}

// EnvOptions configures an Env.
type EnvOptions struct {
	Config     *config.Config
	Levels     *level.Set
	Progress   progress.Store
	Seed       int64 // episode k runs with Seed+k
	Players    int
	StartLevel int
	MaxSteps   int // 0 = unlimited
	Rewards    *RewardTable
	Observer   Observer
	Logger     *slog.Logger
	Perf       *PerfStats
}

// Env is the controller facing interface: reset an episode, then step it
// one action at a time until Done.
type Env struct {
	opts      EnvOptions
	rewards   RewardTable
	session   *Session
	episode   int
	episodeID string
	seed      int64
	steps     int
	done      bool
}

// NewEnv creates an environment. Call Reset before Step.
func NewEnv(opts EnvOptions) *Env {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	rewards := RewardsFromConfig(opts.Config.Rewards)
	if opts.Rewards != nil {
		rewards = *opts.Rewards
	}
	if opts.StartLevel < 1 {
		opts.StartLevel = max(opts.Config.Levels.StartLevel, 1)
	}
	return &Env{opts: opts, rewards: rewards}
}

// Reset starts a fresh episode and returns its first observation.
func (e *Env) Reset() (Snapshot, error) {
	if e.session != nil {
		e.session.Close()
	}

	seed := e.opts.Seed + int64(e.episode)
	e.seed = seed
	e.episode++
	e.episodeID = uuid.NewString()
	e.steps = 0
	e.done = false

	logger := e.opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s, err := NewSession(Options{
		Config:   e.opts.Config,
		Levels:   e.opts.Levels,
		Progress: e.opts.Progress,
		Seed:     seed,
		Players:  e.opts.Players,
		Observer: e.opts.Observer,
		Logger:   logger.With("episode", e.episodeID),
		Perf:     e.opts.Perf,
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("creating session: %w", err)
	}
	if err := s.Start(e.opts.StartLevel); err != nil {
		return Snapshot{}, fmt.Errorf("starting session: %w", err)
	}
	e.session = s
	return s.Snapshot(), nil
}

// Step applies action for player 0, idles every other player and ticks.
func (e *Env) Step(action Action) (Transition, error) {
	return e.StepAll([]Action{action})
}

// StepAll applies one action per player and ticks once. Players without
// an entry idle. The reward is computed for player 0.
func (e *Env) StepAll(actions []Action) (Transition, error) {
	if e.session == nil {
		return Transition{}, ErrNotStarted
	}
	if e.done {
		return Transition{}, ErrEpisodeDone
	}
	for _, a := range actions {
		if err := a.Validate(); err != nil {
			return Transition{}, err
		}
	}

	s := e.session
	prevScore := s.Score()
	prevLives := make([]int, len(s.players))
	for i := range s.players {
		prevLives[i] = s.players[i].Lives
	}

	for i := 0; i < s.NumPlayers(); i++ {
		a := ActionIdle
		if i < len(actions) {
			a = actions[i]
		}
		if err := s.Apply(i, a); err != nil {
			return Transition{}, err
		}
	}
	if err := s.Tick(); err != nil {
		return Transition{}, err
	}
	e.steps++

	lifeLost := false
	for i := range s.players {
		if s.players[i].Lives < prevLives[i] {
			lifeLost = true
		}
	}
	controlled := ActionIdle
	if len(actions) > 0 {
		controlled = actions[0]
	}
	died := s.players[0].Lives < prevLives[0]

	info := Info{
		EpisodeID:      e.episodeID,
		Step:           e.steps,
		Tick:           s.Ticks(),
		Level:          s.Level(),
		Score:          s.Score(),
		Lives:          s.Lives(),
		TimeLeft:       s.TimeLeft(),
		Scored:         s.Score() != prevScore,
		LifeLost:       lifeLost,
		LevelCompleted: s.LevelCompleted(),
		AllCompleted:   s.AllCompleted(),
		GameOver:       s.GameOver(),
	}
	done := s.Done()
	if !done && e.opts.MaxSteps > 0 && e.steps >= e.opts.MaxSteps {
		done = true
		info.Truncated = true
	}
	e.done = done

	return Transition{
		Observation: s.Snapshot(),
		Reward:      e.rewards.Reward(controlled, died, info.AllCompleted, info.Scored),
		Done:        done,
		Info:        info,
	}, nil
}

// Session returns the running session, or nil before the first Reset.
func (e *Env) Session() *Session {
	return e.session
}

// EpisodeID returns the identifier of the current episode.
func (e *Env) EpisodeID() string {
	return e.episodeID
}

// EpisodeSeed returns the seed of the current episode.
func (e *Env) EpisodeSeed() int64 {
	return e.seed
}

// Episodes returns how many episodes were started.
func (e *Env) Episodes() int {
	return e.episode
}

// Close stops the current session.
func (e *Env) Close() {
	if e.session != nil {
		e.session.Close()
	}
}
