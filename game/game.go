// Package game implements the bubble popping session: entity state, the
// per-tick state machine, the level countdown and the controller facing
// Env and Runner.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbletrouble/components"
	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/level"
	"github.com/pthm-cable/bubbletrouble/progress"
	"github.com/pthm-cable/bubbletrouble/systems"
)

// Session holds the complete state of one play-through. A session is
// owned by a single goroutine; it is not safe for concurrent use.
type Session struct {
	cfg      *config.Config
	levels   *level.Set
	progress progress.Store
	observer Observer
	logger   *slog.Logger
	perf     *PerfStats

	world *ecs.World
	rng   *rand.Rand

	bubbleMap    *ecs.Map3[components.Position, components.Velocity, components.Bubble]
	bubbleFilter *ecs.Filter3[components.Position, components.Velocity, components.Bubble]
	bonusMap     *ecs.Map2[components.Position, components.Bonus]
	bonusFilter  *ecs.Filter2[components.Position, components.Bonus]

	bubblePhysics *systems.BubblePhysicsSystem
	bonusPhysics  *systems.BonusPhysicsSystem
	params        *systems.ParamTable
	masks         *systems.MaskCache
	bounds        systems.Bounds
	split         systems.SplitParams

	players   []Player
	countdown *Countdown

	// Counters
	tick       int64
	levelTicks int64
	nextSeq    uint64
	numBalls   int
	numHexes   int

	// Progression
	level    int
	maxLevel int
	unlocked int
	score    int

	// State flags
	started        bool
	stopped        bool
	levelCompleted bool
	allCompleted   bool
	deadPlayer     bool
	gameOver       bool
}

// NewSession creates a session in the loading state. Call Start to load
// the first level.
func NewSession(opts Options) (*Session, error) {
	opts = opts.withDefaults()
	cfg := opts.Config

	unlocked, err := opts.Progress.MaxLevelUnlocked()
	if err != nil {
		return nil, fmt.Errorf("reading progress: %w", err)
	}

	maxLevel := opts.Levels.MaxLevel()
	if cfg.Levels.MaxLevel > 0 && cfg.Levels.MaxLevel < maxLevel {
		maxLevel = cfg.Levels.MaxLevel
	}
	if maxLevel < 1 {
		return nil, &level.MissingLevelError{Level: 1}
	}

	world := ecs.NewWorld()
	bounds := systems.Bounds{Width: cfg.Derived.FieldW32, Height: cfg.Derived.FieldH32}
	params := systems.NewParamTable(cfg)

	s := &Session{
		cfg:      cfg,
		levels:   opts.Levels,
		progress: opts.Progress,
		observer: opts.Observer,
		logger:   opts.Logger,
		perf:     opts.Perf,
		world:    world,
		rng:      rand.New(rand.NewSource(opts.Seed)),

		bubbleMap:    ecs.NewMap3[components.Position, components.Velocity, components.Bubble](world),
		bubbleFilter: ecs.NewFilter3[components.Position, components.Velocity, components.Bubble](world),
		bonusMap:     ecs.NewMap2[components.Position, components.Bonus](world),
		bonusFilter:  ecs.NewFilter2[components.Position, components.Bonus](world),

		bubblePhysics: systems.NewBubblePhysicsSystem(world, params, bounds),
		bonusPhysics:  systems.NewBonusPhysicsSystem(world, float32(cfg.Bonus.FallSpeed), float32(cfg.Bonus.Size), bounds),
		params:        params,
		masks:         systems.NewMaskCache(cfg),
		bounds:        bounds,
		split: systems.SplitParams{
			ChildSpeedX: float32(cfg.Split.ChildSpeedX),
			KickY:       float32(cfg.Split.KickY),
			Lift:        float32(cfg.Split.Lift),
		},

		players:   make([]Player, opts.Players),
		countdown: NewCountdown(cfg.Physics.TicksPerSecond),
		maxLevel:  maxLevel,
		unlocked:  unlocked,
	}

	for i := range s.players {
		s.players[i] = Player{Index: i, Lives: cfg.Player.StartingLives}
	}

	return s, nil
}

// Start loads level n and enters the running state.
func (s *Session) Start(n int) error {
	if s.started {
		return ErrAlreadyStarted
	}
	if n < 1 {
		n = 1
	}
	if n > s.unlocked {
		return fmt.Errorf("level %d (unlocked %d): %w", n, s.unlocked, ErrLevelLocked)
	}
	if err := s.loadLevel(n); err != nil {
		return err
	}
	s.started = true
	s.logger.Info("session started", "level", n, "max_level", s.maxLevel, "players", len(s.players))
	return nil
}

// Close stops the session and its countdown. Further ticks are no-ops.
func (s *Session) Close() {
	s.stop()
}

// Apply sets a player's movement and fire flags for the next tick.
// Actions for dead or eliminated players are ignored.
func (s *Session) Apply(player int, a Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if player < 0 || player >= len(s.players) {
		return fmt.Errorf("player %d: %w", player, ErrNoSuchPlayer)
	}
	p := &s.players[player]
	if s.stopped || !p.Alive {
		return nil
	}

	switch a {
	case ActionLeft:
		p.MovingLeft, p.MovingRight = true, false
	case ActionRight:
		p.MovingLeft, p.MovingRight = false, true
	case ActionFire:
		p.stop()
		if !p.Weapon.Active {
			p.Weapon = Weapon{
				Active: true,
				X:      p.X,
				TipY:   s.bounds.Height - float32(s.cfg.Player.Height),
			}
		}
	case ActionIdle:
		p.stop()
	}
	return nil
}

// State returns the current state machine position.
func (s *Session) State() State {
	switch {
	case !s.started:
		return StateLoading
	case s.gameOver:
		return StateGameOver
	case s.allCompleted:
		return StateAllCompleted
	case s.levelCompleted:
		return StateLevelCompleted
	case s.deadPlayer:
		return StatePlayerDead
	default:
		return StateRunning
	}
}

// Ticks returns the number of physics ticks run.
func (s *Session) Ticks() int64 { return s.tick }

// Level returns the current level number.
func (s *Session) Level() int { return s.level }

// MaxLevel returns the last level of the session.
func (s *Session) MaxLevel() int { return s.maxLevel }

// Score returns the shared score.
func (s *Session) Score() int { return s.score }

// TimeLeft returns the whole seconds left on the level countdown.
func (s *Session) TimeLeft() int { return s.countdown.Remaining() }

// LevelCompleted reports whether both bubble lists are empty.
func (s *Session) LevelCompleted() bool { return s.levelCompleted }

// AllCompleted reports whether the last level was cleared.
func (s *Session) AllCompleted() bool { return s.allCompleted }

// GameOver reports whether every player ran out of lives.
func (s *Session) GameOver() bool { return s.gameOver }

// Done reports whether the session reached a terminal state.
func (s *Session) Done() bool { return s.gameOver || s.allCompleted }

// NumPlayers returns the number of players.
func (s *Session) NumPlayers() int { return len(s.players) }

// Player returns a copy of player i.
func (s *Session) Player(i int) (Player, error) {
	if i < 0 || i >= len(s.players) {
		return Player{}, fmt.Errorf("player %d: %w", i, ErrNoSuchPlayer)
	}
	return s.players[i], nil
}

// Lives returns the lives left across all players.
func (s *Session) Lives() int {
	total := 0
	for i := range s.players {
		total += s.players[i].Lives
	}
	return total
}

// Config returns the configuration the session runs with.
func (s *Session) Config() *config.Config { return s.cfg }

func (s *Session) stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.countdown.Stop()
}
