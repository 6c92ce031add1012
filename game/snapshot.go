package game

import (
	"sort"

	"github.com/pthm-cable/bubbletrouble/components"
)

// State is the session state machine position.
type State uint8

const (
	StateLoading State = iota
	StateRunning
	StateLevelCompleted
	StatePlayerDead
	StateGameOver
	StateAllCompleted
)

var stateNames = []string{"loading", "running", "level_completed", "player_dead", "game_over", "all_completed"}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further tick can change the session.
func (s State) Terminal() bool {
	return s == StateGameOver || s == StateAllCompleted
}

// Snapshot is a read-only copy of the session state after a tick.
// Renderers and feature extractors consume it; mutating it has no effect
// on the session.
type Snapshot struct {
	Tick           int64         `msgpack:"tick"`
	Level          int           `msgpack:"level"`
	MaxLevel       int           `msgpack:"max_level"`
	TimeLeft       int           `msgpack:"time_left"`
	Score          int           `msgpack:"score"`
	State          State         `msgpack:"state"`
	LevelCompleted bool          `msgpack:"level_completed"`
	AllCompleted   bool          `msgpack:"all_completed"`
	GameOver       bool          `msgpack:"game_over"`
	Field          FieldState    `msgpack:"field"`
	Players        []PlayerState `msgpack:"players"`
	Balls          []BubbleState `msgpack:"balls"`
	Hexagons       []BubbleState `msgpack:"hexagons"`
	Bonuses        []BonusState  `msgpack:"bonuses"`
}

// FieldState carries the dimensions observers need to normalise positions.
type FieldState struct {
	Width        float32 `msgpack:"w"`
	Height       float32 `msgpack:"h"`
	PlayerWidth  float32 `msgpack:"pw"`
	PlayerHeight float32 `msgpack:"ph"`
	PlayerSpeed  float32 `msgpack:"ps"`
}

// PlayerState is a player as seen by observers.
type PlayerState struct {
	Index       int         `msgpack:"index"`
	X           float32     `msgpack:"x"`
	Lives       int         `msgpack:"lives"`
	Alive       bool        `msgpack:"alive"`
	MovingLeft  bool        `msgpack:"left"`
	MovingRight bool        `msgpack:"right"`
	Weapon      WeaponState `msgpack:"weapon"`
}

// WeaponState is a shot as seen by observers.
type WeaponState struct {
	Active bool    `msgpack:"active"`
	X      float32 `msgpack:"x"`
	TipY   float32 `msgpack:"tip_y"`
}

// BubbleState is a ball or hexagon as seen by observers.
type BubbleState struct {
	ID     uint64          `msgpack:"id"`
	Kind   components.Kind `msgpack:"kind"`
	Tier   int             `msgpack:"tier"`
	X      float32         `msgpack:"x"`
	Y      float32         `msgpack:"y"`
	VX     float32         `msgpack:"vx"`
	VY     float32         `msgpack:"vy"`
	Radius float32         `msgpack:"r"`
}

// BonusState is a dropped bonus as seen by observers.
type BonusState struct {
	ID   uint64               `msgpack:"id"`
	Type components.BonusType `msgpack:"type"`
	X    float32              `msgpack:"x"`
	Y    float32              `msgpack:"y"`
}

// Done reports whether the episode has ended.
func (s *Snapshot) Done() bool {
	return s.GameOver || s.AllCompleted
}

// Lives returns the lives left across all players.
func (s *Snapshot) Lives() int {
	total := 0
	for _, p := range s.Players {
		total += p.Lives
	}
	return total
}

// Bubbles returns balls followed by hexagons.
func (s *Snapshot) Bubbles() []BubbleState {
	out := make([]BubbleState, 0, len(s.Balls)+len(s.Hexagons))
	out = append(out, s.Balls...)
	return append(out, s.Hexagons...)
}

// Snapshot returns a deep copy of the observable state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:           s.tick,
		Level:          s.level,
		MaxLevel:       s.maxLevel,
		TimeLeft:       s.countdown.Remaining(),
		Score:          s.score,
		State:          s.State(),
		LevelCompleted: s.levelCompleted,
		AllCompleted:   s.allCompleted,
		GameOver:       s.gameOver,
		Field: FieldState{
			Width:        s.bounds.Width,
			Height:       s.bounds.Height,
			PlayerWidth:  float32(s.cfg.Player.Width),
			PlayerHeight: float32(s.cfg.Player.Height),
			PlayerSpeed:  float32(s.cfg.Player.Speed),
		},
		Players:  make([]PlayerState, len(s.players)),
		Balls:    make([]BubbleState, 0, s.numBalls),
		Hexagons: make([]BubbleState, 0, s.numHexes),
	}

	for i := range s.players {
		p := &s.players[i]
		snap.Players[i] = PlayerState{
			Index:       p.Index,
			X:           p.X,
			Lives:       p.Lives,
			Alive:       p.Alive,
			MovingLeft:  p.MovingLeft,
			MovingRight: p.MovingRight,
			Weapon:      WeaponState{Active: p.Weapon.Active, X: p.Weapon.X, TipY: p.Weapon.TipY},
		}
	}

	bubbles := s.bubbleFilter.Query()
	for bubbles.Next() {
		pos, vel, b := bubbles.Get()
		p, _ := s.params.Get(b.Kind, b.Tier)
		state := BubbleState{
			ID: b.Seq, Kind: b.Kind, Tier: b.Tier,
			X: pos.X, Y: pos.Y, VX: vel.X, VY: vel.Y,
			Radius: p.Radius,
		}
		if b.Kind == components.KindHex {
			snap.Hexagons = append(snap.Hexagons, state)
		} else {
			snap.Balls = append(snap.Balls, state)
		}
	}
	sort.Slice(snap.Balls, func(i, j int) bool { return snap.Balls[i].ID < snap.Balls[j].ID })
	sort.Slice(snap.Hexagons, func(i, j int) bool { return snap.Hexagons[i].ID < snap.Hexagons[j].ID })

	bonuses := s.bonusFilter.Query()
	for bonuses.Next() {
		pos, b := bonuses.Get()
		snap.Bonuses = append(snap.Bonuses, BonusState{ID: b.Seq, Type: b.Type, X: pos.X, Y: pos.Y})
	}
	sort.Slice(snap.Bonuses, func(i, j int) bool { return snap.Bonuses[i].ID < snap.Bonuses[j].ID })

	return snap
}
