// Package systems contains ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbletrouble/components"
	"github.com/pthm-cable/bubbletrouble/config"
)

// Bounds represents the playing field.
type Bounds struct {
	Width, Height float32
}

// BubbleParams holds the motion parameters of one (kind, tier) pair.
type BubbleParams struct {
	Radius  float32
	Gravity float32
	MaxFall float32 // 0 = uncapped
	Bounce  float32 // 0 = mirror the impact speed
}

// ParamTable maps a bubble kind and tier to its parameters.
type ParamTable struct {
	rows [2][]BubbleParams
}

// NewParamTable builds the parameter table from configuration.
func NewParamTable(cfg *config.Config) *ParamTable {
	t := &ParamTable{}
	t.rows[components.KindBall] = kindRows(cfg.Bubbles.Ball)
	t.rows[components.KindHex] = kindRows(cfg.Bubbles.Hexagon)
	return t
}

func kindRows(kc config.BubbleKindConfig) []BubbleParams {
	rows := make([]BubbleParams, len(kc.Tiers))
	for i, tier := range kc.Tiers {
		rows[i] = BubbleParams{
			Radius:  float32(tier.Radius),
			Gravity: float32(kc.Gravity),
			MaxFall: float32(tier.MaxFall),
			Bounce:  float32(tier.Bounce),
		}
	}
	return rows
}

// Get returns the parameters for a kind and tier. ok is false for tiers
// outside the table.
func (t *ParamTable) Get(kind components.Kind, tier int) (BubbleParams, bool) {
	if int(kind) >= len(t.rows) {
		return BubbleParams{}, false
	}
	rows := t.rows[kind]
	if tier < 1 || tier > len(rows) {
		return BubbleParams{}, false
	}
	return rows[tier-1], true
}

// MaxTier returns the largest tier defined for a kind.
func (t *ParamTable) MaxTier(kind components.Kind) int {
	if int(kind) >= len(t.rows) {
		return 0
	}
	return len(t.rows[kind])
}

// MoveBubble advances one bubble by a tick: gravity, capped fall speed,
// wall reflection and floor/ceiling bounce. The bubble is kept fully
// inside the field.
func MoveBubble(pos *components.Position, vel *components.Velocity, p BubbleParams, b Bounds) {
	vel.Y += p.Gravity
	if p.MaxFall > 0 && vel.Y > p.MaxFall {
		vel.Y = p.MaxFall
	}

	pos.X += vel.X
	pos.Y += vel.Y

	r := p.Radius
	if pos.X-r < 0 {
		pos.X = r
		vel.X = absf(vel.X)
	} else if pos.X+r > b.Width {
		pos.X = b.Width - r
		vel.X = -absf(vel.X)
	}

	if pos.Y-r < 0 {
		pos.Y = r
		vel.Y = absf(vel.Y)
	} else if pos.Y+r > b.Height {
		pos.Y = b.Height - r
		speed := absf(vel.Y)
		if p.Bounce > 0 && speed > p.Bounce {
			speed = p.Bounce
		}
		vel.Y = -speed
	}
}

// BubblePhysicsSystem moves every bubble in the world.
type BubblePhysicsSystem struct {
	filter *ecs.Filter3[components.Position, components.Velocity, components.Bubble]
	params *ParamTable
	bounds Bounds
}

// NewBubblePhysicsSystem creates a new bubble physics system.
func NewBubblePhysicsSystem(w *ecs.World, params *ParamTable, bounds Bounds) *BubblePhysicsSystem {
	return &BubblePhysicsSystem{
		filter: ecs.NewFilter3[components.Position, components.Velocity, components.Bubble](w),
		params: params,
		bounds: bounds,
	}
}

// Update runs the bubble physics system.
func (s *BubblePhysicsSystem) Update() {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, bubble := query.Get()
		p, ok := s.params.Get(bubble.Kind, bubble.Tier)
		if !ok {
			continue
		}
		MoveBubble(pos, vel, p, s.bounds)
	}
}

// BonusPhysicsSystem drops bonuses until they rest on the floor.
type BonusPhysicsSystem struct {
	filter    *ecs.Filter2[components.Position, components.Bonus]
	fallSpeed float32
	half      float32
	bounds    Bounds
}

// NewBonusPhysicsSystem creates a new bonus physics system.
func NewBonusPhysicsSystem(w *ecs.World, fallSpeed, size float32, bounds Bounds) *BonusPhysicsSystem {
	return &BonusPhysicsSystem{
		filter:    ecs.NewFilter2[components.Position, components.Bonus](w),
		fallSpeed: fallSpeed,
		half:      size / 2,
		bounds:    bounds,
	}
}

// Update runs the bonus physics system.
func (s *BonusPhysicsSystem) Update() {
	query := s.filter.Query()
	for query.Next() {
		pos, _ := query.Get()
		MoveBonus(pos, s.fallSpeed, s.half, s.bounds)
	}
}

// MoveBonus lets a bonus fall by speed, resting on the floor.
func MoveBonus(pos *components.Position, speed, half float32, b Bounds) {
	pos.Y += speed
	if pos.Y+half > b.Height {
		pos.Y = b.Height - half
	}
}

// MovePlayer shifts a player centre by dx, keeping the body inside the field.
func MovePlayer(x, dx, halfWidth float32, b Bounds) float32 {
	return clampFloat(x+dx, halfWidth, b.Width-halfWidth)
}

// MoveWeapon raises a shot tip by speed. It returns the new tip and false
// once the tip has left the top of the field.
func MoveWeapon(tipY, speed float32) (float32, bool) {
	tipY -= speed
	if tipY <= 0 {
		return 0, false
	}
	return tipY, true
}
