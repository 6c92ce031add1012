package game

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbletrouble/components"
	"github.com/pthm-cable/bubbletrouble/systems"
)

// bubbleRef is a bubble captured for collision resolution.
type bubbleRef struct {
	entity ecs.Entity
	pos    components.Position
	bubble components.Bubble
	radius float32
	popped bool
}

// bonusRef is a bonus captured for collision resolution.
type bonusRef struct {
	entity ecs.Entity
	pos    components.Position
	bonus  components.Bonus
	taken  bool
}

// collisionStage collects the mutations of one tick so that no list is
// modified while it is being scanned.
type collisionStage struct {
	pops  []*bubbleRef // in pop order
	taken []*bonusRef
}

// resolveCollisions checks every player alive at the start of the tick, in
// index order, against balls, then hexagons, then bonuses. Each list scan
// stops at its first hit, so a player touching a ball and a hexagon on the
// same tick loses a life to each.
func (s *Session) resolveCollisions() {
	balls, hexes := s.collectBubbles()
	bonuses := s.collectBonuses()

	var stage collisionStage
	for i := range s.players {
		if !s.players[i].Alive {
			continue
		}
		s.scanBubbles(i, balls, &stage)
		s.scanBubbles(i, hexes, &stage)
		s.scanBonuses(i, bonuses, &stage)
	}

	s.applyStage(&stage)
}

// collectBubbles returns balls and hexagons ordered by spawn sequence.
func (s *Session) collectBubbles() (balls, hexes []*bubbleRef) {
	query := s.bubbleFilter.Query()
	for query.Next() {
		pos, _, bubble := query.Get()
		p, _ := s.params.Get(bubble.Kind, bubble.Tier)
		ref := &bubbleRef{entity: query.Entity(), pos: *pos, bubble: *bubble, radius: p.Radius}
		if bubble.Kind == components.KindHex {
			hexes = append(hexes, ref)
		} else {
			balls = append(balls, ref)
		}
	}
	sort.Slice(balls, func(i, j int) bool { return balls[i].bubble.Seq < balls[j].bubble.Seq })
	sort.Slice(hexes, func(i, j int) bool { return hexes[i].bubble.Seq < hexes[j].bubble.Seq })
	return balls, hexes
}

// collectBonuses returns bonuses ordered by spawn sequence.
func (s *Session) collectBonuses() []*bonusRef {
	var out []*bonusRef
	query := s.bonusFilter.Query()
	for query.Next() {
		pos, bonus := query.Get()
		out = append(out, &bonusRef{entity: query.Entity(), pos: *pos, bonus: *bonus})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].bonus.Seq < out[j].bonus.Seq })
	return out
}

func (s *Session) playerSprite(p *Player) systems.Sprite {
	h := float32(s.cfg.Player.Height)
	return systems.SpriteAt(s.masks.Player, p.X, s.bounds.Height-h/2)
}

// scanBubbles checks player i against one bubble list. The shot is tested
// before the body so a bubble popped this tick cannot also kill.
func (s *Session) scanBubbles(i int, list []*bubbleRef, stage *collisionStage) {
	p := &s.players[i]
	body := s.playerSprite(p)

	for _, ref := range list {
		if ref.popped {
			continue
		}

		if p.Weapon.Active {
			shot := systems.WeaponRect(p.Weapon.X, p.Weapon.TipY, float32(s.cfg.Weapon.Width), s.bounds.Height)
			box := systems.CenteredRect(ref.pos.X, ref.pos.Y, ref.radius, ref.radius)
			if shot.Overlaps(box) {
				p.Weapon.Active = false
				ref.popped = true
				stage.pops = append(stage.pops, ref)
				s.score += s.cfg.Scoring.Pop
				s.emit(Event{
					Type:   EventPop,
					Player: i,
					Kind:   ref.bubble.Kind,
					Tier:   ref.bubble.Tier,
					Points: s.cfg.Scoring.Pop,
				})
				return
			}
		}

		sprite := systems.SpriteAt(s.masks.Bubble(ref.bubble.Kind, ref.bubble.Tier), ref.pos.X, ref.pos.Y)
		if systems.Collide(body, sprite) {
			s.loseLife(i, CauseBubble)
			return
		}
	}
}

// scanBonuses lets player i collect the first bonus it touches.
func (s *Session) scanBonuses(i int, list []*bonusRef, stage *collisionStage) {
	p := &s.players[i]
	body := s.playerSprite(p)

	for _, ref := range list {
		if ref.taken {
			continue
		}
		sprite := systems.SpriteAt(s.masks.Bonus, ref.pos.X, ref.pos.Y)
		if !systems.Collide(body, sprite) {
			continue
		}

		ref.taken = true
		stage.taken = append(stage.taken, ref)
		switch ref.bonus.Type {
		case components.BonusLife:
			p.Lives++
		case components.BonusTime:
			s.countdown.Extend(s.cfg.Bonus.ExtraTime)
		}
		s.emit(Event{Type: EventBonus, Player: i, Bonus: ref.bonus.Type})
		return
	}
}

// applyStage removes popped bubbles and collected bonuses, then spawns
// children and bonus drops in pop order.
func (s *Session) applyStage(stage *collisionStage) {
	for _, ref := range stage.taken {
		s.world.RemoveEntity(ref.entity)
	}

	for _, ref := range stage.pops {
		s.removeBubble(ref.entity, ref.bubble.Kind)

		for _, child := range systems.Split(ref.bubble.Kind, ref.bubble.Tier, ref.pos, ref.radius, s.split) {
			s.spawnBubble(child.Kind, child.Tier, child.Pos, child.Vel)
		}

		if s.rng.Float64() < s.cfg.Bonus.DropChance {
			t := components.BonusType(s.rng.Intn(components.NumBonusTypes))
			s.spawnBonus(t, ref.pos)
		}
	}
}
