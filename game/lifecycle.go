package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bubbletrouble/components"
	"github.com/pthm-cable/bubbletrouble/level"
)

// loadLevel replaces all entities with level n's starting set and resets
// per-level state. Score and lives carry over.
func (s *Session) loadLevel(n int) error {
	def, err := s.levels.Get(n)
	if err != nil {
		return err
	}
	if err := def.CheckTiers(s.params.MaxTier(components.KindBall), s.params.MaxTier(components.KindHex)); err != nil {
		return err
	}

	s.clearEntities()

	s.level = n
	s.levelTicks = 0
	s.levelCompleted = false
	s.deadPlayer = false

	spacing := s.bounds.Width / float32(len(s.players)+1)
	for i := range s.players {
		p := &s.players[i]
		p.X = spacing * float32(i+1)
		p.Alive = p.Lives > 0
		p.Weapon = Weapon{}
		p.stop()
	}

	s.spawnDefinition(def)
	s.countdown.Restart(def.Time)

	if n > s.unlocked {
		s.unlocked = n
		if err := s.progress.AdvanceUnlockedLevel(n); err != nil {
			s.logger.Warn("failed to save progress", "level", n, "error", err)
		}
	}

	s.logger.Debug("level loaded",
		"level", n,
		"time", def.Time,
		"balls", len(def.Balls),
		"hexagons", len(def.Hexagons),
		"score", s.score,
	)
	s.emit(Event{Type: EventLevelStart, Player: -1})
	return nil
}

func (s *Session) spawnDefinition(def *level.Definition) {
	for _, b := range def.Balls {
		s.spawnBubble(components.KindBall, b.Size,
			components.Position{X: b.X, Y: b.Y},
			components.Velocity{X: b.Speed.X, Y: b.Speed.Y})
	}
	for _, h := range def.Hexagons {
		s.spawnBubble(components.KindHex, h.Size,
			components.Position{X: h.X, Y: h.Y},
			components.Velocity{X: h.Speed.X, Y: h.Speed.Y})
	}
}

// spawnBubble creates a ball or hexagon entity.
func (s *Session) spawnBubble(kind components.Kind, tier int, pos components.Position, vel components.Velocity) ecs.Entity {
	bubble := components.Bubble{Kind: kind, Tier: tier, Seq: s.nextSeq}
	s.nextSeq++

	entity := s.bubbleMap.NewEntity(&pos, &vel, &bubble)
	if kind == components.KindHex {
		s.numHexes++
	} else {
		s.numBalls++
	}
	return entity
}

// spawnBonus creates a falling bonus entity.
func (s *Session) spawnBonus(t components.BonusType, pos components.Position) ecs.Entity {
	bonus := components.Bonus{Type: t, Seq: s.nextSeq}
	s.nextSeq++
	return s.bonusMap.NewEntity(&pos, &bonus)
}

// removeBubble destroys a bubble entity.
func (s *Session) removeBubble(entity ecs.Entity, kind components.Kind) {
	s.world.RemoveEntity(entity)
	if kind == components.KindHex {
		s.numHexes--
	} else {
		s.numBalls--
	}
}

// clearEntities removes every bubble and bonus.
func (s *Session) clearEntities() {
	var toRemove []ecs.Entity

	bubbles := s.bubbleFilter.Query()
	for bubbles.Next() {
		toRemove = append(toRemove, bubbles.Entity())
	}
	bonuses := s.bonusFilter.Query()
	for bonuses.Next() {
		toRemove = append(toRemove, bonuses.Entity())
	}

	// Second pass: remove entities (query iteration complete)
	for _, e := range toRemove {
		s.world.RemoveEntity(e)
	}
	s.numBalls = 0
	s.numHexes = 0
}
