package game

import (
	"time"

	"github.com/pthm-cable/bubbletrouble/systems"
)

// Tick advances the session by one step. Transitions are checked in a
// fixed priority order before the physics step:
//
//  1. a cleared level (not the last) awards the time bonus and loads the next level
//  2. game over or all levels cleared stops the session for good
//  3. a dead player restarts the current level, keeping score and lives
//
// The physics step then runs unconditionally.
func (s *Session) Tick() error {
	if !s.started {
		return ErrNotStarted
	}
	if s.stopped {
		return nil
	}

	switch {
	case s.levelCompleted && !s.allCompleted:
		if bonus := s.cfg.Scoring.TimeBonusFactor * s.countdown.Remaining(); bonus > 0 {
			s.score += bonus
			s.emit(Event{Type: EventTimeBonus, Player: -1, Points: bonus})
		}
		if err := s.loadLevel(s.level + 1); err != nil {
			return err
		}
	case s.gameOver || s.allCompleted:
		s.stop()
		s.logger.Info("session finished",
			"state", s.State().String(),
			"level", s.level,
			"score", s.score,
			"ticks", s.tick,
		)
		return nil
	case s.deadPlayer:
		s.logger.Debug("restarting level", "level", s.level, "lives", s.Lives())
		if err := s.loadLevel(s.level); err != nil {
			return err
		}
	}

	s.tick++
	s.levelTicks++
	s.step()
	return nil
}

// step runs a single physics tick.
func (s *Session) step() {
	// 1. Countdown
	start := time.Now()
	if s.countdown.Advance() {
		s.timeout()
	}
	s.perf.Record(PhaseCountdown, time.Since(start))

	// 2. Movement
	start = time.Now()
	s.bubblePhysics.Update()
	s.movePlayers()
	s.bonusPhysics.Update()
	s.perf.Record(PhaseMovement, time.Since(start))

	// 3. Collisions (mutations applied after every player was resolved)
	start = time.Now()
	s.resolveCollisions()
	s.perf.Record(PhaseCollisions, time.Since(start))

	// 4. Derived flags
	start = time.Now()
	s.updateFlags()
	s.perf.Record(PhaseFlags, time.Since(start))
}

// movePlayers moves players and their shots.
func (s *Session) movePlayers() {
	speed := float32(s.cfg.Player.Speed)
	half := float32(s.cfg.Player.Width) / 2
	weaponSpeed := float32(s.cfg.Weapon.Speed)

	for i := range s.players {
		p := &s.players[i]
		if !p.Alive {
			continue
		}
		switch {
		case p.MovingLeft:
			p.X = systems.MovePlayer(p.X, -speed, half, s.bounds)
		case p.MovingRight:
			p.X = systems.MovePlayer(p.X, speed, half, s.bounds)
		}
		if p.Weapon.Active {
			p.Weapon.TipY, p.Weapon.Active = systems.MoveWeapon(p.Weapon.TipY, weaponSpeed)
		}
	}
}

// timeout costs every player with lives left one life at once.
func (s *Session) timeout() {
	s.logger.Debug("countdown expired", "level", s.level)
	for i := range s.players {
		if s.players[i].Lives > 0 {
			s.loseLife(i, CauseTimeout)
		}
	}
}

// loseLife applies a death to player i.
func (s *Session) loseLife(i int, cause DeathCause) {
	p := &s.players[i]
	if p.Lives > 0 {
		p.Lives--
	}
	p.Alive = false
	p.Weapon.Active = false
	p.stop()

	s.emit(Event{Type: EventLifeLost, Player: i, Cause: cause})

	if p.Lives > 0 {
		s.deadPlayer = true
	}
	if !s.gameOver && s.allEliminated() {
		s.gameOver = true
		s.emit(Event{Type: EventGameOver, Player: -1})
	}
}

func (s *Session) allEliminated() bool {
	for i := range s.players {
		if !s.players[i].Eliminated() {
			return false
		}
	}
	return true
}

// updateFlags derives level completion after collisions. A tick that
// ended the game never counts as clearing the level.
func (s *Session) updateFlags() {
	if s.gameOver || s.levelCompleted {
		return
	}
	if s.numBalls > 0 || s.numHexes > 0 {
		return
	}

	s.levelCompleted = true
	s.emit(Event{Type: EventLevelCompleted, Player: -1})
	if s.level >= s.maxLevel {
		s.allCompleted = true
		s.emit(Event{Type: EventAllCompleted, Player: -1})
	}
}
