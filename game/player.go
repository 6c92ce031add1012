package game

// Weapon is a player's chain shot. A player has at most one active shot.
type Weapon struct {
	Active bool
	X      float32 // fixed at the player's centre when fired
	TipY   float32
}

// Player holds one player's state. X is the horizontal centre; players
// always stand on the floor.
type Player struct {
	Index       int
	X           float32
	MovingLeft  bool
	MovingRight bool
	Lives       int
	Alive       bool
	Weapon      Weapon
}

// Eliminated reports whether the player has no lives left.
func (p *Player) Eliminated() bool {
	return p.Lives <= 0
}

func (p *Player) stop() {
	p.MovingLeft = false
	p.MovingRight = false
}
