package systems

import "github.com/pthm-cable/bubbletrouble/components"

// SplitParams controls how popped bubbles spawn their children.
type SplitParams struct {
	ChildSpeedX float32
	KickY       float32
	Lift        float32
}

// Child describes a bubble to spawn after a pop.
type Child struct {
	Pos  components.Position
	Vel  components.Velocity
	Kind components.Kind
	Tier int
}

// Split returns the two children of a popped bubble, left child first.
// Tier 1 bubbles vanish and yield nothing.
//
// Balls spawn tier² pixels to either side of the parent, lifted by
// p.Lift. Hexagons spawn at the parent's left and right edges at the
// parent's height.
func Split(kind components.Kind, tier int, pos components.Position, parentRadius float32, p SplitParams) []Child {
	if tier <= 1 {
		return nil
	}

	var offset, y float32
	switch kind {
	case components.KindHex:
		offset = parentRadius
		y = pos.Y
	default:
		offset = float32(tier * tier)
		y = pos.Y - p.Lift
	}

	childTier := tier - 1
	return []Child{
		{
			Pos:  components.Position{X: pos.X - offset, Y: y},
			Vel:  components.Velocity{X: -p.ChildSpeedX, Y: -p.KickY},
			Kind: kind,
			Tier: childTier,
		},
		{
			Pos:  components.Position{X: pos.X + offset, Y: y},
			Vel:  components.Velocity{X: p.ChildSpeedX, Y: -p.KickY},
			Kind: kind,
			Tier: childTier,
		},
	}
}
