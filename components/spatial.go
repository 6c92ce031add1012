package components

// Position is the centre of an entity in field pixels.
type Position struct {
	X, Y float32
}

// Velocity is the per-tick displacement of an entity.
type Velocity struct {
	X, Y float32
}
