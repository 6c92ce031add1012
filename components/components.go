// Package components defines ECS components for the simulation.
package components

// Kind tags which family a bubble belongs to. Both kinds share one
// component and differ only in their parameter rows and silhouettes.
type Kind uint8

const (
	KindBall Kind = iota
	KindHex
)

// Bubble holds the identity of a bouncing entity.
type Bubble struct {
	Kind Kind
	Tier int    // size, 1 is the smallest and does not split
	Seq  uint64 // spawn order within the session, used for stable iteration
}

// BonusType identifies what a bonus grants when collected.
type BonusType uint8

const (
	BonusLife BonusType = iota
	BonusTime
)

// NumBonusTypes is the number of distinct bonus types.
const NumBonusTypes = 2

// Bonus holds a dropped pickup.
type Bonus struct {
	Type BonusType
	Seq  uint64
}
