package agent

import (
	"math/rand"

	"github.com/pthm-cable/bubbletrouble/game"
)

// Random picks uniformly among the actions. Two agents with the same seed
// produce the same sequence.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a seeded random agent.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Act implements Agent.
func (r *Random) Act(*game.Snapshot, int) game.Action {
	return game.Action(r.rng.Intn(game.NumActions))
}

// Name implements Agent.
func (r *Random) Name() string { return "random" }
