// Package agent provides scripted controllers and the observation
// features used by learned policies.
package agent

import (
	"fmt"
	"sort"

	"github.com/pthm-cable/bubbletrouble/game"
)

// Agent picks an action for one player from a snapshot.
type Agent interface {
	Act(snap *game.Snapshot, player int) game.Action
	Name() string
}

var constructors = map[string]func(seed int64) Agent{
	"idle":      func(int64) Agent { return Idle{} },
	"random":    func(seed int64) Agent { return NewRandom(seed) },
	"heuristic": func(int64) Agent { return NewHeuristic(DefaultHeuristicParams()) },
}

// New returns the named agent. seed only affects stochastic agents.
func New(name string, seed int64) (Agent, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown agent %q (have %v)", name, Names())
	}
	return ctor(seed), nil
}

// Names lists the registered agent names.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Idle never acts.
type Idle struct{}

// Act implements Agent.
func (Idle) Act(*game.Snapshot, int) game.Action { return game.ActionIdle }

// Name implements Agent.
func (Idle) Name() string { return "idle" }
