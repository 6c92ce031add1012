package agent

import (
	"math"

	"github.com/pthm-cable/bubbletrouble/game"
)

// HeuristicParams tunes the scripted dodge-and-shoot controller.
type HeuristicParams struct {
	TooClose float64 `yaml:"too_close"` // distance to a bubble that triggers a dodge
	TooLow   float64 `yaml:"too_low"`   // floor gap under which a close bubble is dodged even when a shot is ready
	Align    float64 `yaml:"align"`     // horizontal tolerance for firing
	Lead     float64 `yaml:"lead"`      // ticks of bubble motion to aim ahead
}

// DefaultHeuristicParams returns hand-tuned defaults.
func DefaultHeuristicParams() HeuristicParams {
	return HeuristicParams{TooClose: 50, TooLow: 80, Align: 8, Lead: 0}
}

// Heuristic dodges bubbles that come too close and otherwise walks under
// the horizontally nearest bubble and fires.
type Heuristic struct {
	Params HeuristicParams
}

// NewHeuristic creates a heuristic agent.
func NewHeuristic(p HeuristicParams) *Heuristic {
	return &Heuristic{Params: p}
}

// Name implements Agent.
func (h *Heuristic) Name() string { return "heuristic" }

// Act implements Agent.
func (h *Heuristic) Act(snap *game.Snapshot, player int) game.Action {
	if snap == nil || player < 0 || player >= len(snap.Players) {
		return game.ActionIdle
	}
	p := snap.Players[player]
	if !p.Alive {
		return game.ActionIdle
	}
	bubbles := snap.Bubbles()
	if len(bubbles) == 0 {
		return game.ActionIdle
	}

	field := snap.Field
	px := float64(p.X)
	py := float64(field.Height - field.PlayerHeight/2)
	canShoot := !p.Weapon.Active

	// Dodge the nearest bubble.
	near, dist := closestEuclidean(bubbles, px, py)
	floorGap := float64(field.Height) - float64(near.Y)
	if dist < h.Params.TooClose && (!canShoot || floorGap <= h.Params.TooLow) {
		away := game.ActionRight
		if float64(near.X) > px {
			away = game.ActionLeft
		}
		if h.blocked(away, px, field) {
			if canShoot {
				return game.ActionFire
			}
			return opposite(away)
		}
		return away
	}

	// Walk under the horizontally nearest bubble and fire.
	target, _ := closestHorizontal(bubbles, px)
	aimX := float64(target.X) + float64(target.VX)*h.Params.Lead
	dx := aimX - px
	if math.Abs(dx) <= h.Params.Align {
		if canShoot {
			return game.ActionFire
		}
		return game.ActionIdle
	}
	if dx < 0 {
		return game.ActionLeft
	}
	return game.ActionRight
}

// blocked reports whether moving in direction a is stopped by a wall.
func (h *Heuristic) blocked(a game.Action, px float64, field game.FieldState) bool {
	half := float64(field.PlayerWidth) / 2
	if a == game.ActionLeft {
		return px-half <= 0
	}
	return px+half >= float64(field.Width)
}

func opposite(a game.Action) game.Action {
	if a == game.ActionLeft {
		return game.ActionRight
	}
	return game.ActionLeft
}

// closestEuclidean returns the bubble nearest to (x, y) and its distance.
// bubbles must not be empty.
func closestEuclidean(bubbles []game.BubbleState, x, y float64) (game.BubbleState, float64) {
	best, bestDist := bubbles[0], math.Inf(1)
	for _, b := range bubbles {
		d := math.Hypot(float64(b.X)-x, float64(b.Y)-y)
		if d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, bestDist
}

// closestHorizontal returns the bubble nearest to x along the floor.
// bubbles must not be empty.
func closestHorizontal(bubbles []game.BubbleState, x float64) (game.BubbleState, float64) {
	best, bestDist := bubbles[0], math.Inf(1)
	for _, b := range bubbles {
		d := math.Abs(float64(b.X) - x)
		if d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, bestDist
}
