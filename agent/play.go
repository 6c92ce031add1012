package agent

import (
	"context"
	"slices"

	"github.com/pthm-cable/bubbletrouble/game"
	"github.com/pthm-cable/bubbletrouble/telemetry"
)

// PlayOptions attaches optional recording to Play.
type PlayOptions struct {
	// Collector must be the observer the Env was created with.
	Collector *telemetry.Collector
	Recorder  *telemetry.Recorder
}

// Play resets env and lets a control every player until the episode ends
// or ctx is cancelled.
func Play(ctx context.Context, env *game.Env, a Agent, opts PlayOptions) (telemetry.EpisodeResult, error) {
	if opts.Collector != nil {
		opts.Collector.Reset("")
	}
	snap, err := env.Reset()
	if err != nil {
		return telemetry.EpisodeResult{}, err
	}
	if opts.Collector != nil {
		opts.Collector.Label(env.EpisodeID())
	}
	if err := opts.Recorder.Record(telemetry.Frame{Snapshot: snap}); err != nil {
		return telemetry.EpisodeResult{}, err
	}

	result := telemetry.EpisodeResult{
		Episode: env.EpisodeID(),
		Seed:    env.EpisodeSeed(),
		Agent:   a.Name(),
	}
	actions := make([]game.Action, len(snap.Players))
	var tr game.Transition
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		for i := range actions {
			actions[i] = a.Act(&snap, i)
		}
		tr, err = env.StepAll(actions)
		if err != nil {
			return result, err
		}
		result.Steps++
		result.TotalReward += tr.Reward
		snap = tr.Observation

		if err := opts.Recorder.Record(telemetry.Frame{
			Step:     result.Steps,
			Actions:  slices.Clone(actions),
			Reward:   tr.Reward,
			Snapshot: snap,
		}); err != nil {
			return result, err
		}
		if tr.Done {
			break
		}
	}

	result.Outcome = telemetry.EpisodeOutcome(&snap)
	result.Score = snap.Score
	result.Level = snap.Level
	result.Ticks = snap.Tick
	result.LivesLeft = snap.Lives()
	result.DurationSec = float64(snap.Tick) * env.Session().Config().Derived.SecondsPerTick
	if c := opts.Collector; c != nil {
		if tr.Info.Truncated {
			c.Close(snap)
		}
		totals := c.Totals()
		result.Popped = totals.Popped
		result.Deaths = totals.Deaths
		result.Bonuses = totals.Bonuses
	}
	return result, nil
}
