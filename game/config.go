package game

import (
	"log/slog"

	"github.com/pthm-cable/bubbletrouble/config"
	"github.com/pthm-cable/bubbletrouble/level"
	"github.com/pthm-cable/bubbletrouble/progress"
)

// Options configures a new session. Zero values fall back to defaults.
type Options struct {
	Config   *config.Config // nil = embedded defaults
	Levels   *level.Set     // nil = embedded level set
	Progress progress.Store // nil = in-memory store with level 1 unlocked
	Seed     int64
	Players  int // 0 = player.count from config
	Observer Observer
	Logger   *slog.Logger
	Perf     *PerfStats // optional per-phase timing
}

func (o Options) withDefaults() Options {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Levels == nil {
		o.Levels = level.Default()
	}
	if o.Progress == nil {
		o.Progress = progress.NewMemoryStore(1)
	}
	if o.Players <= 0 {
		o.Players = o.Config.Player.Count
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
