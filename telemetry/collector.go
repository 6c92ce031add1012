package telemetry

import "github.com/pthm-cable/bubbletrouble/game"

// Attempt outcomes.
const (
	OutcomeCleared    = "cleared"
	OutcomeDied       = "died"
	OutcomeGameOver   = "game_over"
	OutcomeUnfinished = "unfinished"
)

// LevelStats describes one attempt at a level, from its load until it was
// cleared, restarted after a death, or the game ended.
type LevelStats struct {
	Episode     string  `csv:"episode"`
	Level       int     `csv:"level"`
	Attempt     int     `csv:"attempt"`
	Outcome     string  `csv:"outcome"`
	StartTick   int64   `csv:"start_tick"`
	EndTick     int64   `csv:"end_tick"`
	DurationSec float64 `csv:"duration_sec"`
	Popped      int     `csv:"popped"`
	Deaths      int     `csv:"deaths"`
	Bonuses     int     `csv:"bonuses"`
	Points      int     `csv:"points"` // pops plus time bonus
	TimeLeft    int     `csv:"time_left"`
	Lives       int     `csv:"lives"`
	Score       int     `csv:"score"`
}

// Totals counts events over a whole episode.
type Totals struct {
	Popped    int
	Deaths    int
	Bonuses   int
	TimeBonus int
}

// Collector turns session events into per-attempt level statistics. It
// implements game.Observer and must be fed from the ticking goroutine.
type Collector struct {
	episode        string
	secondsPerTick float64

	attempts map[int]int
	current  *LevelStats
	done     []LevelStats
	totals   Totals
}

// NewCollector creates a collector for one episode.
// ticksPerSecond converts tick spans to simulated seconds.
func NewCollector(episode string, ticksPerSecond int) *Collector {
	if ticksPerSecond < 1 {
		ticksPerSecond = 1
	}
	return &Collector{
		episode:        episode,
		secondsPerTick: 1 / float64(ticksPerSecond),
		attempts:       make(map[int]int),
	}
}

// Reset clears all records and starts collecting for a new episode.
func (c *Collector) Reset(episode string) {
	c.episode = episode
	c.attempts = make(map[int]int)
	c.current = nil
	c.done = nil
	c.totals = Totals{}
}

// Label sets the episode name on the open attempt and every later one.
// Use it when the episode ID is only known after the first level loaded.
func (c *Collector) Label(episode string) {
	c.episode = episode
	if c.current != nil {
		c.current.Episode = episode
	}
}

// Observe implements game.Observer.
func (c *Collector) Observe(e game.Event) {
	switch e.Type {
	case game.EventLevelStart:
		// An attempt still open here was cut short by a death.
		c.finish(e, OutcomeDied)
		c.attempts[e.Level]++
		c.current = &LevelStats{
			Episode:   c.episode,
			Level:     e.Level,
			Attempt:   c.attempts[e.Level],
			StartTick: e.Tick,
		}
	case game.EventPop:
		c.totals.Popped++
		if c.current != nil {
			c.current.Popped++
			c.current.Points += e.Points
		}
	case game.EventLifeLost:
		c.totals.Deaths++
		if c.current != nil {
			c.current.Deaths++
		}
	case game.EventBonus:
		c.totals.Bonuses++
		if c.current != nil {
			c.current.Bonuses++
		}
	case game.EventTimeBonus:
		c.totals.TimeBonus += e.Points
		// The bonus belongs to the level that was just cleared.
		if n := len(c.done); n > 0 && c.done[n-1].Level == e.Level {
			c.done[n-1].Points += e.Points
			c.done[n-1].Score = e.Score
		}
	case game.EventLevelCompleted:
		c.finish(e, OutcomeCleared)
	case game.EventGameOver:
		c.finish(e, OutcomeGameOver)
	}
}

// finish closes the open attempt, if any.
func (c *Collector) finish(e game.Event, outcome string) {
	if c.current == nil {
		return
	}
	rec := *c.current
	rec.Outcome = outcome
	rec.EndTick = e.Tick
	rec.DurationSec = float64(rec.EndTick-rec.StartTick) * c.secondsPerTick
	rec.TimeLeft = e.TimeLeft
	rec.Lives = e.Lives
	rec.Score = e.Score
	c.done = append(c.done, rec)
	c.current = nil
}

// Close marks the open attempt as unfinished using the final snapshot.
// Call it when an episode is cut short.
func (c *Collector) Close(snap game.Snapshot) {
	c.finish(game.Event{
		Tick:     snap.Tick,
		Level:    snap.Level,
		Score:    snap.Score,
		TimeLeft: snap.TimeLeft,
		Lives:    snap.Lives(),
	}, OutcomeUnfinished)
}

// Levels returns the closed attempts in order.
func (c *Collector) Levels() []LevelStats {
	return c.done
}

// Totals returns the episode event counts.
func (c *Collector) Totals() Totals {
	return c.totals
}
