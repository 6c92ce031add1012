package game

import "github.com/pthm-cable/bubbletrouble/components"

// EventType identifies session events.
type EventType uint8

const (
	EventLevelStart EventType = iota
	EventPop
	EventLifeLost
	EventBonus
	EventTimeBonus
	EventLevelCompleted
	EventGameOver
	EventAllCompleted
)

var eventNames = []string{
	"level_start", "pop", "life_lost", "bonus", "time_bonus",
	"level_completed", "game_over", "all_completed",
}

// String returns the event name.
func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// DeathCause says why a player lost a life.
type DeathCause uint8

const (
	CauseBubble DeathCause = iota
	CauseTimeout
)

// String returns the cause name.
func (c DeathCause) String() string {
	if c == CauseTimeout {
		return "timeout"
	}
	return "bubble"
}

// Event is emitted by a session as its state changes.
type Event struct {
	Type     EventType
	Tick     int64
	Level    int
	Player   int // -1 when the event concerns no single player
	Kind     components.Kind
	Tier     int
	Bonus    components.BonusType
	Cause    DeathCause
	Points   int // score awarded by this event
	Score    int
	TimeLeft int
	Lives    int // lives left across all players
}

// Observer receives session events synchronously on the ticking goroutine.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) { f(e) }

// Observers fans events out to several observers in order.
type Observers []Observer

// Observe implements Observer.
func (o Observers) Observe(e Event) {
	for _, obs := range o {
		if obs != nil {
			obs.Observe(e)
		}
	}
}
