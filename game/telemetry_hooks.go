package game

// emit stamps an event with the current session state and hands it to
// the observer.
func (s *Session) emit(e Event) {
	if s.observer == nil {
		return
	}
	e.Tick = s.tick
	e.Level = s.level
	e.Score = s.score
	e.TimeLeft = s.countdown.Remaining()
	e.Lives = s.Lives()
	s.observer.Observe(e)
}
