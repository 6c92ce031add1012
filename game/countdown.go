package game

// Countdown is the level timer. It is a virtual clock advanced exactly once
// per physics tick, so it can never race the simulation or fire after the
// level it belongs to was replaced.
type Countdown struct {
	ticksPerSecond int
	remaining      int // whole seconds left
	ticks          int // ticks elapsed in the current second
	epoch          uint64
	running        bool
}

// NewCountdown creates a stopped countdown.
func NewCountdown(ticksPerSecond int) *Countdown {
	if ticksPerSecond < 1 {
		ticksPerSecond = 1
	}
	return &Countdown{ticksPerSecond: ticksPerSecond}
}

// Restart starts a new countdown of the given length, discarding any
// partial second and invalidating the previous epoch.
func (c *Countdown) Restart(seconds int) {
	c.epoch++
	c.ticks = 0
	c.remaining = max(seconds, 0)
	c.running = c.remaining > 0
}

// Stop cancels the countdown. Remaining time is kept for reporting.
func (c *Countdown) Stop() {
	c.epoch++
	c.running = false
}

// Extend adds seconds to a running countdown.
func (c *Countdown) Extend(seconds int) {
	if !c.running || seconds <= 0 {
		return
	}
	c.remaining += seconds
}

// Advance moves the clock forward one tick. It returns true on the tick
// the countdown reaches zero, and only on that tick.
func (c *Countdown) Advance() bool {
	if !c.running {
		return false
	}
	c.ticks++
	if c.ticks < c.ticksPerSecond {
		return false
	}
	c.ticks = 0
	c.remaining--
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.running = false
	return true
}

// Remaining returns the whole seconds left.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Running reports whether the countdown is active.
func (c *Countdown) Running() bool {
	return c.running
}

// Epoch identifies the current countdown instance.
func (c *Countdown) Epoch() uint64 {
	return c.epoch
}
