package game

import (
	"sort"
	"time"
)

// Phase names one timed section of a physics tick.
type Phase uint8

// Tick phases, in execution order.
const (
	PhaseCountdown Phase = iota
	PhaseMovement
	PhaseCollisions
	PhaseFlags
	NumPhases
)

var phaseNames = [NumPhases]string{"countdown", "movement", "collisions", "flags"}

func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// DefaultPerfWindow is ten seconds of ticks at the default rate.
const DefaultPerfWindow = 600

// phaseWindow is a ring of the most recent samples of one phase.
type phaseWindow struct {
	buf  []time.Duration
	next int
	n    int
	sum  time.Duration
	max  time.Duration
}

func (w *phaseWindow) add(d time.Duration) {
	if w.n == len(w.buf) {
		w.sum -= w.buf[w.next]
	} else {
		w.n++
	}
	w.buf[w.next] = d
	w.sum += d
	w.next = (w.next + 1) % len(w.buf)
	if d > w.max {
		w.max = d
	}
}

// PerfStats keeps rolling per-phase tick timings. A nil *PerfStats
// records nothing.
type PerfStats struct {
	phases [NumPhases]phaseWindow
}

// NewPerfStats averages each phase over its last window samples.
func NewPerfStats(window int) *PerfStats {
	if window < 1 {
		window = DefaultPerfWindow
	}
	p := &PerfStats{}
	for i := range p.phases {
		p.phases[i].buf = make([]time.Duration, window)
	}
	return p
}

// Record adds a sample for ph.
func (p *PerfStats) Record(ph Phase, d time.Duration) {
	if p == nil || ph >= NumPhases {
		return
	}
	p.phases[ph].add(d)
}

// Avg returns the windowed mean of ph.
func (p *PerfStats) Avg(ph Phase) time.Duration {
	if p == nil || ph >= NumPhases {
		return 0
	}
	w := &p.phases[ph]
	if w.n == 0 {
		return 0
	}
	return w.sum / time.Duration(w.n)
}

// Max returns the slowest sample of ph ever recorded.
func (p *PerfStats) Max(ph Phase) time.Duration {
	if p == nil || ph >= NumPhases {
		return 0
	}
	return p.phases[ph].max
}

// Samples returns how many samples of ph are in the window.
func (p *PerfStats) Samples(ph Phase) int {
	if p == nil || ph >= NumPhases {
		return 0
	}
	return p.phases[ph].n
}

// Total returns the mean duration of a whole tick.
func (p *PerfStats) Total() time.Duration {
	var total time.Duration
	for ph := Phase(0); ph < NumPhases; ph++ {
		total += p.Avg(ph)
	}
	return total
}

// Slowest returns the recorded phases, slowest first.
func (p *PerfStats) Slowest() []Phase {
	if p == nil {
		return nil
	}
	var out []Phase
	for ph := Phase(0); ph < NumPhases; ph++ {
		if p.phases[ph].n > 0 {
			out = append(out, ph)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return p.Avg(out[i]) > p.Avg(out[j]) })
	return out
}
