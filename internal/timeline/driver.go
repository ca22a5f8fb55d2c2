package timeline

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const DefaultInterval = 300 * time.Millisecond

// TickMsg is delivered to the owning model when a scheduled tick fires.
type TickMsg struct {
	Seq  uint64
	Time time.Time
}

// Driver sweeps a year threshold through a Range. It starts stopped at
// Range.Max.
type Driver struct {
	rng      Range
	interval time.Duration
	year     int
	running  bool
	seq      uint64
}

func NewDriver(r Range, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Driver{
		rng:      r,
		interval: interval,
		year:     r.Max,
	}
}

func (d *Driver) Year() int { return d.year }

func (d *Driver) Running() bool { return d.running }

func (d *Driver) Range() Range { return d.rng }

func (d *Driver) Interval() time.Duration { return d.interval }

// Start moves to Running and schedules the first tick. It returns nil when the
// driver is already running.
func (d *Driver) Start() tea.Cmd {
	if d.running {
		return nil
	}
	d.running = true
	d.seq++
	return d.schedule()
}

// Stop moves to Stopped. Any tick already scheduled becomes stale.
func (d *Driver) Stop() {
	d.running = false
	d.seq++
}

func (d *Driver) Toggle() tea.Cmd {
	if d.running {
		d.Stop()
		return nil
	}
	return d.Start()
}

// Set moves the threshold by hand. Manual input always halts autoplay.
func (d *Driver) Set(year int) {
	d.Stop()
	d.year = d.rng.Clamp(year)
}

// Step nudges the threshold by delta years, clamped, and halts autoplay.
func (d *Driver) Step(delta int) {
	d.Set(d.year + delta)
}

// Tick applies a fired tick. It reports whether the threshold moved and
// returns the command for the following tick. Ticks from a stopped or
// restarted driver are ignored.
func (d *Driver) Tick(msg TickMsg) (bool, tea.Cmd) {
	if !d.running || msg.Seq != d.seq {
		return false, nil
	}
	d.year = d.rng.Next(d.year)
	return true, d.schedule()
}

// Close releases the driver. It is safe to call more than once.
func (d *Driver) Close() {
	d.Stop()
}

func (d *Driver) schedule() tea.Cmd {
	seq := d.seq
	return tea.Tick(d.interval, func(t time.Time) tea.Msg {
		return TickMsg{Seq: seq, Time: t}
	})
}
