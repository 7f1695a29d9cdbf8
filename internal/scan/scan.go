// Package scan simulates the cosmetic "system scan" progress counter.
package scan

import (
	"time"

	"github.com/Zachkp/soc-portfolio/internal/sched"
)

const (
	DefaultInterval = 30 * time.Millisecond
	DefaultStep     = 2
	DefaultSettle   = 500 * time.Millisecond

	// Complete is the progress value that ends a cycle.
	Complete = 100
)

// Config holds the simulator timing. Zero or negative fields take defaults.
type Config struct {
	Interval time.Duration
	Step     int
	Settle   time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Step <= 0 {
		c.Step = DefaultStep
	}
	if c.Settle <= 0 {
		c.Settle = DefaultSettle
	}
	return c
}

// Hooks observe a simulator. All hooks run under the owner's lock.
type Hooks struct {
	OnChange   func()
	OnComplete func()
}

// Simulator counts from 0 to Complete on a repeating tick, then clears its
// active flag after a settle delay. Access is serialized by the owner lock
// of the scheduler passed to New.
type Simulator struct {
	cfg      Config
	s        *sched.Scheduler
	hooks    Hooks
	active   bool
	progress int
	ticker   *sched.Task
	settle   *sched.Task
}

// New returns an idle simulator.
func New(s *sched.Scheduler, cfg Config, hooks Hooks) *Simulator {
	return &Simulator{cfg: cfg.withDefaults(), s: s, hooks: hooks}
}

// Start begins a cycle from zero. It returns false, changing nothing, when
// a cycle is already running.
func (sim *Simulator) Start() bool {
	if sim.active || sim.s.Closed() {
		return false
	}
	sim.active = true
	sim.progress = 0
	sim.ticker = sim.s.Every(sim.cfg.Interval, sim.tick)
	sim.changed()
	return true
}

// tick stops its own repetition on the tick that reaches Complete.
func (sim *Simulator) tick(t *sched.Task) {
	sim.progress = min(sim.progress+sim.cfg.Step, Complete)
	if sim.progress >= Complete {
		t.Cancel()
		sim.ticker = nil
		sim.settle = sim.s.After(sim.cfg.Settle, sim.finish)
		if sim.hooks.OnComplete != nil {
			sim.hooks.OnComplete()
		}
	}
	sim.changed()
}

func (sim *Simulator) finish() {
	sim.settle = nil
	sim.active = false
	sim.changed()
}

func (sim *Simulator) changed() {
	if sim.hooks.OnChange != nil {
		sim.hooks.OnChange()
	}
}

// Stop cancels any running tick or settle task. The flags are left as they
// were; Stop is meant for disposal.
func (sim *Simulator) Stop() {
	sim.ticker.Cancel()
	sim.settle.Cancel()
	sim.ticker = nil
	sim.settle = nil
}

// Active reports whether a cycle is running or settling.
func (sim *Simulator) Active() bool { return sim.active }

// Progress returns the current percentage.
func (sim *Simulator) Progress() int { return sim.progress }

// Ticking reports whether the repeating tick is still scheduled.
func (sim *Simulator) Ticking() bool { return sim.ticker.Active() }

// Config returns the effective timing.
func (sim *Simulator) Config() Config { return sim.cfg }
