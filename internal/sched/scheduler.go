// Package sched runs deferred and repeating tasks on behalf of a single owner.
//
// Every task callback runs while holding the owner's lock, and every
// Scheduler method must be called with that lock held. A task that has been
// cancelled never runs its callback, even when its timer already fired and
// the callback is waiting for the lock.
package sched

import (
	"sync"
	"time"
)

// Scheduler tracks the pending tasks of one owner so they can be cancelled
// together when the owner is disposed.
type Scheduler struct {
	clock  Clock
	owner  sync.Locker
	tasks  map[*Task]struct{}
	closed bool
}

// Task is a scheduled callback. Its pointer doubles as the cancellation token.
type Task struct {
	s         *Scheduler
	timer     Timer
	interval  time.Duration
	once      func()
	repeat    func(*Task)
	cancelled bool
	done      bool
}

// New returns a Scheduler whose callbacks serialize on owner.
func New(clock Clock, owner sync.Locker) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	return &Scheduler{
		clock: clock,
		owner: owner,
		tasks: make(map[*Task]struct{}),
	}
}

// Now returns the scheduler clock's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// After schedules fn to run once after d. On a closed scheduler the returned
// task is already cancelled.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	t := &Task{s: s, once: fn}
	if s.closed {
		t.cancelled = true
		return t
	}
	s.tasks[t] = struct{}{}
	t.timer = s.clock.AfterFunc(d, t.fire)
	return t
}

// Every schedules fn to run every interval until the task is cancelled.
// fn receives its own task so it can stop the repetition from inside.
func (s *Scheduler) Every(interval time.Duration, fn func(*Task)) *Task {
	t := &Task{s: s, interval: interval, repeat: fn}
	if s.closed {
		t.cancelled = true
		return t
	}
	s.tasks[t] = struct{}{}
	t.timer = s.clock.AfterFunc(interval, t.fire)
	return t
}

// CancelAll cancels every pending task and refuses new ones.
func (s *Scheduler) CancelAll() {
	s.closed = true
	for t := range s.tasks {
		t.stop()
	}
	clear(s.tasks)
}

// Pending returns the number of tasks that may still run.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Closed reports whether CancelAll has been called.
func (s *Scheduler) Closed() bool {
	return s.closed
}

// Cancel stops the task. It is safe to call more than once, and from inside
// the task's own callback.
func (t *Task) Cancel() {
	if t == nil || t.cancelled {
		return
	}
	t.stop()
	delete(t.s.tasks, t)
}

// Active reports whether the task can still run.
func (t *Task) Active() bool {
	return t != nil && !t.cancelled && !t.done
}

func (t *Task) stop() {
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *Task) fire() {
	t.s.owner.Lock()
	defer t.s.owner.Unlock()

	if t.cancelled {
		return
	}

	if t.repeat == nil {
		t.done = true
		delete(t.s.tasks, t)
		t.once()
		return
	}

	t.repeat(t)
	if !t.cancelled {
		t.timer = t.s.clock.AfterFunc(t.interval, t.fire)
	}
}
