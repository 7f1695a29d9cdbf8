// Package terminal reveals a scripted sequence of terminal lines, each after
// its own delay.
package terminal

import (
	"fmt"
	"strings"
	"time"

	"github.com/Zachkp/soc-portfolio/internal/sched"
)

// Severity selects how a line is prefixed and coloured.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
	Command
)

var severityNames = [...]string{
	Info:    "info",
	Success: "success",
	Warning: "warning",
	Error:   "error",
	Command: "cmd",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Prefix is the marker printed before the line text.
func (s Severity) Prefix() string {
	if s == Command {
		return "$"
	}
	return "[" + strings.ToUpper(s.String()) + "]"
}

// Line is one scripted terminal line. Delay is measured from mount.
type Line struct {
	Text     string        `json:"text" yaml:"text"`
	Delay    time.Duration `json:"delay" yaml:"delay"`
	Severity Severity      `json:"severity" yaml:"severity"`
}

// Reveal tracks which lines of a script are visible. It is not safe for
// concurrent use; the owner serializes access with the lock its scheduler
// was created with.
//
// Lines become visible independently when their delay elapses. Ordering on
// screen follows the script, so scripts should use increasing delays.
type Reveal struct {
	lines     []Line
	visible   []bool
	tasks     []*sched.Task
	mounted   bool
	dismissed bool
	onChange  func()
}

// NewReveal returns an unmounted Reveal over lines. onChange, if set, is
// called after each line appears.
func NewReveal(lines []Line, onChange func()) *Reveal {
	return &Reveal{
		lines:    lines,
		visible:  make([]bool, len(lines)),
		onChange: onChange,
	}
}

// Mount schedules one deferred reveal per line. Mounting a mounted or
// dismissed Reveal does nothing.
func (r *Reveal) Mount(s *sched.Scheduler) {
	if r.mounted || r.dismissed {
		return
	}
	r.mounted = true
	r.tasks = r.tasks[:0]
	for i, line := range r.lines {
		idx := i
		r.tasks = append(r.tasks, s.After(line.Delay, func() { r.show(idx) }))
	}
}

func (r *Reveal) show(idx int) {
	if !r.mounted || r.visible[idx] {
		return
	}
	r.visible[idx] = true
	if r.onChange != nil {
		r.onChange()
	}
}

// Unmount cancels pending reveals and hides every line, so the next Mount
// replays the script from the start.
func (r *Reveal) Unmount() {
	r.cancel()
	r.mounted = false
	clear(r.visible)
}

// Dismiss permanently hides the block and cancels pending reveals.
func (r *Reveal) Dismiss() {
	r.Unmount()
	r.dismissed = true
}

func (r *Reveal) cancel() {
	for _, t := range r.tasks {
		t.Cancel()
	}
	r.tasks = r.tasks[:0]
}

// Mounted reports whether the block is currently on screen.
func (r *Reveal) Mounted() bool { return r.mounted }

// Dismissed reports whether Dismiss has been called.
func (r *Reveal) Dismissed() bool { return r.dismissed }

// Pending returns the number of lines still waiting for their delay.
func (r *Reveal) Pending() int {
	n := 0
	for _, t := range r.tasks {
		if t.Active() {
			n++
		}
	}
	return n
}

// Visible returns the lines shown so far, in script order.
func (r *Reveal) Visible() []Line {
	out := make([]Line, 0, len(r.lines))
	for i, line := range r.lines {
		if r.visible[i] {
			out = append(out, line)
		}
	}
	return out
}

// Len returns the number of lines in the script.
func (r *Reveal) Len() int { return len(r.lines) }
