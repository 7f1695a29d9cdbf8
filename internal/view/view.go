// Package view holds the page's UI state and the actions that change it.
package view

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/soc-portfolio/internal/apperror"
	"github.com/Zachkp/soc-portfolio/internal/content"
	"github.com/Zachkp/soc-portfolio/internal/scan"
	"github.com/Zachkp/soc-portfolio/internal/sched"
	"github.com/Zachkp/soc-portfolio/internal/terminal"
)

// EventKind names something that happened to a view.
type EventKind string

const (
	EventOpened            EventKind = "view_opened"
	EventTabSelected       EventKind = "tab_selected"
	EventTerminalDismissed EventKind = "terminal_dismissed"
	EventScanStarted       EventKind = "scan_started"
	EventScanCompleted     EventKind = "scan_completed"
	EventDisposed          EventKind = "view_disposed"
)

// Observer receives view events. It is called with the view locked and
// must not block or call back into the view.
type Observer interface {
	ViewEvent(id uuid.UUID, kind EventKind, detail string)
}

// Options configures new views. Zero fields fall back to the real clock,
// the default scan timings and the built-in terminal script.
type Options struct {
	Clock    sched.Clock
	Scan     scan.Config
	Script   []terminal.Line
	Observer Observer
}

// State is a point-in-time copy of a view.
type State struct {
	ID              uuid.UUID       `json:"id"`
	ActiveTab       Tab             `json:"active_tab"`
	TerminalVisible bool            `json:"terminal_visible"`
	TerminalShown   bool            `json:"terminal_shown"`
	TerminalLines   []terminal.Line `json:"terminal_lines"`
	TerminalTotal   int             `json:"terminal_total"`
	ScanActive      bool            `json:"scan_active"`
	ScanProgress    int             `json:"scan_progress"`
	Disposed        bool            `json:"disposed"`
}

// View owns the state of one rendered page. All methods are safe for
// concurrent use; scheduled callbacks serialize on the same lock.
type View struct {
	mu sync.Mutex

	id              uuid.UUID
	sched           *sched.Scheduler
	observer        Observer
	tab             Tab
	terminalVisible bool
	reveal          *terminal.Reveal
	scanner         *scan.Simulator
	subs            map[chan struct{}]struct{}
	lastActive      time.Time
	disposed        bool
}

// New returns a view on the profile tab with its terminal mounted.
func New(id uuid.UUID, opts Options) *View {
	if opts.Script == nil {
		opts.Script = content.TerminalScript
	}
	v := &View{
		id:              id,
		observer:        opts.Observer,
		tab:             Profile,
		terminalVisible: true,
		subs:            make(map[chan struct{}]struct{}),
	}
	v.sched = sched.New(opts.Clock, &v.mu)
	v.reveal = terminal.NewReveal(opts.Script, v.notify)
	v.scanner = scan.New(v.sched, opts.Scan, scan.Hooks{
		OnChange:   v.notify,
		OnComplete: func() { v.emit(EventScanCompleted, "") },
	})

	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastActive = v.sched.Now()
	v.reveal.Mount(v.sched)
	v.emit(EventOpened, "")
	return v
}

func (v *View) ID() uuid.UUID { return v.id }

// SetTab selects t. Leaving the profile tab unmounts the terminal block and
// cancels its pending lines; coming back remounts it from the start.
func (v *View) SetTab(t Tab) error {
	if !t.Valid() {
		return apperror.NewInvalidInput("unknown "+t.String(), nil)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return nil
	}
	v.touch()

	prev := v.tab
	v.tab = t
	if prev != t {
		v.syncTerminal()
	}
	v.emit(EventTabSelected, t.String())
	v.notify()
	return nil
}

// DismissTerminal hides the terminal block for the rest of the view's life.
func (v *View) DismissTerminal() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed || !v.terminalVisible {
		return
	}
	v.touch()
	v.terminalVisible = false
	v.reveal.Dismiss()
	v.emit(EventTerminalDismissed, "")
	v.notify()
}

// StartScan starts a scan cycle. It reports false, changing nothing, while
// a cycle is already running.
func (v *View) StartScan() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return false
	}
	v.touch()
	if !v.scanner.Start() {
		return false
	}
	v.emit(EventScanStarted, "")
	return true
}

// syncTerminal mounts the terminal block exactly when it is on screen.
func (v *View) syncTerminal() {
	shown := v.tab == Profile && v.terminalVisible
	switch {
	case shown && !v.reveal.Mounted():
		v.reveal.Mount(v.sched)
	case !shown && v.reveal.Mounted():
		v.reveal.Unmount()
	}
}

// Snapshot returns the current state.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot()
}

func (v *View) snapshot() State {
	return State{
		ID:              v.id,
		ActiveTab:       v.tab,
		TerminalVisible: v.terminalVisible,
		TerminalShown:   v.tab == Profile && v.terminalVisible,
		TerminalLines:   v.reveal.Visible(),
		TerminalTotal:   v.reveal.Len(),
		ScanActive:      v.scanner.Active(),
		ScanProgress:    v.scanner.Progress(),
		Disposed:        v.disposed,
	}
}

// Subscribe returns a channel that receives a signal after every change.
// Signals coalesce; read Snapshot after each one. The channel is closed
// when the view is disposed or cancel is called.
func (v *View) Subscribe() (<-chan struct{}, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan struct{}, 1)
	if v.disposed {
		close(ch)
		return ch, func() {}
	}
	v.subs[ch] = struct{}{}
	return ch, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, ok := v.subs[ch]; ok {
			delete(v.subs, ch)
			close(ch)
			v.touch()
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (v *View) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// Touch marks the view as in use.
func (v *View) Touch() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touch()
}

// LastActive returns when the view was last used.
func (v *View) LastActive() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastActive
}

// Pending returns the number of scheduled callbacks still outstanding.
func (v *View) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sched.Pending()
}

// Dispose cancels every scheduled callback and closes subscriptions.
// Later actions are ignored.
func (v *View) Dispose() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.disposed {
		return
	}
	v.disposed = true
	v.reveal.Unmount()
	v.scanner.Stop()
	v.sched.CancelAll()
	for ch := range v.subs {
		close(ch)
	}
	clear(v.subs)
	v.emit(EventDisposed, "")
}

func (v *View) touch() {
	v.lastActive = v.sched.Now()
}

func (v *View) emit(kind EventKind, detail string) {
	if v.observer != nil {
		v.observer.ViewEvent(v.id, kind, detail)
	}
}

// notify signals subscribers. Caller holds v.mu.
func (v *View) notify() {
	for ch := range v.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
