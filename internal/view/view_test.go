package view

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/soc-portfolio/internal/apperror"
	"github.com/Zachkp/soc-portfolio/internal/content"
	"github.com/Zachkp/soc-portfolio/internal/scan"
	"github.com/Zachkp/soc-portfolio/internal/sched"
)

type recorder struct {
	mu     sync.Mutex
	events []EventKind
}

func (r *recorder) ViewEvent(_ uuid.UUID, kind EventKind, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind)
}

func (r *recorder) count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.events {
		if k == kind {
			n++
		}
	}
	return n
}

func newTestView() (*View, *sched.ManualClock, *recorder) {
	clock := sched.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	rec := &recorder{}
	v := New(uuid.New(), Options{Clock: clock, Observer: rec})
	return v, clock, rec
}

func TestInitialState(t *testing.T) {
	v, _, rec := newTestView()
	s := v.Snapshot()

	assert.Equal(t, Profile, s.ActiveTab)
	assert.True(t, s.TerminalVisible)
	assert.True(t, s.TerminalShown)
	assert.False(t, s.ScanActive)
	assert.Equal(t, 0, s.ScanProgress)
	assert.Empty(t, s.TerminalLines)
	assert.Equal(t, len(content.TerminalScript), s.TerminalTotal)
	assert.Equal(t, 1, rec.count(EventOpened))
}

func TestSetTabSelectsExactlyThatTab(t *testing.T) {
	v, _, _ := newTestView()
	for _, tab := range Tabs() {
		require.NoError(t, v.SetTab(tab))
		assert.Equal(t, tab, v.Snapshot().ActiveTab)
	}
}

func TestSetTabRejectsUnknown(t *testing.T) {
	v, _, _ := newTestView()
	err := v.SetTab(Tab(42))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, Profile, v.Snapshot().ActiveTab)
}

func TestTerminalRevealsOverTime(t *testing.T) {
	v, clock, _ := newTestView()

	clock.Advance(500 * time.Millisecond)
	lines := v.Snapshot().TerminalLines
	require.Len(t, lines, 1)
	assert.Equal(t, "whoami", lines[0].Text)

	clock.Advance(4 * time.Second)
	assert.Len(t, v.Snapshot().TerminalLines, len(content.TerminalScript))
	assert.Equal(t, 0, v.Pending())
}

func TestLeavingProfileCancelsTerminalAndReturningReplays(t *testing.T) {
	v, clock, _ := newTestView()
	clock.Advance(time.Second)
	require.Len(t, v.Snapshot().TerminalLines, 2)

	require.NoError(t, v.SetTab(Skills))
	s := v.Snapshot()
	assert.False(t, s.TerminalShown)
	assert.True(t, s.TerminalVisible)
	assert.Empty(t, s.TerminalLines)
	assert.Equal(t, 0, v.Pending())

	clock.Advance(10 * time.Second)
	assert.Empty(t, v.Snapshot().TerminalLines)

	require.NoError(t, v.SetTab(Profile))
	assert.Empty(t, v.Snapshot().TerminalLines)
	clock.Advance(500 * time.Millisecond)
	assert.Len(t, v.Snapshot().TerminalLines, 1)
}

func TestReselectingProfileDoesNotRemount(t *testing.T) {
	v, clock, _ := newTestView()
	clock.Advance(time.Second)

	require.NoError(t, v.SetTab(Profile))
	assert.Len(t, v.Snapshot().TerminalLines, 2)
}

func TestDismissTerminalIsOneWay(t *testing.T) {
	v, clock, rec := newTestView()
	clock.Advance(600 * time.Millisecond)

	v.DismissTerminal()
	s := v.Snapshot()
	assert.False(t, s.TerminalVisible)
	assert.False(t, s.TerminalShown)
	assert.Empty(t, s.TerminalLines)
	assert.Equal(t, 0, v.Pending())

	for _, tab := range Tabs() {
		require.NoError(t, v.SetTab(tab))
	}
	require.NoError(t, v.SetTab(Profile))
	clock.Advance(10 * time.Second)

	s = v.Snapshot()
	assert.False(t, s.TerminalVisible)
	assert.Empty(t, s.TerminalLines)

	v.DismissTerminal()
	assert.Equal(t, 1, rec.count(EventTerminalDismissed))
}

func TestScanScenario(t *testing.T) {
	v, clock, rec := newTestView()
	v.DismissTerminal()

	require.True(t, v.StartScan())
	s := v.Snapshot()
	assert.True(t, s.ScanActive)
	assert.Equal(t, 0, s.ScanProgress)

	for want := 2; want <= 100; want += 2 {
		clock.Advance(scan.DefaultInterval)
		assert.Equal(t, want, v.Snapshot().ScanProgress)
	}
	assert.True(t, v.Snapshot().ScanActive)
	assert.Equal(t, 1, rec.count(EventScanCompleted))

	clock.Advance(scan.DefaultSettle)
	s = v.Snapshot()
	assert.False(t, s.ScanActive)
	assert.Equal(t, 100, s.ScanProgress)
	assert.Equal(t, 0, v.Pending())

	require.True(t, v.StartScan())
	assert.Equal(t, 0, v.Snapshot().ScanProgress)
	assert.Equal(t, 2, rec.count(EventScanStarted))
}

func TestStartScanWhileActiveIsNoop(t *testing.T) {
	v, clock, rec := newTestView()
	require.True(t, v.StartScan())
	clock.Advance(3 * scan.DefaultInterval)

	before := v.Snapshot()
	assert.False(t, v.StartScan())
	after := v.Snapshot()
	assert.Equal(t, before.ScanActive, after.ScanActive)
	assert.Equal(t, before.ScanProgress, after.ScanProgress)
	assert.Equal(t, 1, rec.count(EventScanStarted))
}

func TestSubscribeReceivesCoalescedSignals(t *testing.T) {
	v, clock, _ := newTestView()
	ch, cancel := v.Subscribe()
	defer cancel()

	require.True(t, v.StartScan())
	clock.Advance(10 * scan.DefaultInterval)

	select {
	case _, ok := <-ch:
		require.True(t, ok)
	default:
		t.Fatal("expected a change signal")
	}
	assert.Equal(t, 20, v.Snapshot().ScanProgress)

	select {
	case <-ch:
		t.Fatal("signals should coalesce into one")
	default:
	}
}

func TestDisposeCancelsEverything(t *testing.T) {
	v, clock, rec := newTestView()
	ch, _ := v.Subscribe()
	require.True(t, v.StartScan())
	clock.Advance(100 * time.Millisecond)
	require.Greater(t, v.Pending(), 0)

	v.Dispose()
	v.Dispose()

	assert.Equal(t, 0, v.Pending())
	assert.True(t, v.Snapshot().Disposed)

	progress := v.Snapshot().ScanProgress
	clock.Advance(10 * time.Second)
	assert.Equal(t, progress, v.Snapshot().ScanProgress)
	assert.False(t, v.StartScan())

	// drain the pending signal, then expect close
	for range ch {
	}
	assert.Equal(t, 1, rec.count(EventDisposed))
}

func TestParseTab(t *testing.T) {
	for _, tab := range Tabs() {
		parsed, err := ParseTab(tab.String())
		require.NoError(t, err)
		assert.Equal(t, tab, parsed)
	}

	for _, bad := range []string{"", "Profile", "admin", "skills "} {
		_, err := ParseTab(bad)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, bad)
	}
}

func TestTabShows(t *testing.T) {
	sections := []Section{SectionExperience, SectionSkills, SectionCertificates}
	want := map[Tab][]bool{
		Profile:      {true, true, true},
		Experience:   {true, false, false},
		Skills:       {false, true, false},
		Certificates: {false, false, true},
		Contact:      {false, false, false},
	}
	for tab, shows := range want {
		for i, section := range sections {
			assert.Equal(t, shows[i], tab.Shows(section), "%s/%d", tab, section)
		}
	}
}

func TestTabCycle(t *testing.T) {
	assert.Equal(t, Experience, Profile.Next())
	assert.Equal(t, Profile, Contact.Next())
	assert.Equal(t, Contact, Profile.Prev())
	assert.Equal(t, Skills, Certificates.Prev())
}
