package view

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/soc-portfolio/internal/apperror"
	"github.com/Zachkp/soc-portfolio/internal/sched"
)

func newTestRegistry() (*Registry, *sched.ManualClock) {
	clock := sched.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewRegistry(Options{Clock: clock}, time.Minute), clock
}

func TestRegistryCreateAndLookup(t *testing.T) {
	r, _ := newTestRegistry()
	v := r.Create()

	got, err := r.Lookup(v.ID().String())
	require.NoError(t, err)
	assert.Same(t, v, got)

	_, err = r.Lookup("not-a-uuid")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = r.Get(uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRegistryDispose(t *testing.T) {
	r, _ := newTestRegistry()
	v := r.Create()
	require.Greater(t, v.Pending(), 0)

	r.Dispose(v.ID())
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, v.Pending())
	assert.True(t, v.Snapshot().Disposed)

	r.Dispose(v.ID())
}

func TestRegistrySweepsIdleViewsWithoutSubscribers(t *testing.T) {
	r, clock := newTestRegistry()
	idle := r.Create()
	watched := r.Create()
	_, cancel := watched.Subscribe()
	defer cancel()

	clock.Advance(30 * time.Second)
	busy := r.Create()
	assert.Equal(t, 0, r.Sweep())

	clock.Advance(45 * time.Second)
	busy.Touch()
	assert.Equal(t, 1, r.Sweep())

	_, err := r.Get(idle.ID())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = r.Get(watched.ID())
	assert.NoError(t, err)
	_, err = r.Get(busy.ID())
	assert.NoError(t, err)
	assert.True(t, idle.Snapshot().Disposed)
}

func TestRegistryIdleClockStartsWhenLastSubscriberLeaves(t *testing.T) {
	r, clock := newTestRegistry()
	v := r.Create()
	_, cancel := v.Subscribe()

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 0, r.Sweep())

	cancel()
	clock.Advance(30 * time.Second)
	assert.Equal(t, 0, r.Sweep())
	_, err := r.Get(v.ID())
	require.NoError(t, err)

	clock.Advance(time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.True(t, v.Snapshot().Disposed)
}

func TestRegistryClose(t *testing.T) {
	r, _ := newTestRegistry()
	a, b := r.Create(), r.Create()

	r.Close()
	assert.Equal(t, 0, r.Len())
	assert.True(t, a.Snapshot().Disposed)
	assert.True(t, b.Snapshot().Disposed)
}
