package view

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/soc-portfolio/internal/apperror"
	"github.com/Zachkp/soc-portfolio/internal/sched"
)

// DefaultIdleTTL is how long a view without subscribers survives unused.
const DefaultIdleTTL = 10 * time.Minute

// Registry keeps the live views of the web server, one per page load.
type Registry struct {
	mu      sync.Mutex
	views   map[uuid.UUID]*View
	opts    Options
	idleTTL time.Duration
}

// NewRegistry returns an empty registry creating views with opts.
func NewRegistry(opts Options, idleTTL time.Duration) *Registry {
	if opts.Clock == nil {
		opts.Clock = sched.RealClock()
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Registry{
		views:   make(map[uuid.UUID]*View),
		opts:    opts,
		idleTTL: idleTTL,
	}
}

// Create opens a new view.
func (r *Registry) Create() *View {
	v := New(uuid.New(), r.opts)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[v.ID()] = v
	return v
}

// Get looks up a live view by id.
func (r *Registry) Get(id uuid.UUID) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[id]
	if !ok {
		return nil, apperror.NewNotFound("view", id.String())
	}
	return v, nil
}

// Lookup parses raw as a view id and returns the view.
func (r *Registry) Lookup(raw string) (*View, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.NewInvalidInput("malformed view id", err)
	}
	return r.Get(id)
}

// Dispose removes and disposes the view. Unknown ids are ignored.
func (r *Registry) Dispose(id uuid.UUID) {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if ok {
		v.Dispose()
	}
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep disposes views that have no subscribers and have been idle longer
// than the TTL. It returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.opts.Clock.Now()

	r.mu.Lock()
	var expired []*View
	for id, v := range r.views {
		if v.Subscribers() == 0 && now.Sub(v.LastActive()) > r.idleTTL {
			expired = append(expired, v)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range expired {
		v.Dispose()
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then disposes every view.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close disposes every view.
func (r *Registry) Close() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[uuid.UUID]*View)
	r.mu.Unlock()

	for _, v := range views {
		v.Dispose()
	}
}
