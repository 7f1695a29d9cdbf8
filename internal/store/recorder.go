package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/soc-portfolio/internal/logger"
	"github.com/Zachkp/soc-portfolio/internal/view"
)

// Recorder writes view events and visits in the background so request and
// timer paths never wait on the database. It implements view.Observer.
type Recorder struct {
	store  *Store
	log    logger.Logger
	now    func() time.Time
	events chan Event
	visits chan Visit
}

func NewRecorder(s *Store, log logger.Logger, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	return &Recorder{
		store:  s,
		log:    log,
		now:    time.Now,
		events: make(chan Event, buffer),
		visits: make(chan Visit, buffer),
	}
}

// ViewEvent queues a view event; when the queue is full the event is dropped.
func (r *Recorder) ViewEvent(id uuid.UUID, kind view.EventKind, detail string) {
	e := Event{ViewID: id.String(), Kind: string(kind), Detail: detail, Timestamp: r.now()}
	select {
	case r.events <- e:
	default:
		r.log.Warn("dropping view event, queue full", zap.String("kind", e.Kind))
	}
}

// Visit queues a visit; when the queue is full it is dropped.
func (r *Recorder) Visit(v Visit) {
	if v.Timestamp.IsZero() {
		v.Timestamp = r.now()
	}
	select {
	case r.visits <- v:
	default:
		r.log.Warn("dropping visit, queue full", zap.String("path", v.Path))
	}
}

const writeTimeout = 5 * time.Second

// Run drains the queues until ctx is done, then flushes what is left.
// Writes use their own timeout so shutdown does not abort them.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.flush()
			return nil
		case e := <-r.events:
			r.writeEvent(e)
		case v := <-r.visits:
			r.writeVisit(v)
		}
	}
}

func (r *Recorder) flush() {
	for {
		select {
		case e := <-r.events:
			r.writeEvent(e)
		case v := <-r.visits:
			r.writeVisit(v)
		default:
			return
		}
	}
}

func (r *Recorder) writeEvent(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.store.RecordEvent(ctx, e); err != nil {
		r.log.Error("Error recording view event", err, zap.String("kind", e.Kind))
	}
}

func (r *Recorder) writeVisit(v Visit) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.store.RecordVisit(ctx, v); err != nil {
		r.log.Error("Error recording visitor", err)
	}
}
