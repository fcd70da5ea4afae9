// Package audit implements an async, batched audit trail for cache
// builds and render operations, grounded in the teacher's
// pkg/audit/logger.go (buffered channel, ticker-driven batch flush,
// graceful drain on Close). The teacher's flush sink is a ClickHouse
// stub; no ClickHouse driver exists anywhere in the retrieved corpus,
// so flush here writes structured lines through the standard logger
// instead (see DESIGN.md).
package audit

import (
	"log"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// EventType categorizes the audited action.
type EventType string

const (
	TypeBuildInterpolator EventType = "BUILD_INTERPOLATOR"
	TypeRenderTile        EventType = "RENDER_TILE"
	TypePointQuery        EventType = "POINT_QUERY"
	TypeCacheDegraded     EventType = "CACHE_DEGRADED"
)

// Event is a single immutable audit log entry.
type Event struct {
	EventID       uuid.UUID
	Timestamp     time.Time
	CorrelationID uuid.UUID
	Action        EventType
	Model         string
	Key           string
	Details       string
}

// Logger records audit events without blocking the caller.
type Logger interface {
	Log(correlationID uuid.UUID, action EventType, model, key, details string)
	Close() error
}

// AsyncLogger buffers events in a channel and flushes them in batches
// on a timer or when the batch fills, whichever comes first.
type AsyncLogger struct {
	eventCh chan *Event
	doneCh  chan struct{}
	wg      sync.WaitGroup

	batchSize     int
	flushInterval time.Duration
}

// NewAsyncLogger builds an AsyncLogger with a 10000-event buffer, the
// same backpressure budget as the teacher's logger.
func NewAsyncLogger() *AsyncLogger {
	l := &AsyncLogger{
		eventCh:       make(chan *Event, 10000),
		doneCh:        make(chan struct{}),
		batchSize:     100,
		flushInterval: time.Second,
	}
	l.wg.Add(1)
	go l.worker()
	return l
}

// Log enqueues an event. If the buffer is full the event is dropped
// and noted on stderr rather than blocking the caller — audit
// logging must never add latency to a render path.
func (l *AsyncLogger) Log(correlationID uuid.UUID, action EventType, model, key, details string) {
	event := &Event{
		EventID:       uuid.New(),
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Action:        action,
		Model:         model,
		Key:           key,
		Details:       details,
	}

	select {
	case l.eventCh <- event:
	default:
		log.Printf("audit: buffer full, dropped event %s (%s)", event.EventID, action)
	}
}

func (l *AsyncLogger) worker() {
	defer l.wg.Done()

	batch := make([]*Event, 0, l.batchSize)
	ticker := time.NewTicker(l.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-l.eventCh:
			batch = append(batch, event)
			if len(batch) >= l.batchSize {
				l.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				l.flush(batch)
				batch = batch[:0]
			}
		case <-l.doneCh:
			for {
				select {
				case event := <-l.eventCh:
					batch = append(batch, event)
				default:
					if len(batch) > 0 {
						l.flush(batch)
					}
					return
				}
			}
		}
	}
}

func (l *AsyncLogger) flush(events []*Event) {
	log.Printf("[audit] flushing %s event(s)", humanize.Comma(int64(len(events))))
	for _, e := range events {
		log.Printf("[audit] %s model=%s key=%s correlation=%s details=%s",
			e.Action, e.Model, e.Key, e.CorrelationID, e.Details)
	}
}

// Close stops the worker after draining any pending events.
func (l *AsyncLogger) Close() error {
	close(l.doneCh)
	l.wg.Wait()
	return nil
}
