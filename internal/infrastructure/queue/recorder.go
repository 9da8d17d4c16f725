package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Sink abstracts the audit persistence behind the recorder.
type Sink interface {
	Insert(ctx context.Context, event ports.AuditEvent) error
}

// Recorder persists audit events asynchronously through a fixed set of
// workers, sharded by account email so per-account ordering holds.
// Recording is fire-and-forget: persistence failures are logged, never
// surfaced to the request path. Buffered events survive shutdown: Close
// stops intake, then drains every shard before returning.
type Recorder struct {
	workers []chan ports.AuditEvent
	sink    Sink
	log     zerolog.Logger

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewRecorder creates a Recorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRecorder(numWorkers int, sink Sink, log zerolog.Logger) *Recorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &Recorder{
		workers: make([]chan ports.AuditEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan ports.AuditEvent, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. The context is handed to the
// sink on every insert; workers themselves run until Close so that
// nothing buffered is lost when the process shuts down.
func (r *Recorder) Start(ctx context.Context) {
	for i, ch := range r.workers {
		r.wg.Add(1)
		go r.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event on the worker responsible for its email.
// Non-blocking up to channelBuffer capacity. Events recorded after
// Close are dropped with a warning.
func (r *Recorder) Record(event ports.AuditEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.log.Warn().Str("action", event.Action).Msg("audit recorder closed, event dropped")
		return
	}
	r.workers[r.shardIndex(event.Email)] <- event
}

// Close stops intake, drains every buffered event through the sink, and
// waits for all workers to finish. Safe to call more than once.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	for _, ch := range r.workers {
		close(ch)
	}
	r.wg.Wait()
}

// shardIndex maps an email deterministically to a worker index.
func (r *Recorder) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(r.workers)
}

func (r *Recorder) runWorker(ctx context.Context, id int, ch <-chan ports.AuditEvent) {
	defer r.wg.Done()
	for event := range ch {
		if err := r.sink.Insert(ctx, event); err != nil {
			r.log.Error().Err(err).
				Str("action", event.Action).
				Int("worker_id", id).
				Msg("audit event persistence failed")
		}
	}
}
