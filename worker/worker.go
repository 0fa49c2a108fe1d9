// Package worker persists game records in the background. The controller
// hands records to a Worker so a move response never waits on storage.
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/battlesnakeio/zerocool/controller"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

var (
	recorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zerocool",
			Subsystem: "worker",
			Name:      "records_total",
			Help:      "Records written by the worker, by kind and result.",
		},
		[]string{"kind", "result"},
	)
	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "zerocool",
			Subsystem: "worker",
			Name:      "queue_depth",
			Help:      "Records waiting to be written.",
		},
	)
)

func init() {
	prometheus.MustRegister(recorded, queueDepth)
}

// Worker is a controller.Recorder writing records to a Store from a single
// goroutine, so records are applied in the order they were given.
type Worker struct {
	Store controller.Store
	// PollInterval is the wait before a failed write is retried.
	PollInterval time.Duration
	// Retries is how many times a failed write is retried.
	Retries int

	queue   chan controller.Record
	dropped uint64
}

// New creates a worker with room for size queued records.
func New(store controller.Store, size int) *Worker {
	if size < 1 {
		size = 1
	}
	return &Worker{
		Store:        store,
		PollInterval: 100 * time.Millisecond,
		Retries:      3,
		queue:        make(chan controller.Record, size),
	}
}

// Record queues r. It never blocks: when the queue is full the record is
// dropped.
func (w *Worker) Record(r controller.Record) {
	select {
	case w.queue <- r:
		queueDepth.Inc()
	default:
		atomic.AddUint64(&w.dropped, 1)
		recorded.WithLabelValues(r.Kind(), "dropped").Inc()
		log.WithField("game", r.GameID).
			WithField("kind", r.Kind()).
			Warn("record queue full, dropping record")
	}
}

// Dropped is the number of records lost to a full queue.
func (w *Worker) Dropped() uint64 {
	return atomic.LoadUint64(&w.dropped)
}

// Run will run the worker in a loop until ctx is done. Records still queued
// at that point are written before Run returns.
func (w *Worker) Run(ctx context.Context, workerID int) {
	for {
		select {
		case r := <-w.queue:
			queueDepth.Dec()
			w.perform(ctx, workerID, r)
		case <-ctx.Done():
			w.drain(workerID)
			return
		}
	}
}

func (w *Worker) drain(workerID int) {
	for {
		select {
		case r := <-w.queue:
			queueDepth.Dec()
			w.perform(context.Background(), workerID, r)
		default:
			return
		}
	}
}

// perform writes a record, retrying failures that may be temporary.
func (w *Worker) perform(ctx context.Context, workerID int, r controller.Record) {
	entry := log.WithField("worker", workerID).
		WithField("game", r.GameID).
		WithField("kind", r.Kind())
	for attempt := 0; ; attempt++ {
		err := controller.Apply(ctx, w.Store, r)
		if err == nil {
			recorded.WithLabelValues(r.Kind(), "ok").Inc()
			return
		}
		if permanent(err) || attempt >= w.Retries {
			recorded.WithLabelValues(r.Kind(), "failed").Inc()
			entry.WithError(err).Error("unable to record")
			return
		}
		entry.WithError(err).WithField("attempt", attempt+1).Warn("record failed, retrying")
		select {
		case <-time.After(w.PollInterval):
		case <-ctx.Done():
			recorded.WithLabelValues(r.Kind(), "failed").Inc()
			entry.WithError(err).Error("unable to record before shutdown")
			return
		}
	}
}

// permanent errors will not go away by writing again.
func permanent(err error) bool {
	switch errors.Cause(err) {
	case controller.ErrNotFound, controller.ErrInvalidSequence:
		return true
	}
	return false
}
