package notifications

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const deliveryTimeout = 5 * time.Second

// Dispatcher is a Publisher backed by a bounded queue and a fixed set of
// delivery workers. Publish never waits: when the queue is full or the
// dispatcher has shut down the event is dropped.
type Dispatcher struct {
	queue   chan HireEvent
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	sink    Sink
	log     *zap.Logger
	dropped atomic.Int64
}

func NewDispatcher(sink Sink, workers, queueSize int, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		queue: make(chan HireEvent, queueSize),
		sink:  sink,
		log:   log.Named("dispatcher"),
	}

	for i := 1; i <= workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	return d
}

func (d *Dispatcher) Publish(_ context.Context, event HireEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher closed")
		return
	}

	select {
	case d.queue <- event:
	default:
		d.drop(event, "queue full")
	}
}

// Dropped returns how many events were discarded without a delivery attempt.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *Dispatcher) drop(event HireEvent, reason string) {
	d.dropped.Add(1)
	d.log.Warn("dropping hire notification",
		zap.String("reason", reason),
		zap.String("bid_id", event.BidID),
		zap.String("worker_id", event.WorkerID),
	)
}

func (d *Dispatcher) worker(workerID int) {
	defer d.wg.Done()

	d.log.Debug("worker started", zap.Int("worker", workerID))

	for event := range d.queue {
		d.deliver(workerID, event)
	}

	d.log.Debug("worker stopped", zap.Int("worker", workerID))
}

func (d *Dispatcher) deliver(workerID int, event HireEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("notification sink panicked",
				zap.Int("worker", workerID),
				zap.Any("panic", r),
				zap.String("bid_id", event.BidID),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if err := d.sink.Deliver(ctx, event); err != nil {
		d.log.Warn("failed to deliver hire notification",
			zap.Int("worker", workerID),
			zap.String("bid_id", event.BidID),
			zap.String("worker_id", event.WorkerID),
			zap.Error(err),
		)
	}
}

// Shutdown stops accepting events and waits for queued ones to drain, or for
// ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.log.Info("notification dispatcher shut down cleanly")
	case <-ctx.Done():
		d.log.Warn("notification dispatcher shutdown timed out")
	}
}
