package notifications

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one live client connection belonging to a worker.
type Session struct {
	ID       string
	WorkerID string
	events   chan HireEvent
	done     chan struct{}
}

func (s *Session) Events() <-chan HireEvent {
	return s.events
}

// Done is closed when the registry shuts down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Registry tracks live sessions by worker id and is the local delivery Sink.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*Session
	buffer   int
	done     chan struct{}
	once     sync.Once
	log      *zap.Logger
}

func NewRegistry(buffer int, log *zap.Logger) *Registry {
	if buffer <= 0 {
		buffer = 1
	}
	return &Registry{
		sessions: make(map[string]map[string]*Session),
		buffer:   buffer,
		done:     make(chan struct{}),
		log:      log.Named("registry"),
	}
}

func (r *Registry) Register(workerID string) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		WorkerID: workerID,
		events:   make(chan HireEvent, r.buffer),
		done:     r.done,
	}

	r.mu.Lock()
	if r.sessions[workerID] == nil {
		r.sessions[workerID] = make(map[string]*Session)
	}
	r.sessions[workerID][s.ID] = s
	r.mu.Unlock()

	r.log.Debug("session registered", zap.String("session_id", s.ID), zap.String("worker_id", workerID))
	return s
}

func (r *Registry) Unregister(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byWorker := r.sessions[s.WorkerID]
	delete(byWorker, s.ID)
	if len(byWorker) == 0 {
		delete(r.sessions, s.WorkerID)
	}
}

// Count returns the number of live sessions for a worker.
func (r *Registry) Count(workerID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[workerID])
}

// Deliver pushes the event to every session of the hired worker. A session
// whose buffer is full misses the event; sessions of other workers never see it.
func (r *Registry) Deliver(_ context.Context, event HireEvent) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions[event.WorkerID] {
		select {
		case s.events <- event:
		default:
			r.log.Warn("session buffer full, dropping notification",
				zap.String("session_id", s.ID),
				zap.String("bid_id", event.BidID),
			)
		}
	}
	return nil
}

// Close signals every session to end.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.done) })
}
