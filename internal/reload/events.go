package reload

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"mulesync/internal/models"
)

// Handlers subscribes to the queue's event streams. Nil fields are skipped.
type Handlers struct {
	QueueChanged     func(count int)
	StatusLine       func(line string)
	CredentialStatus func(id uuid.UUID, status string)
	SnapshotUpdated  func(id uuid.UUID, snap *models.Snapshot)
	AllDrained       func()
	LockoutChanged   func(until *time.Time)
	JobFailed        func(label string, err error)
}

// EventBus fans queue events out to subscribers. Every subscriber has its
// own goroutine and an unbounded mailbox, so publishing never blocks and a
// subscriber sees events in the order they were published.
//
// Events are stamped with the bus epoch at publish time. Once advance
// returns, no event from an earlier epoch reaches a handler, except one
// whose handler was already running.
type EventBus struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
	epoch  atomic.Uint64
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers h and returns a function that removes it.
func (b *EventBus) Subscribe(h Handlers) (unsubscribe func()) {
	s := &subscriber{
		handlers: h,
		epoch:    &b.epoch,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return func() {}
	}
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	go s.run()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, s)
			b.mu.Unlock()
			s.stop()
		})
	}
}

// Close stops delivery to every subscriber. Undelivered events are dropped.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		s.stop()
	}
	b.subs = nil
}

func (b *EventBus) publish(fn func(h *Handlers)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	ev := event{epoch: b.epoch.Load(), fn: fn}
	for s := range b.subs {
		s.push(ev)
	}
}

// advance starts a new epoch and drops every undelivered event published
// before it.
func (b *EventBus) advance() {
	b.mu.Lock()
	defer b.mu.Unlock()
	current := b.epoch.Inc()
	for s := range b.subs {
		s.purgeBefore(current)
	}
}

func (b *EventBus) queueChanged(count int) {
	b.publish(func(h *Handlers) {
		if h.QueueChanged != nil {
			h.QueueChanged(count)
		}
	})
}

func (b *EventBus) statusLine(line string) {
	b.publish(func(h *Handlers) {
		if h.StatusLine != nil {
			h.StatusLine(line)
		}
	})
}

func (b *EventBus) credentialStatus(id uuid.UUID, status string) {
	b.publish(func(h *Handlers) {
		if h.CredentialStatus != nil {
			h.CredentialStatus(id, status)
		}
	})
}

func (b *EventBus) snapshotUpdated(id uuid.UUID, snap *models.Snapshot) {
	b.publish(func(h *Handlers) {
		if h.SnapshotUpdated != nil {
			h.SnapshotUpdated(id, snap)
		}
	})
}

func (b *EventBus) allDrained() {
	b.publish(func(h *Handlers) {
		if h.AllDrained != nil {
			h.AllDrained()
		}
	})
}

func (b *EventBus) lockoutChanged(until *time.Time) {
	b.publish(func(h *Handlers) {
		if h.LockoutChanged != nil {
			h.LockoutChanged(until)
		}
	})
}

func (b *EventBus) jobFailed(label string, err error) {
	b.publish(func(h *Handlers) {
		if h.JobFailed != nil {
			h.JobFailed(label, err)
		}
	})
}

type event struct {
	epoch uint64
	fn    func(h *Handlers)
}

type subscriber struct {
	handlers Handlers
	epoch    *atomic.Uint64

	mu      sync.Mutex
	mailbox []event
	stopped bool

	wake chan struct{}
	done chan struct{}
}

func (s *subscriber) push(ev event) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.mailbox = append(s.mailbox, ev)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) purgeBefore(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.mailbox[:0]
	for _, ev := range s.mailbox {
		if ev.epoch >= epoch {
			kept = append(kept, ev)
		}
	}
	s.mailbox = kept
}

func (s *subscriber) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.mailbox = nil
	close(s.done)
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			s.mu.Lock()
			if s.stopped || len(s.mailbox) == 0 {
				s.mu.Unlock()
				break
			}
			batch := s.mailbox
			s.mailbox = nil
			s.mu.Unlock()

			for _, ev := range batch {
				if s.isStopped() {
					return
				}
				s.deliver(ev)
			}
		}
	}
}

func (s *subscriber) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// deliver skips events from a finished epoch and shields the mailbox
// goroutine from a panicking handler.
func (s *subscriber) deliver(ev event) {
	if ev.epoch < s.epoch.Load() {
		return
	}
	defer func() { _ = recover() }()
	ev.fn(&s.handlers)
}
