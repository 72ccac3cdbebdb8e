package store

import (
	"context"
	"sync"
)

// subscriptionBuffer is the number of undelivered changes a subscriber
// may hold before the oldest is discarded.
const subscriptionBuffer = 16

// Bus is the in-process backing of memory stores. Every store opened on
// the same bus sees the same keys.
type Bus struct {
	mu     sync.Mutex
	values map[string]string
	subs   map[*subscription]struct{}
}

type subscription struct {
	key    string
	origin string
	ch     chan Change
	done   chan struct{}
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		values: make(map[string]string),
		subs:   make(map[*subscription]struct{}),
	}
}

// Open returns a store for the context identified by origin.
func (b *Bus) Open(origin string) *Memory {
	return &Memory{bus: b, origin: origin}
}

// publish delivers c to every subscriber of c.Key other than its origin.
// Must be called with b.mu held.
func (b *Bus) publish(c Change) {
	for s := range b.subs {
		if s.key != c.Key || s.origin == c.Origin {
			continue
		}

		select {
		case s.ch <- c:
		default:
			// Full: drop the oldest pending change so the newest always lands.
			select {
			case <-s.ch:
			default:
			}
			s.ch <- c
		}
	}
}

func (b *Bus) unsubscribe(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
		close(s.ch)
		close(s.done)
	}
}

// Memory is a Store backed by a Bus.
type Memory struct {
	bus    *Bus
	origin string

	mu     sync.Mutex
	subs   []*subscription
	closed bool
}

var _ Store = &Memory{}

// Origin returns the identifier of this context.
func (m *Memory) Origin() string {
	return m.origin
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	if m.isClosed() {
		return "", false, ErrClosed
	}

	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()

	v, ok := m.bus.values[key]
	return v, ok, nil
}

// Set overwrites key with value and notifies other contexts.
func (m *Memory) Set(_ context.Context, key, value string) error {
	if m.isClosed() {
		return ErrClosed
	}

	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()

	m.bus.values[key] = value
	m.bus.publish(Change{Key: key, Value: value, Origin: m.origin})
	return nil
}

// Subscribe returns a channel receiving changes to key made by other contexts.
func (m *Memory) Subscribe(ctx context.Context, key string) (<-chan Change, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	s := &subscription{
		key:    key,
		origin: m.origin,
		ch:     make(chan Change, subscriptionBuffer),
		done:   make(chan struct{}),
	}

	m.bus.mu.Lock()
	m.bus.subs[s] = struct{}{}
	m.bus.mu.Unlock()

	m.subs = append(m.subs, s)

	go func() {
		select {
		case <-ctx.Done():
			m.bus.unsubscribe(s)
		case <-s.done:
		}
	}()

	return s.ch, nil
}

// Close ends all subscriptions of this store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	for _, s := range m.subs {
		m.bus.unsubscribe(s)
	}
	m.subs = nil
	return nil
}

func (m *Memory) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
