// Package feed carries match change notifications between the process that
// wrote a match and the clients watching it.
package feed

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Handler receives the raw payload published for a match.
type Handler func(payload []byte)

// Broker publishes and subscribes per-match change messages.
type Broker interface {
	Publish(ctx context.Context, matchID string, payload []byte) error
	Subscribe(ctx context.Context, matchID string, h Handler) (cancel func(), err error)
	Close() error
}

// Memory is an in-process broker used when Redis is disabled and in tests.
type Memory struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]Handler
	closed bool
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[int]Handler)}
}

func (m *Memory) Publish(_ context.Context, matchID string, payload []byte) error {
	m.mu.RLock()
	handlers := make([]Handler, 0, len(m.subs[matchID]))
	for _, h := range m.subs[matchID] {
		handlers = append(handlers, h)
	}
	m.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, matchID string, h Handler) (func(), error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	id := m.nextID
	m.nextID++
	if m.subs[matchID] == nil {
		m.subs[matchID] = make(map[int]Handler)
	}
	m.subs[matchID][id] = h
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[matchID], id)
			if len(m.subs[matchID]) == 0 {
				delete(m.subs, matchID)
			}
			m.mu.Unlock()
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return cancel, nil
}

// Subscribers returns the number of live subscriptions for a match.
func (m *Memory) Subscribers(matchID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs[matchID])
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.subs = make(map[string]map[int]Handler)
	logrus.Debug("memory feed closed")
	return nil
}
