// Package notify fans out session updates to subscribers, in process or across
// replicas.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

const subscriberBuffer = 16

// Hub publishes payloads on topics and delivers them to subscribers of the
// same topic.
type Hub interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string) (*Subscription, error)
	Close() error
}

// Subscription receives payloads for one topic until closed. C is closed when
// the subscription ends.
type Subscription struct {
	C <-chan []byte

	once  sync.Once
	close func()
}

// Close ends the subscription.
func (s *Subscription) Close() {
	s.once.Do(s.close)
}

// MemoryHub is an in-process Hub.
type MemoryHub struct {
	mu     sync.RWMutex
	topics map[string]map[chan []byte]struct{}
	closed bool
}

// NewMemoryHub creates an in-process hub.
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{
		topics: make(map[string]map[chan []byte]struct{}),
	}
}

// Publish delivers payload to current subscribers. Slow subscribers miss
// updates rather than block the publisher.
func (h *MemoryHub) Publish(_ context.Context, topic string, payload []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.topics[topic] {
		select {
		case ch <- payload:
		default:
			slog.Debug("subscriber buffer full, dropping update", "topic", topic)
		}
	}
	return nil
}

// Subscribe registers a subscriber for topic. The subscription is closed when
// ctx is done.
func (h *MemoryHub) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return &Subscription{C: ch, close: func() {}}, nil
	}
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[chan []byte]struct{})
	}
	h.topics[topic][ch] = struct{}{}
	h.mu.Unlock()

	sub := &Subscription{C: ch}
	sub.close = func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.topics[topic][ch]; !ok {
			return
		}
		delete(h.topics[topic], ch)
		if len(h.topics[topic]) == 0 {
			delete(h.topics, topic)
		}
		close(ch)
	}

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	return sub, nil
}

// Subscribers returns the number of subscribers of topic.
func (h *MemoryHub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Close ends every subscription.
func (h *MemoryHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic, subs := range h.topics {
		for ch := range subs {
			close(ch)
		}
		delete(h.topics, topic)
	}
	h.closed = true
	return nil
}
