package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

const defaultChannelPrefix = "inkwell:session:"

// RedisHub is a Hub backed by Redis pub/sub so every replica sees every
// session update.
type RedisHub struct {
	client *redis.Client
	prefix string

	mu   sync.Mutex
	subs map[*redis.PubSub]struct{}
}

// NewRedisHub creates a hub on client. Channels are named prefix+topic.
func NewRedisHub(client *redis.Client, prefix string) *RedisHub {
	if prefix == "" {
		prefix = defaultChannelPrefix
	}
	return &RedisHub{
		client: client,
		prefix: prefix,
		subs:   make(map[*redis.PubSub]struct{}),
	}
}

func (h *RedisHub) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := h.client.Publish(ctx, h.prefix+topic, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (h *RedisHub) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	ps := h.client.Subscribe(ctx, h.prefix+topic)
	// Wait for the subscription confirmation so no publish after return is missed.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	h.mu.Lock()
	h.subs[ps] = struct{}{}
	h.mu.Unlock()

	out := make(chan []byte, subscriberBuffer)
	done := make(chan struct{})
	sub := &Subscription{C: out}
	sub.close = func() {
		close(done)
		h.mu.Lock()
		delete(h.subs, ps)
		h.mu.Unlock()
		if err := ps.Close(); err != nil {
			slog.Debug("closing redis subscription", "topic", topic, "error", err)
		}
	}

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				sub.Close()
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
					slog.Debug("subscriber buffer full, dropping update", "topic", topic)
				}
			}
		}
	}()

	return sub, nil
}

// Close ends every open subscription. The client is owned by the caller.
func (h *RedisHub) Close() error {
	h.mu.Lock()
	subs := make([]*redis.PubSub, 0, len(h.subs))
	for ps := range h.subs {
		subs = append(subs, ps)
	}
	h.mu.Unlock()

	for _, ps := range subs {
		ps.Close()
	}
	return nil
}
