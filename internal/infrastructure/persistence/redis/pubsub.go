package redis

import (
	"context"
	"sync"

	"github.com/arise-hub/hunter-hub/internal/infrastructure/messaging"
)

// ══════════════════════════════════════════════════════════════════════════════
// PUB/SUB ADAPTER
// ══════════════════════════════════════════════════════════════════════════════

// PubSubClient adapts Cache to messaging.RedisClient so the Redis event bus
// can run over the same connection pool as the caches.
type PubSubClient struct {
	cache *Cache

	mu   sync.Mutex
	subs []func()
}

// NewPubSubClient creates a new PubSubClient.
func NewPubSubClient(cache *Cache) *PubSubClient {
	return &PubSubClient{cache: cache}
}

// Publish publishes a message to a channel.
func (p *PubSubClient) Publish(ctx context.Context, channel string, message interface{}) error {
	return p.cache.Publish(ctx, channel, message)
}

// Subscribe subscribes to channels and streams messages until ctx is done.
func (p *PubSubClient) Subscribe(ctx context.Context, channels ...string) (<-chan messaging.RedisMessage, error) {
	pubsub := p.cache.Subscribe(ctx, channels...)

	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	out := make(chan messaging.RedisMessage)

	done := make(chan struct{})
	stop := func() {
		close(done)
		_ = pubsub.Close()
	}

	p.mu.Lock()
	p.subs = append(p.subs, stop)
	p.mu.Unlock()

	go func() {
		defer close(out)

		src := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-src:
				if !ok {
					return
				}
				select {
				case out <- messaging.RedisMessage{Channel: msg.Channel, Payload: msg.Payload}:
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	return out, nil
}

// Close stops all subscriptions.
func (p *PubSubClient) Close() error {
	p.mu.Lock()
	subs := p.subs
	p.subs = nil
	p.mu.Unlock()

	for _, stop := range subs {
		stop()
	}
	return nil
}
