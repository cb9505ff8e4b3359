package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Publisher is the best-effort publish channel invoked after a successful
// mutation. Callers never observe a return beyond logging: no acknowledgement,
// no retry, no ordering guarantee.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher satisfies Publisher for environments without live observers.
type NoopPublisher struct{}

// NewNoopPublisher returns a publisher that discards every event.
func NewNoopPublisher() Publisher {
	return NoopPublisher{}
}

// Publish discards the event.
func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}

// RedisPublisher fans events out to external observers over Redis pub/sub.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher builds a publisher writing to the given channel.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Publish serializes the event and publishes it. Subscriber count is ignored;
// zero live observers is not an error.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// FanOutPublisher broadcasts each event to every wrapped publisher and
// reports the first error after all have been attempted.
type FanOutPublisher struct {
	publishers []Publisher
}

// NewFanOutPublisher composes publishers.
func NewFanOutPublisher(publishers ...Publisher) *FanOutPublisher {
	return &FanOutPublisher{publishers: publishers}
}

// Publish delivers to all wrapped publishers.
func (p *FanOutPublisher) Publish(ctx context.Context, event Event) error {
	var firstErr error
	for _, pub := range p.publishers {
		if err := pub.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
