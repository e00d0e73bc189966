package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"supercollab/ledger"
)

const DefaultChannelPrefix = "supercollab:events" // channel: {prefix}:{event name}

// Envelope is the JSON message published for every committed event.
type Envelope struct {
	ID        string          `json:"id"`
	Signature string          `json:"signature"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload"`
	EmittedAt time.Time       `json:"emittedAt"`
}

// RedisPublisher fans committed events out over Redis Pub/Sub.
type RedisPublisher struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPublisher{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Channel returns the channel events named name are published on.
func (p *RedisPublisher) Channel(name string) string {
	return p.prefix + ":" + name
}

func (p *RedisPublisher) Publish(ctx context.Context, signature string, ev ledger.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	data, err := json.Marshal(Envelope{
		ID:        uuid.NewString(),
		Signature: signature,
		Name:      ev.EventName(),
		Payload:   payload,
		EmittedAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	if err := p.client.Publish(ctx, p.Channel(ev.EventName()), data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", ev.EventName(), err)
	}
	return nil
}
