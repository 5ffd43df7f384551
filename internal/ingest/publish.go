package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventFeedRefreshed is both the event type and the Redis channel name.
const EventFeedRefreshed = "EVENT_FEED_REFRESHED"

// Event is published after every refresh cycle.
type Event struct {
	Type       string     `json:"type"`
	CycleID    string     `json:"cycleId"`
	Total      int        `json:"total"`
	Added      int        `json:"added"`
	LastUpdate *time.Time `json:"lastUpdate,omitempty"`
	NextUpdate *time.Time `json:"nextUpdate,omitempty"`
}

// RedisPublisher publishes events on the channel named by their type.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a publisher using rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish sends ev as JSON.
func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, ev.Type, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}
