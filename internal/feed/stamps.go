package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lastUpdateKey = "aggregator:last_update"
	nextUpdateKey = "aggregator:next_update"
)

// RedisStamps persists the refresh stamps so a restarted process reports the
// same last/next update as before.
type RedisStamps struct {
	rdb *redis.Client
}

// NewRedisStamps returns stamps stored in rdb.
func NewRedisStamps(rdb *redis.Client) *RedisStamps {
	return &RedisStamps{rdb: rdb}
}

// Save writes both stamps as RFC 3339 strings.
func (s *RedisStamps) Save(ctx context.Context, st Stats) error {
	if st.LastUpdate == nil || st.NextUpdate == nil {
		return nil
	}
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, lastUpdateKey, st.LastUpdate.UTC().Format(time.RFC3339), 0)
		p.Set(ctx, nextUpdateKey, st.NextUpdate.UTC().Format(time.RFC3339), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save refresh stamps: %w", err)
	}
	return nil
}

// Load reads the stamps. ok is false when none have been saved yet.
func (s *RedisStamps) Load(ctx context.Context) (last, next time.Time, ok bool, err error) {
	vals, err := s.rdb.MGet(ctx, lastUpdateKey, nextUpdateKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, time.Time{}, false, nil
		}
		return time.Time{}, time.Time{}, false, fmt.Errorf("load refresh stamps: %w", err)
	}
	ls, _ := vals[0].(string)
	ns, _ := vals[1].(string)
	if ls == "" || ns == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if last, err = time.Parse(time.RFC3339, ls); err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("parse %s: %w", lastUpdateKey, err)
	}
	if next, err = time.Parse(time.RFC3339, ns); err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("parse %s: %w", nextUpdateKey, err)
	}
	return last, next, true, nil
}
