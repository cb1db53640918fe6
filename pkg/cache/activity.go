package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	// EventDedupTTL bounds how long a processed event id is remembered.
	EventDedupTTL = 24 * time.Hour

	eventKeyPrefix = "product:event"
	activityKey    = "product:activity"
)

// ActivityStore records product lifecycle activity in Redis.
//
// Keys:
//
//	product:event:{eventID}  processed-event marker (SETNX, 24h TTL)
//	product:activity         hash of event kind -> count
type ActivityStore struct {
	client *RedisClient
}

// NewActivityStore creates an ActivityStore backed by the given RedisClient.
func NewActivityStore(r *RedisClient) *ActivityStore {
	return &ActivityStore{client: r}
}

// MarkProcessed records eventID and reports whether this is the first time it
// was seen. A false result means the event was already handled and should be skipped.
func (s *ActivityStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	first, err := s.client.Client().SetNX(ctx, eventKey(eventID), 1, EventDedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("cache mark event: %w", err)
	}
	return first, nil
}

// Forget drops the processed marker so a redelivery of eventID is handled again.
func (s *ActivityStore) Forget(ctx context.Context, eventID string) error {
	if err := s.client.Client().Del(ctx, eventKey(eventID)).Err(); err != nil {
		return fmt.Errorf("cache forget event: %w", err)
	}
	return nil
}

func eventKey(eventID string) string {
	return eventKeyPrefix + ":" + eventID
}

// Increment bumps the counter for the given event kind.
func (s *ActivityStore) Increment(ctx context.Context, kind string) error {
	if err := s.client.Client().HIncrBy(ctx, activityKey, kind, 1).Err(); err != nil {
		return fmt.Errorf("cache increment %s: %w", kind, err)
	}
	return nil
}

// Counts returns the counter for every recorded event kind.
func (s *ActivityStore) Counts(ctx context.Context) (map[string]int64, error) {
	vals, err := s.client.Client().HGetAll(ctx, activityKey).Result()
	if err != nil {
		return nil, fmt.Errorf("cache counts: %w", err)
	}

	counts := make(map[string]int64, len(vals))
	for kind, v := range vals {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cache parse count %s: %w", kind, err)
		}
		counts[kind] = n
	}
	return counts, nil
}
