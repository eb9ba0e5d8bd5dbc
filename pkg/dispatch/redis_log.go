package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLog persists delivery attempts in Redis, one list per
// notification, so log entries survive process restarts and can be
// drained by external reconciliation jobs.
type RedisLog struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// RedisLogOption configures a RedisLog.
type RedisLogOption func(*RedisLog)

// WithKeyPrefix changes the key namespace. Default is "delivery:log".
func WithKeyPrefix(prefix string) RedisLogOption {
	return func(l *RedisLog) {
		if prefix != "" {
			l.keyPrefix = prefix
		}
	}
}

// WithTTL bounds how long a notification's log entries are retained.
// Default is 24 hours; zero disables expiry.
func WithTTL(ttl time.Duration) RedisLogOption {
	return func(l *RedisLog) {
		if ttl >= 0 {
			l.ttl = ttl
		}
	}
}

// NewRedisLog creates a Redis-backed delivery log.
func NewRedisLog(client redis.UniversalClient, opts ...RedisLogOption) (*RedisLog, error) {
	if client == nil {
		return nil, ErrNilRedisClient
	}

	l := &RedisLog{
		client:    client,
		keyPrefix: "delivery:log",
		ttl:       24 * time.Hour,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *RedisLog) key(notificationID string) string {
	return l.keyPrefix + ":" + notificationID
}

// Append implements Log.
func (l *RedisLog) Append(ctx context.Context, result DeliveryResult) error {
	if result.NotificationID == "" {
		return ErrMissingNotificationID
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery result: %w", err)
	}

	key := l.key(result.NotificationID)
	pipe := l.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	if l.ttl > 0 {
		pipe.Expire(ctx, key, l.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append delivery log entry: %w", err)
	}
	return nil
}

// List implements Log.
func (l *RedisLog) List(ctx context.Context, notificationID string) ([]DeliveryResult, error) {
	raw, err := l.client.LRange(ctx, l.key(notificationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read delivery log: %w", err)
	}

	results := make([]DeliveryResult, 0, len(raw))
	for _, entry := range raw {
		var r DeliveryResult
		if err := json.Unmarshal([]byte(entry), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal delivery log entry: %w", err)
		}
		results = append(results, r)
	}
	return results, nil
}
