package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PrintfR/HardCode/internal/types"
	"github.com/redis/go-redis/v9"
)

// DefaultTranscriptTTL bounds how long an abandoned transcript is kept.
const DefaultTranscriptTTL = 2 * time.Hour

const transcriptKeyPrefix = "hardcode:transcript:"

// RedisBuffer stores each session's transcript as a Redis list of JSON
// encoded turns. Every append refreshes the key's TTL.
type RedisBuffer struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisBuffer wraps client. A ttl of zero uses DefaultTranscriptTTL.
func NewRedisBuffer(client redis.Cmdable, ttl time.Duration) *RedisBuffer {
	if ttl <= 0 {
		ttl = DefaultTranscriptTTL
	}
	return &RedisBuffer{client: client, ttl: ttl}
}

// OpenRedis parses a redis:// URL and verifies the server is reachable.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func transcriptKey(sessionID string) string {
	return transcriptKeyPrefix + sessionID
}

// Append pushes msg onto the session's list.
func (b *RedisBuffer) Append(ctx context.Context, sessionID string, msg types.TranscriptMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode transcript turn: %w", err)
	}

	key := transcriptKey(sessionID)
	pipe := b.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, b.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append transcript turn: %w", err)
	}
	return nil
}

// Load returns the session's transcript in append order.
func (b *RedisBuffer) Load(ctx context.Context, sessionID string) ([]types.TranscriptMessage, error) {
	raw, err := b.client.LRange(ctx, transcriptKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	msgs := make([]types.TranscriptMessage, 0, len(raw))
	for i, item := range raw {
		var msg types.TranscriptMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode transcript turn %d: %w", i, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Clear deletes the session's list.
func (b *RedisBuffer) Clear(ctx context.Context, sessionID string) error {
	if err := b.client.Del(ctx, transcriptKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}
