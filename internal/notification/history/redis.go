package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/chaoslab/commerce/pkg/apierr"
)

const defaultKey = "notifications:history"

// RedisHistory keeps the log in a Redis list so it survives process restarts.
// Entries are RPUSHed, so list order is send order.
type RedisHistory struct {
	client redis.UniversalClient
	key    string
}

func NewRedisHistory(client redis.UniversalClient) *RedisHistory {
	return &RedisHistory{client: client, key: defaultKey}
}

func (h *RedisHistory) Append(ctx context.Context, n *Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := h.client.RPush(ctx, h.key, payload).Err(); err != nil {
		return fmt.Errorf("rpush notification: %w", err)
	}
	return nil
}

func (h *RedisHistory) Tail(ctx context.Context, limit int) ([]*Notification, error) {
	if limit <= 0 {
		return []*Notification{}, nil
	}

	raw, err := h.client.LRange(ctx, h.key, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange history: %w", err)
	}

	out := make([]*Notification, 0, len(raw))
	for _, item := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			return nil, fmt.Errorf("unmarshal notification: %w", err)
		}
		out = append(out, &n)
	}
	return out, nil
}

func (h *RedisHistory) Total(ctx context.Context) (int, error) {
	total, err := h.client.LLen(ctx, h.key).Result()
	if err != nil {
		return 0, fmt.Errorf("llen history: %w", err)
	}
	return int(total), nil
}

func (h *RedisHistory) Find(ctx context.Context, id string) (*Notification, error) {
	raw, err := h.client.LRange(ctx, h.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange history: %w", err)
	}

	for i := len(raw) - 1; i >= 0; i-- {
		var n Notification
		if err := json.Unmarshal([]byte(raw[i]), &n); err != nil {
			return nil, fmt.Errorf("unmarshal notification: %w", err)
		}
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, apierr.Newf(apierr.CodeNotFound, "notification %s not found", id)
}
