package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
)

const statsKey = "moderation:stats"

// StatsCacheRepo keeps the aggregated moderation counters hot for a short
// TTL so the dashboard does not hammer the record store.
type StatsCacheRepo struct {
	client *goredis.Client
}

func NewStatsCacheRepo(client *goredis.Client) *StatsCacheRepo {
	return &StatsCacheRepo{client: client}
}

func (r *StatsCacheRepo) GetStats(ctx context.Context) (model.ModerationStats, bool, error) {
	if r.client == nil {
		return model.ModerationStats{}, false, fmt.Errorf("redis client is nil")
	}

	raw, err := r.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.ModerationStats{}, false, nil
		}
		return model.ModerationStats{}, false, fmt.Errorf("read stats cache: %w", err)
	}

	var stats model.ModerationStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return model.ModerationStats{}, false, fmt.Errorf("unmarshal stats cache: %w", err)
	}

	return stats, true, nil
}

func (r *StatsCacheRepo) SetStats(ctx context.Context, stats model.ModerationStats, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats cache: %w", err)
	}

	if err := r.client.Set(ctx, statsKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("write stats cache: %w", err)
	}

	return nil
}
