package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
)

func newTestCache(t *testing.T) (*StatsCacheRepo, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStatsCacheRepo(client), mr
}

func TestStatsCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	stats := model.ModerationStats{
		Total:            10,
		Approved:         6,
		Rejected:         2,
		Pending:          2,
		AutoApprovalRate: 60,
	}

	if err := cache.SetStats(ctx, stats, 30*time.Second); err != nil {
		t.Fatalf("set stats: %v", err)
	}

	got, ok, err := cache.GetStats(ctx)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got != stats {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestStatsCacheMissIsNotAnError(t *testing.T) {
	cache, _ := newTestCache(t)

	_, ok, err := cache.GetStats(context.Background())
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if ok {
		t.Fatalf("expected cache miss")
	}
}

func TestStatsCacheExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if err := cache.SetStats(ctx, model.ModerationStats{Total: 1}, time.Second); err != nil {
		t.Fatalf("set stats: %v", err)
	}

	mr.FastForward(2 * time.Second)

	_, ok, err := cache.GetStats(ctx)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if ok {
		t.Fatalf("expected expired entry to miss")
	}
}
