package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func TestRedisSession_SaveAndGet(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	repo := NewRedisSessionRepository(client, time.Hour)

	s := domain.NewSession("s1", time.Now())
	s.Cart = s.Cart.Add(domain.Product{ID: "SP1", Name: "Bucket", Price: 100, Stock: 3})

	saved, err := repo.Save(ctx, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Version != 1 {
		t.Errorf("expected version 1, got %d", saved.Version)
	}

	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version != 1 || got.Cart.Count() != 1 || got.View != domain.ViewHome {
		t.Errorf("unexpected session %+v", got)
	}
	if ttl := mr.TTL(sessionKeyPrefix + "s1"); ttl != time.Hour {
		t.Errorf("expected ttl 1h, got %v", ttl)
	}
}

func TestRedisSession_StaleVersion(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	repo := NewRedisSessionRepository(client, time.Hour)

	s := domain.NewSession("s1", time.Now())
	if _, err := repo.Save(ctx, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// s still carries version 0
	if _, err := repo.Save(ctx, s); !errors.Is(err, port.ErrOptimisticLock) {
		t.Errorf("expected ErrOptimisticLock, got %v", err)
	}
}

func TestRedisSession_NotFoundAndExpiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	repo := NewRedisSessionRepository(client, time.Minute)

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := repo.Save(ctx, domain.NewSession("s1", time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("expected expired session, got %v", err)
	}
}

func TestRedisSession_ConcurrentSaves(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	repo := NewRedisSessionRepository(client, time.Hour)

	base, err := repo.Save(ctx, domain.NewSession("s1", time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Save(ctx, base); err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("expected exactly 1 winning save, got %d", successCount.Load())
	}
}

func TestRedisSession_Delete(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	repo := NewRedisSessionRepository(client, time.Hour)

	if _, err := repo.Save(ctx, domain.NewSession("s1", time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}
