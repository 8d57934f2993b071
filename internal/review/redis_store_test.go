package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+s.Addr(), time.Hour)
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, s
}

func TestRedisSaveAndGet(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	session := Session{
		ID:          "rev-abc",
		ProjectID:   "proj-1",
		PrototypeID: "proto-1",
		CurrentPage: "/home",
		MaxTurns:    20,
	}
	session.AppendUser("hello")

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Get(ctx, "rev-abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.ProjectID != "proj-1" || len(loaded.Entries) != 1 {
		t.Fatalf("session round trip lost data: %+v", loaded)
	}
}

func TestRedisGetMissing(t *testing.T) {
	store, _ := setupTestRedis(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisExpiry(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	if err := store.Save(ctx, Session{ID: "rev-ttl"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	mr.FastForward(2 * time.Hour)

	if _, err := store.Get(ctx, "rev-ttl"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
}

func TestRedisDelete(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	if err := store.Save(ctx, Session{ID: "rev-del"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "rev-del"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "rev-del"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session gone after delete, got %v", err)
	}
}
