package kv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, "reports:abc", []byte(`{"ok":true}`), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	raw, err := store.Get(ctx, "reports:abc")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Fatalf("unexpected value: %s", raw)
	}

	if err := store.Delete(ctx, "reports:abc"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "reports:abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreTTLExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "sessions:x", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := store.Get(ctx, "sessions:x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired key to be not found, got %v", err)
	}
}

func TestMemoryStoreScanSorted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, key := range []string{"users:b", "users:a", "reports:z", "users:c"} {
		if err := store.Set(ctx, key, []byte("v"), 0); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	keys, err := store.Scan(ctx, "users:")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	want := []string{"users:a", "users:b", "users:c"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("expected keys[%d]=%s, got %s", i, key, keys[i])
		}
	}
}

func TestMemoryStoreZRevRange(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_ = store.ZAdd(ctx, "idx", "old", 1)
	_ = store.ZAdd(ctx, "idx", "mid", 2)
	_ = store.ZAdd(ctx, "idx", "new", 3)

	members, err := store.ZRevRange(ctx, "idx", 0, -1)
	if err != nil {
		t.Fatalf("zrevrange failed: %v", err)
	}
	if len(members) != 3 || members[0] != "new" || members[2] != "old" {
		t.Fatalf("unexpected order: %v", members)
	}

	page, err := store.ZRevRange(ctx, "idx", 1, 1)
	if err != nil {
		t.Fatalf("zrevrange page failed: %v", err)
	}
	if len(page) != 1 || page[0] != "mid" {
		t.Fatalf("unexpected page: %v", page)
	}

	if err := store.ZRem(ctx, "idx", "new"); err != nil {
		t.Fatalf("zrem failed: %v", err)
	}
	members, _ = store.ZRevRange(ctx, "idx", 0, -1)
	if len(members) != 2 {
		t.Fatalf("expected 2 members after zrem, got %v", members)
	}
}

func TestMemoryStoreListFIFO(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.LPop(ctx, "queue"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty list, got %v", err)
	}

	_ = store.RPush(ctx, "queue", "a", "b")
	_ = store.RPush(ctx, "queue", "c")

	for _, want := range []string{"a", "b", "c"} {
		got, err := store.LPop(ctx, "queue")
		if err != nil {
			t.Fatalf("lpop failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected %s, got %s", want, got)
		}
	}
}

func TestMemoryStoreIncr(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for want := int64(1); want <= 3; want++ {
		got, err := store.Incr(ctx, "attempts:x", time.Hour)
		if err != nil {
			t.Fatalf("incr failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
}

func TestKeyJoinsParts(t *testing.T) {
	if got := Key(CollectionReports, "abc"); got != "reports:abc" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := Key(IndexReportsBySector, "3"); got != "reports_by_sector:3" {
		t.Fatalf("unexpected key: %s", got)
	}
}
