package devcode

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.Put(ctx, "ch-1", "123456", time.Now().UTC().Add(time.Minute))

	code, ok := s.Get(ctx, "ch-1")
	if !ok {
		t.Fatal("expected code to be present")
	}
	if code != "123456" {
		t.Fatalf("expected 123456, got %s", code)
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.Get(context.Background(), "no-such"); ok {
		t.Fatal("expected missing challenge to return ok=false")
	}
}

func TestMemoryStoreExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now().UTC()
	s.nowF = func() time.Time { return now }

	s.Put(ctx, "ch-1", "123456", now.Add(time.Minute))

	now = now.Add(2 * time.Minute)

	if _, ok := s.Get(ctx, "ch-1"); ok {
		t.Fatal("expected expired code to return ok=false")
	}
	// expired entry is removed
	s.mu.RLock()
	_, present := s.m["ch-1"]
	s.mu.RUnlock()
	if present {
		t.Fatal("expected expired entry to be deleted")
	}
}
