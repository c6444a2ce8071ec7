package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryOtpStoreRoundTrip(t *testing.T) {
	store := NewMemoryOtpStore()
	ctx := context.Background()

	if err := store.Set(ctx, "rider@example.com", "123456", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	code, err := store.Get(ctx, "rider@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if code != "123456" {
		t.Errorf("expected 123456, got %q", code)
	}

	if err := store.Del(ctx, "rider@example.com"); err != nil {
		t.Fatalf("del: %v", err)
	}
	code, _ = store.Get(ctx, "rider@example.com")
	if code != "" {
		t.Errorf("expected empty code after delete, got %q", code)
	}
}

func TestMemoryOtpStoreMissingKey(t *testing.T) {
	store := NewMemoryOtpStore()

	code, err := store.Get(context.Background(), "unknown@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if code != "" {
		t.Errorf("expected empty code, got %q", code)
	}
}

func TestMemoryOtpStoreExpiry(t *testing.T) {
	store := NewMemoryOtpStore()
	ctx := context.Background()

	if err := store.Set(ctx, "rider@example.com", "654321", 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	code, err := store.Get(ctx, "rider@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if code != "" {
		t.Errorf("expected expired code to be gone, got %q", code)
	}
}

func TestMemoryOtpStoreReplacesCode(t *testing.T) {
	store := NewMemoryOtpStore()
	ctx := context.Background()

	store.Set(ctx, "rider@example.com", "111111", time.Minute)
	store.Set(ctx, "rider@example.com", "222222", time.Minute)

	code, _ := store.Get(ctx, "rider@example.com")
	if code != "222222" {
		t.Errorf("expected the newer code, got %q", code)
	}
}
