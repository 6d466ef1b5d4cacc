package memory

import (
	"context"
	"testing"
	"time"
)

func TestRateLimitStoreCountsWithinWindow(t *testing.T) {
	store := NewRateLimitStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := store.RecordAttempt(ctx, "login:198.51.100.1", now.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("record attempt: %v", err)
		}
	}

	count, err := store.CountAttempts(ctx, "login:198.51.100.1", time.Minute, now.Add(3*time.Second))
	if err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 attempts, got %d", count)
	}

	count, err = store.CountAttempts(ctx, "login:203.0.113.9", time.Minute, now)
	if err != nil {
		t.Fatalf("count attempts for unseen key: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 attempts for unseen key, got %d", count)
	}
}

func TestRateLimitStoreExpiresOldAttempts(t *testing.T) {
	store := NewRateLimitStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_ = store.RecordAttempt(ctx, "login:198.51.100.1", now)
	_ = store.RecordAttempt(ctx, "login:198.51.100.1", now.Add(50*time.Second))

	count, err := store.CountAttempts(ctx, "login:198.51.100.1", time.Minute, now.Add(70*time.Second))
	if err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the first attempt to expire, got %d", count)
	}
}

func TestRateLimitStoreOldestAttempt(t *testing.T) {
	store := NewRateLimitStore()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_, found, err := store.OldestAttempt(ctx, "login:198.51.100.1", time.Minute, now)
	if err != nil {
		t.Fatalf("oldest attempt: %v", err)
	}
	if found {
		t.Fatal("expected no attempt for an empty key")
	}

	_ = store.RecordAttempt(ctx, "login:198.51.100.1", now)
	_ = store.RecordAttempt(ctx, "login:198.51.100.1", now.Add(10*time.Second))

	oldest, found, err := store.OldestAttempt(ctx, "login:198.51.100.1", time.Minute, now.Add(20*time.Second))
	if err != nil {
		t.Fatalf("oldest attempt: %v", err)
	}
	if !found {
		t.Fatal("expected an attempt inside the window")
	}
	if !oldest.Equal(now) {
		t.Fatalf("expected oldest %v, got %v", now, oldest)
	}

	oldest, found, err = store.OldestAttempt(ctx, "login:198.51.100.1", time.Minute, now.Add(65*time.Second))
	if err != nil {
		t.Fatalf("oldest attempt after expiry: %v", err)
	}
	if !found {
		t.Fatal("expected the second attempt to remain")
	}
	if !oldest.Equal(now.Add(10 * time.Second)) {
		t.Fatalf("expected oldest %v, got %v", now.Add(10*time.Second), oldest)
	}
}
