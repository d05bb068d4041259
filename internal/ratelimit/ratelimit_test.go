package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	t.Parallel()

	limiter := New(2, 0.001) // effectively no refill during the test

	if !limiter.Allow() {
		t.Error("first request should be allowed")
	}
	if !limiter.Allow() {
		t.Error("second request should be allowed")
	}
	if limiter.Allow() {
		t.Error("third request should be rejected, bucket empty")
	}
}

func TestLimiterRefill(t *testing.T) {
	t.Parallel()

	limiter := New(1, 100) // refills a token in 10ms

	if !limiter.Allow() {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(20 * time.Millisecond)

	if !limiter.Allow() {
		t.Error("bucket should have refilled")
	}
}

func TestLimiterIsFull(t *testing.T) {
	t.Parallel()

	limiter := New(1, 1000)
	if !limiter.IsFull() {
		t.Error("fresh limiter should be full")
	}
	limiter.Allow()
	time.Sleep(5 * time.Millisecond)
	if !limiter.IsFull() {
		t.Error("limiter should refill to capacity")
	}
}

func TestPerChatLimiterIsolation(t *testing.T) {
	t.Parallel()

	pcl := NewPerChatLimiter(PerChatLimiterConfig{
		MaxTokens:     1,
		RefillRate:    0.001,
		CleanupPeriod: time.Minute,
	})
	defer pcl.Stop()

	if !pcl.Allow(1) {
		t.Error("chat 1 first update should be allowed")
	}
	if pcl.Allow(1) {
		t.Error("chat 1 second update should be dropped")
	}
	if !pcl.Allow(2) {
		t.Error("chat 2 should not be affected by chat 1's bucket")
	}

	if got := pcl.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount = %d, want 2", got)
	}
}

func TestPerChatLimiterOnDrop(t *testing.T) {
	t.Parallel()

	pcl := NewPerChatLimiter(PerChatLimiterConfig{
		MaxTokens:     1,
		RefillRate:    0.001,
		CleanupPeriod: time.Minute,
	})
	defer pcl.Stop()

	dropped := 0
	pcl.OnDrop(func() { dropped++ })

	pcl.Allow(7)
	pcl.Allow(7)
	pcl.Allow(7)

	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
}
