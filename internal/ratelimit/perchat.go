package ratelimit

import (
	"strconv"
	"sync"
	"time"
)

// PerChatLimiterConfig configures a PerChatLimiter instance.
type PerChatLimiterConfig struct {
	MaxTokens     float64       // Maximum tokens per chat (burst capacity)
	RefillRate    float64       // Tokens refilled per second
	CleanupPeriod time.Duration // How often to clean up inactive limiters
}

// PerChatLimiter tracks rate limits per chat ID.
// It creates a separate token bucket for each chat and automatically
// cleans up buckets that have refilled completely.
type PerChatLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
	config   PerChatLimiterConfig
	onDrop   func() // Optional callback when an update is dropped
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPerChatLimiter creates a new per-chat rate limiter and starts its
// cleanup loop. Call Stop when done.
func NewPerChatLimiter(cfg PerChatLimiterConfig) *PerChatLimiter {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = 5 * time.Minute
	}

	pcl := &PerChatLimiter{
		limiters: make(map[string]*Limiter),
		config:   cfg,
		stopCh:   make(chan struct{}),
	}

	go pcl.cleanupLoop()

	return pcl
}

// OnDrop sets a callback invoked when an update is dropped due to rate limiting.
func (pcl *PerChatLimiter) OnDrop(fn func()) {
	pcl.onDrop = fn
}

// Allow checks if an update for the given chat is allowed.
// Returns true if allowed (token consumed), false if rate limit exceeded.
func (pcl *PerChatLimiter) Allow(chatID int64) bool {
	key := strconv.FormatInt(chatID, 10)

	pcl.mu.RLock()
	limiter, exists := pcl.limiters[key]
	pcl.mu.RUnlock()

	if !exists {
		pcl.mu.Lock()
		// Double-check after acquiring write lock
		limiter, exists = pcl.limiters[key]
		if !exists {
			limiter = New(pcl.config.MaxTokens, pcl.config.RefillRate)
			pcl.limiters[key] = limiter
		}
		pcl.mu.Unlock()
	}

	allowed := limiter.Allow()
	if !allowed && pcl.onDrop != nil {
		pcl.onDrop()
	}
	return allowed
}

// ActiveCount returns the number of chats currently tracked.
func (pcl *PerChatLimiter) ActiveCount() int {
	pcl.mu.RLock()
	defer pcl.mu.RUnlock()
	return len(pcl.limiters)
}

// cleanupLoop periodically removes limiters that are back at full capacity.
func (pcl *PerChatLimiter) cleanupLoop() {
	ticker := time.NewTicker(pcl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-pcl.stopCh:
			return
		case <-ticker.C:
			pcl.mu.Lock()
			for key, limiter := range pcl.limiters {
				if limiter.IsFull() {
					delete(pcl.limiters, key)
				}
			}
			pcl.mu.Unlock()
		}
	}
}

// Stop gracefully stops the cleanup goroutine.
// Safe to call multiple times.
func (pcl *PerChatLimiter) Stop() {
	pcl.stopOnce.Do(func() { close(pcl.stopCh) })
}
