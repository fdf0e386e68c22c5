package trigger

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// channelLimiter keeps one token bucket per channel.
type channelLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	lastAccess map[string]time.Time
	rate       rate.Limit
	burst      int
}

func newChannelLimiter(perMinute int) *channelLimiter {
	return &channelLimiter{
		limiters:   make(map[string]*rate.Limiter),
		lastAccess: make(map[string]time.Time),
		rate:       rate.Limit(float64(perMinute) / 60.0),
		burst:      max(1, perMinute/10),
	}
}

func (c *channelLimiter) Allow(channelID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	limiter, ok := c.limiters[channelID]
	if !ok {
		limiter = rate.NewLimiter(c.rate, c.burst)
		c.limiters[channelID] = limiter
	}
	c.lastAccess[channelID] = time.Now()
	return limiter.Allow()
}

// Evict removes limiters not used within maxAge and returns how many went.
func (c *channelLimiter) Evict(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	evicted := 0
	for id, last := range c.lastAccess {
		if last.Before(cutoff) {
			delete(c.limiters, id)
			delete(c.lastAccess, id)
			evicted++
		}
	}
	return evicted
}

func (c *channelLimiter) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.limiters)
}
