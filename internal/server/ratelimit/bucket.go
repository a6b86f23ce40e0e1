package ratelimit

import (
	"sync"
	"time"
)

// bucket is a token bucket: capacity tokens, refilled continuously at rate tokens per second.
type bucket struct {
	mu       sync.Mutex
	capacity float64
	rate     float64
	tokens   float64
	last     time.Time
}

func newBucket(capacity int, rate float64, now time.Time) *bucket {
	return &bucket{capacity: float64(capacity), rate: rate, tokens: float64(capacity), last: now}
}

func (b *bucket) refill(now time.Time) {
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
	}
	b.last = now
}

// take consumes one token if available. It reports the tokens left, when the bucket is
// full again and, on refusal, how long until the next token.
func (b *bucket) take(now time.Time) (ok bool, remaining int, full time.Time, wait time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(now)
	if b.tokens >= 1 {
		b.tokens--
		ok = true
	}
	full = now
	if b.rate <= 0 {
		return ok, int(b.tokens), full, 0
	}
	if missing := b.capacity - b.tokens; missing > 0 {
		full = now.Add(seconds(missing / b.rate))
	}
	if !ok {
		wait = seconds((1 - b.tokens) / b.rate)
	}
	return ok, int(b.tokens), full, wait
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
