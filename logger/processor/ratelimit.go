/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package processor

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// The RateLimit step (steps.go) drops the entry if the context's rate limiter
// rejects its (logger_name, event) key; RateLimiter below is that limiter.

// RateLimiter is a per-(logger_name, event_key) token bucket. The bucket
// set is bounded by an LRU cache so a logger emitting unboundedly many
// distinct event keys cannot grow this structure without limit.
type RateLimiter struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *rate.Limiter]
	rate  rate.Limit
	burst int
}

// NewRateLimiter returns a limiter allowing eventsPerSecond sustained
// events with burst headroom per distinct (logger, event) key, keeping at
// most maxKeys buckets alive at once.
func NewRateLimiter(eventsPerSecond float64, burst, maxKeys int) *RateLimiter {
	c, _ := lru.New[string, *rate.Limiter](maxKeys)
	return &RateLimiter{
		cache: c,
		rate:  rate.Limit(eventsPerSecond),
		burst: burst,
	}
}

// Allow reports whether an event for (loggerName, event) may proceed right
// now, consuming a token if so.
func (r *RateLimiter) Allow(loggerName, event string) bool {
	key := loggerName + "|" + event

	r.mu.Lock()
	l, ok := r.cache.Get(key)
	if !ok {
		l = rate.NewLimiter(r.rate, r.burst)
		r.cache.Add(key, l)
	}
	r.mu.Unlock()

	return l.Allow()
}
