package server

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/willibrandon/nugetcompat/observability"
)

// tokenBucket admits Rate requests per second with bursts up to Burst.
type tokenBucket struct {
	mu sync.Mutex

	// burst is the bucket capacity
	burst float64

	// rate is the refill rate in tokens per second
	rate float64

	tokens   float64
	lastSeen time.Time
}

func newTokenBucket(rate float64, burst int, now time.Time) *tokenBucket {
	return &tokenBucket{
		burst:    float64(burst),
		rate:     rate,
		tokens:   float64(burst),
		lastSeen: now,
	}
}

// take consumes one token. When none is left it reports how long the
// caller should wait for the next one.
func (tb *tokenBucket) take(now time.Time) (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	// Refill for the time elapsed since the last request
	tb.tokens = math.Min(tb.burst, tb.tokens+now.Sub(tb.lastSeen).Seconds()*tb.rate)
	tb.lastSeen = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true, 0
	}
	deficit := 1 - tb.tokens
	return false, time.Duration(deficit / tb.rate * float64(time.Second))
}

func (tb *tokenBucket) idleSince() time.Time {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastSeen
}

// clientLimiter keeps one bucket per client address.
type clientLimiter struct {
	rate  float64
	burst int
	idle  time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	buckets map[string]*tokenBucket
	sweptAt time.Time
}

// newClientLimiter creates a limiter admitting rate requests per second
// per client. A burst below one defaults to the rate rounded up.
func newClientLimiter(rate float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = int(math.Max(1, math.Ceil(rate)))
	}
	return &clientLimiter{
		rate:    rate,
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
		buckets: make(map[string]*tokenBucket),
	}
}

// bucket returns the client's bucket, creating it on first use.
func (cl *clientLimiter) bucket(client string, now time.Time) *tokenBucket {
	cl.mu.RLock()
	b, ok := cl.buckets[client]
	cl.mu.RUnlock()
	if ok {
		return b
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if b, ok = cl.buckets[client]; ok {
		return b
	}
	cl.sweep(now)
	b = newTokenBucket(cl.rate, cl.burst, now)
	cl.buckets[client] = b
	return b
}

// sweep drops buckets of clients idle for longer than cl.idle. Callers
// hold the write lock.
func (cl *clientLimiter) sweep(now time.Time) {
	if now.Sub(cl.sweptAt) < cl.idle {
		return
	}
	cl.sweptAt = now
	for client, b := range cl.buckets {
		if now.Sub(b.idleSince()) > cl.idle {
			delete(cl.buckets, client)
		}
	}
}

func (cl *clientLimiter) allow(client string) (bool, time.Duration) {
	now := cl.now()
	return cl.bucket(client, now).take(now)
}

func (cl *clientLimiter) clients() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.buckets)
}

// middleware rejects requests over the limit with 429 and Retry-After.
func (cl *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := cl.allow(clientAddr(r))
		if !ok {
			observability.RateLimitedTotal.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeError(w, http.StatusTooManyRequests, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientAddr returns the remote host without its port.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
