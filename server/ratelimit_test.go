package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/nugetcompat/observability"
)

func TestTokenBucket_Take(t *testing.T) {
	start := time.Unix(1000, 0)
	tb := newTokenBucket(2, 3, start)

	for i := range 3 {
		ok, _ := tb.take(start)
		assert.True(t, ok, "request %d within burst", i)
	}

	ok, wait := tb.take(start)
	assert.False(t, ok)
	assert.Equal(t, 500*time.Millisecond, wait)

	ok, _ = tb.take(start.Add(500 * time.Millisecond))
	assert.True(t, ok, "one token refilled after 500ms at 2/s")

	ok, _ = tb.take(start.Add(10 * time.Second))
	assert.True(t, ok)
	assert.LessOrEqual(t, tb.tokens, 3.0, "refill is capped at burst")
}

func TestClientLimiter_PerClient(t *testing.T) {
	now := time.Unix(1000, 0)
	cl := newClientLimiter(1, 1)
	cl.now = func() time.Time { return now }

	ok, _ := cl.allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = cl.allow("10.0.0.1")
	assert.False(t, ok)

	ok, _ = cl.allow("10.0.0.2")
	assert.True(t, ok, "other clients have their own bucket")
	assert.Equal(t, 2, cl.clients())
}

func TestClientLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Unix(1000, 0)
	cl := newClientLimiter(1, 1)
	cl.now = func() time.Time { return now }

	cl.allow("10.0.0.1")
	cl.allow("10.0.0.2")
	require.Equal(t, 2, cl.clients())

	now = now.Add(cl.idle + time.Minute)
	cl.allow("10.0.0.3")
	assert.Equal(t, 1, cl.clients())
}

func TestClientLimiter_DefaultBurst(t *testing.T) {
	assert.Equal(t, 3, newClientLimiter(2.5, 0).burst)
	assert.Equal(t, 1, newClientLimiter(0.1, 0).burst)
}

func TestRateLimitMiddleware(t *testing.T) {
	s := New(nil, nil, WithRateLimit(0.001, 2))
	h := s.Handler()

	before, err := observability.GetCounterValue(observability.HTTPRequestsTotal, "GET", "/v1/parse", "200")
	require.NoError(t, err)
	limitedBefore := counterValue(t, observability.RateLimitedTotal)

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/v1/parse?moniker=net45", nil)
		req.RemoteAddr = "192.0.2.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[i] = rec.Code
		if rec.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	after, err := observability.GetCounterValue(observability.HTTPRequestsTotal, "GET", "/v1/parse", "200")
	require.NoError(t, err)
	assert.Equal(t, before+2, after)
	assert.Equal(t, limitedBefore+1, counterValue(t, observability.RateLimitedTotal))
}

func TestRateLimitDisabled(t *testing.T) {
	s := New(nil, nil, WithRateLimit(0, 10))
	assert.Nil(t, s.limiter)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
