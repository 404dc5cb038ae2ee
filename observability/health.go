package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	// HealthStatusHealthy indicates the component works.
	HealthStatusHealthy HealthStatus = "healthy"
	// HealthStatusDegraded indicates the component works with reduced function.
	HealthStatusDegraded HealthStatus = "degraded"
	// HealthStatusUnhealthy indicates the component does not work.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck is one named check. Cached results are reused for TTL.
type HealthCheck struct {
	Name   string
	Check  func(context.Context) HealthCheckResult
	Cached bool
	TTL    time.Duration
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthReport is the body served by the health endpoint.
type HealthReport struct {
	Status HealthStatus                 `json:"status"`
	Checks map[string]HealthCheckResult `json:"checks"`
}

// HealthChecker manages and executes health checks
type HealthChecker struct {
	mu     sync.RWMutex
	checks map[string]*HealthCheck
	cache  map[string]*cachedHealthResult
}

type cachedHealthResult struct {
	result    HealthCheckResult
	timestamp time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]*HealthCheck),
		cache:  make(map[string]*cachedHealthResult),
	}
}

// Register adds a check, replacing any check with the same name.
func (hc *HealthChecker) Register(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name] = &check
	delete(hc.cache, check.Name)
}

// Check runs all checks concurrently and returns their results by name.
func (hc *HealthChecker) Check(ctx context.Context) map[string]HealthCheckResult {
	hc.mu.RLock()
	checks := make([]*HealthCheck, 0, len(hc.checks))
	for _, check := range hc.checks {
		checks = append(checks, check)
	}
	hc.mu.RUnlock()

	results := make(map[string]HealthCheckResult, len(checks))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, check := range checks {
		wg.Add(1)
		go func(c *HealthCheck) {
			defer wg.Done()
			result := hc.executeCheck(ctx, c)
			mu.Lock()
			results[c.Name] = result
			mu.Unlock()
		}(check)
	}

	wg.Wait()
	return results
}

func (hc *HealthChecker) executeCheck(ctx context.Context, check *HealthCheck) HealthCheckResult {
	if check.Cached {
		hc.mu.RLock()
		cached, exists := hc.cache[check.Name]
		hc.mu.RUnlock()

		if exists && time.Since(cached.timestamp) < check.TTL {
			return cached.result
		}
	}

	result := check.Check(ctx)

	if check.Cached {
		hc.mu.Lock()
		hc.cache[check.Name] = &cachedHealthResult{result: result, timestamp: time.Now()}
		hc.mu.Unlock()
	}

	return result
}

// Report runs all checks and folds them into one status: any unhealthy
// check makes the report unhealthy, else any degraded check degrades it.
func (hc *HealthChecker) Report(ctx context.Context) HealthReport {
	results := hc.Check(ctx)
	return HealthReport{Status: aggregate(results), Checks: results}
}

// OverallStatus returns the aggregate health status
func (hc *HealthChecker) OverallStatus(ctx context.Context) HealthStatus {
	return hc.Report(ctx).Status
}

func aggregate(results map[string]HealthCheckResult) HealthStatus {
	status := HealthStatusHealthy
	for _, result := range results {
		switch result.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			status = HealthStatusDegraded
		}
	}
	return status
}

// Handler serves the report as JSON. Unhealthy reports get 503.
func (hc *HealthChecker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := hc.Report(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if report.Status == HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		// Headers are already sent; an encode failure cannot change the response
		_ = json.NewEncoder(w).Encode(report)
	}
}

// CatalogHealthCheck reports the portable profile catalog. An empty catalog
// is degraded: parsing works but portable monikers never resolve to a profile.
func CatalogHealthCheck(name string, size func() int) HealthCheck {
	return HealthCheck{
		Name:   name,
		Cached: true,
		TTL:    30 * time.Second,
		Check: func(ctx context.Context) HealthCheckResult {
			n := size()
			details := map[string]string{"profiles": strconv.Itoa(n)}
			if n == 0 {
				return HealthCheckResult{
					Status:  HealthStatusDegraded,
					Message: "profile catalog is empty",
					Details: details,
				}
			}
			return HealthCheckResult{
				Status:  HealthStatusHealthy,
				Message: fmt.Sprintf("%d portable profiles loaded", n),
				Details: details,
			}
		},
	}
}
