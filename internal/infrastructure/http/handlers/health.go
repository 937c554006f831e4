package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amirhosseinghanipour/ordertracker/internal/application/ports"
)

type dependencyCheck struct {
	name string
	ping func(ctx context.Context) error
}

// HealthHandler answers /health with one entry per backing dependency.
type HealthHandler struct {
	checks  []dependencyCheck
	timeout time.Duration
}

// NewHealthHandler checks the commission store and, when configured, Redis.
func NewHealthHandler(store ports.CommissionRepository, redisClient *redis.Client) *HealthHandler {
	h := &HealthHandler{timeout: 3 * time.Second}
	h.checks = append(h.checks, dependencyCheck{name: "store", ping: store.Ping})
	if redisClient != nil {
		h.checks = append(h.checks, dependencyCheck{name: "redis", ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}
	return h
}

type checkResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type healthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]checkResult `json:"checks"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: make(map[string]checkResult, len(h.checks))}
	for _, c := range h.checks {
		start := time.Now()
		err := c.ping(ctx)
		res := checkResult{Status: "up", LatencyMS: time.Since(start).Milliseconds()}
		if err != nil {
			res.Status = "down"
			res.Error = err.Error()
			resp.Status = "unhealthy"
		}
		resp.Checks[c.name] = res
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
