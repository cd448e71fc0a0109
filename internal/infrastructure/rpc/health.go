package rpc

import (
	"sync"
	"time"
)

// health tracks one RPC endpoint's recent call outcomes so the transport
// can route around flaky nodes without a central coordinator. The EMA
// latency and quarantine rule are carried over from the distilled
// source's RPCEndpointHealth (utils/rpc_manager.py).
type health struct {
	mu sync.Mutex

	latencyEMA   float64
	failureCount int
	lastFailure  time.Time
	hasLatency   bool
}

const (
	emaOldWeight = 0.8
	emaNewWeight = 0.2

	unhealthyFailureCount = 3
	quarantineWindow      = 60 * time.Second
)

func (h *health) recordSuccess(latency time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ms := float64(latency.Microseconds()) / 1000.0
	if !h.hasLatency {
		h.latencyEMA = ms
		h.hasLatency = true
	} else {
		h.latencyEMA = h.latencyEMA*emaOldWeight + ms*emaNewWeight
	}
	h.failureCount = 0
}

func (h *health) recordFailure() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.failureCount++
	h.lastFailure = time.Now()
}

// isHealthy reports whether this endpoint should be considered for
// selection: it is unhealthy only if it has accrued enough consecutive
// failures AND the most recent one happened within the quarantine window.
func (h *health) isHealthy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.failureCount < unhealthyFailureCount {
		return true
	}
	return time.Since(h.lastFailure) >= quarantineWindow
}

func (h *health) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failureCount = 0
}

func (h *health) latencyMs() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.hasLatency {
		return 0
	}
	return h.latencyEMA
}
