package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/infrastructure/rpc"
)

// ChainStatus reports one chain's RPC endpoint health.
type ChainStatus struct {
	Name    string `json:"name"`
	Healthy int    `json:"healthy"`
	Total   int    `json:"total"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version"`
	Chains  []ChainStatus `json:"chains"`
}

// HealthHandler handles health check requests, reporting the RPC pool's
// per-chain endpoint health alongside the usual liveness status.
type HealthHandler struct {
	version string
	pool    *rpc.Pool
}

// NewHealthHandler creates a new health handler. pool is queried live on
// every request, so it reflects endpoint failover as it happens.
func NewHealthHandler(version string, pool *rpc.Pool) *HealthHandler {
	return &HealthHandler{version: version, pool: pool}
}

// Health handles GET /health. Status is "degraded" if any dialed chain has
// no healthy endpoint left; the caller still gets 200 since the scanner
// itself keeps running on whatever subset of chains is up.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	var chains []ChainStatus
	for chainID, eh := range h.pool.ChainHealth() {
		name := fmt.Sprintf("chain-%d", chainID)
		if cfg, ok := config.GetChain(chainID); ok {
			name = cfg.Name
		}
		if eh.Healthy == 0 {
			status = "degraded"
		}
		chains = append(chains, ChainStatus{Name: name, Healthy: eh.Healthy, Total: eh.Total})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:  status,
		Version: h.version,
		Chains:  chains,
	})
}
