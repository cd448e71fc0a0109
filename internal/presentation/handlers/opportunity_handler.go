package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/bimakw/arbiscan/internal/domain/entities"
)

// OpportunityHandler serves the most recent scan's detected opportunities
// over HTTP. The Scan Engine's onTick callback feeds Update; handlers just
// read the latest snapshot, so a slow HTTP client never blocks a scan.
type OpportunityHandler struct {
	mu      sync.RWMutex
	latest  []entities.Opportunity
}

// NewOpportunityHandler creates an empty handler; call Update once scans
// start producing results.
func NewOpportunityHandler() *OpportunityHandler {
	return &OpportunityHandler{}
}

// Update replaces the cached snapshot, called from the Scan Engine's
// onTick callback.
func (h *OpportunityHandler) Update(opportunities []entities.Opportunity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = opportunities
}

// List handles GET /opportunities, returning the latest scan's results.
func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	snapshot := h.latest
	h.mu.RUnlock()

	writeJSON(w, http.StatusOK, snapshot)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
