package handlers

import (
	"net/http"
	"sync"

	"github.com/bimakw/arbiscan/internal/domain/entities"
)

// TriangularHandler serves the most recent scan's triangular-cycle
// findings over HTTP, mirroring OpportunityHandler's snapshot pattern.
type TriangularHandler struct {
	mu     sync.RWMutex
	latest []entities.TriangularOpportunity
}

// NewTriangularHandler creates an empty handler.
func NewTriangularHandler() *TriangularHandler {
	return &TriangularHandler{}
}

// Update replaces the cached snapshot.
func (h *TriangularHandler) Update(opportunities []entities.TriangularOpportunity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = opportunities
}

// List handles GET /triangular.
func (h *TriangularHandler) List(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	snapshot := h.latest
	h.mu.RUnlock()

	writeJSON(w, http.StatusOK, snapshot)
}
