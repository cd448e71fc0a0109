package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bimakw/arbiscan/internal/infrastructure/rpc"
)

func TestHealthHandlerHealthNoChainsDialed(t *testing.T) {
	h := NewHealthHandler("0.3.0", rpc.NewPool())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Health() status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Health() body did not decode as JSON: %v", err)
	}
	if got.Status != "ok" || got.Version != "0.3.0" {
		t.Errorf("Health() body = %+v, want status=ok version=0.3.0", got)
	}
	if len(got.Chains) != 0 {
		t.Errorf("Health() chains = %v, want none (no chain dialed yet)", got.Chains)
	}
}
