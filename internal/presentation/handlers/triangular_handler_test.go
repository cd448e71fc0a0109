package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bimakw/arbiscan/internal/domain/entities"
)

func TestTriangularHandlerListReturnsLatestUpdate(t *testing.T) {
	h := NewTriangularHandler()
	h.Update([]entities.TriangularOpportunity{{Venue: "binance", ProfitPercent: 1.5}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/triangular", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("List() status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got []entities.TriangularOpportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("List() body did not decode as JSON: %v", err)
	}
	if len(got) != 1 || got[0].Venue != "binance" {
		t.Errorf("List() body = %+v, want one binance opportunity", got)
	}
}
