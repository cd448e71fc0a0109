package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bimakw/arbiscan/internal/domain/entities"
)

func TestOpportunityHandlerListReturnsLatestUpdate(t *testing.T) {
	h := NewOpportunityHandler()
	opps := []entities.Opportunity{
		{Pair: "ETH/USDC", NetProfit: 42, DetectedAt: time.Now()},
	}
	h.Update(opps)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/opportunities", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("List() status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got []entities.Opportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("List() body did not decode as JSON: %v", err)
	}
	if len(got) != 1 || got[0].Pair != "ETH/USDC" {
		t.Errorf("List() body = %+v, want one ETH/USDC opportunity", got)
	}
}

func TestOpportunityHandlerListEmptyBeforeUpdate(t *testing.T) {
	h := NewOpportunityHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/opportunities", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("List() status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got []entities.Opportunity
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("List() body did not decode as JSON: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() before any Update = %v, want empty", got)
	}
}
