package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bimakw/arbiscan/internal/domain/entities"
)

func TestPrintOpportunitiesEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintOpportunities(&buf, nil)
	if !strings.Contains(buf.String(), "No profitable opportunities found yet") {
		t.Errorf("PrintOpportunities(nil) output = %q, want the empty-state message", buf.String())
	}
}

func TestPrintOpportunitiesRendersRowsAndCapsAtMax(t *testing.T) {
	opps := make([]entities.Opportunity, maxReportRows+5)
	for i := range opps {
		opps[i] = entities.Opportunity{Pair: "ETH/USDC", BuySource: "binance", SellSource: "okx", NetProfit: float64(i)}
	}

	var buf bytes.Buffer
	PrintOpportunities(&buf, opps)
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Header line + maxReportRows data lines.
	if len(lines) != maxReportRows+1 {
		t.Errorf("PrintOpportunities() printed %d lines, want %d (header + %d rows)", len(lines), maxReportRows+1, maxReportRows)
	}
	if !strings.Contains(out, "ETH/USDC") {
		t.Error("PrintOpportunities() output missing the pair column")
	}
}

func TestPrintTriangularEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintTriangular(&buf, nil)
	if !strings.Contains(buf.String(), "No triangular opportunities found yet") {
		t.Errorf("PrintTriangular(nil) output = %q, want the empty-state message", buf.String())
	}
}

func TestPrintTriangularRendersCycleLabel(t *testing.T) {
	opp := entities.TriangularOpportunity{
		Venue:         "binance",
		Legs:          [3]entities.TriangularLeg{{From: "SOL", To: "ETH"}, {From: "ETH", To: "USDT"}, {From: "USDT", To: "SOL"}},
		ProfitPercent: 1.23,
		NetProfit:     45.6,
	}

	var buf bytes.Buffer
	PrintTriangular(&buf, []entities.TriangularOpportunity{opp})
	out := buf.String()

	if !strings.Contains(out, "SOL->ETH->USDT->SOL") {
		t.Errorf("PrintTriangular() output = %q, want it to contain the cycle label", out)
	}
}

func TestFormatPrice(t *testing.T) {
	if got := formatPrice(3000); got != "$3000.00" {
		t.Errorf("formatPrice(3000) = %q, want $3000.00", got)
	}
	if got := formatPrice(0.000123); got != "$0.000123" {
		t.Errorf("formatPrice(0.000123) = %q, want $0.000123", got)
	}
}
