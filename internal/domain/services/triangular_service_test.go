package services

import (
	"testing"
	"time"

	"github.com/bimakw/arbiscan/internal/domain/entities"
)

func TestTriangularServiceScanFindsProfitableCycle(t *testing.T) {
	now := time.Now()
	venue := "binance"

	// SOL is the non-hub base here; ETH and USDT are hubs. Rates are
	// chosen so the SOL->ETH->USDT->SOL cycle compounds to a 4x return,
	// well above minTriangularReturn.
	quotes := []entities.Quote{
		{Kind: entities.KindCEX, Venue: venue, Base: "SOL", Quote: "ETH", Bid: 2, Ask: 2, Timestamp: now},
		{Kind: entities.KindCEX, Venue: venue, Base: "ETH", Quote: "USDT", Bid: 1, Ask: 0.5, Timestamp: now},
		{Kind: entities.KindCEX, Venue: venue, Base: "SOL", Quote: "USDT", Bid: 1, Ask: 0.5, Timestamp: now},
	}

	svc := NewTriangularService()
	opps := svc.Scan(quotes, 1000, now)

	if len(opps) == 0 {
		t.Fatal("Scan() found no triangular opportunities, expected at least one")
	}
	for _, o := range opps {
		if o.Venue != venue {
			t.Errorf("opportunity venue = %v, want %v", o.Venue, venue)
		}
		if o.ProfitPercent <= 0 {
			t.Errorf("opportunity ProfitPercent = %v, want > 0", o.ProfitPercent)
		}
	}
}

func TestTriangularServiceScanIgnoresNonCEXQuotes(t *testing.T) {
	quotes := []entities.Quote{
		{Kind: entities.KindDEX, Venue: "uniswap_v3", Base: "BTC", Quote: "ETH", Bid: 32, Ask: 32},
	}
	svc := NewTriangularService()
	opps := svc.Scan(quotes, 1000, time.Now())
	if len(opps) != 0 {
		t.Errorf("Scan() with only DEX quotes = %d opportunities, want 0", len(opps))
	}
}

func TestLookupMarketInvertsOppositeDirection(t *testing.T) {
	market := map[string]entities.Quote{
		"ETH/USDT": {Bid: 3000, Ask: 3010},
	}

	direct, ok := lookupMarket(market, "ETH", "USDT")
	if !ok || direct.Bid != 3000 || direct.Ask != 3010 {
		t.Errorf("lookupMarket(ETH, USDT) = %+v, ok=%v, want direct quote", direct, ok)
	}

	inverted, ok := lookupMarket(market, "USDT", "ETH")
	if !ok {
		t.Fatal("lookupMarket(USDT, ETH) ok=false, want true (should invert)")
	}
	if inverted.Bid != 1/3010.0 || inverted.Ask != 1/3000.0 {
		t.Errorf("lookupMarket(USDT, ETH) = %+v, want inverted bid/ask", inverted)
	}
}

func TestTriangularServiceScanFabricatedThreeMarketCycle(t *testing.T) {
	now := time.Now()
	venue := "kraken"

	// B/USDT=100/100, ETH/USDT=2000/2000, B/ETH=0.0502/0.0502: selling B
	// for ETH, ETH for USDT, and buying B back with USDT compounds to
	// about a 0.4% return; the opposite direction loses money and isn't
	// reported.
	quotes := []entities.Quote{
		{Kind: entities.KindCEX, Venue: venue, Base: "B", Quote: "USDT", Bid: 100, Ask: 100, Timestamp: now},
		{Kind: entities.KindCEX, Venue: venue, Base: "ETH", Quote: "USDT", Bid: 2000, Ask: 2000, Timestamp: now},
		{Kind: entities.KindCEX, Venue: venue, Base: "B", Quote: "ETH", Bid: 0.0502, Ask: 0.0502, Timestamp: now},
	}

	svc := NewTriangularService()
	opps := svc.Scan(quotes, 1000, now)

	if len(opps) != 1 {
		t.Fatalf("Scan() found %d opportunities, want exactly 1 (only one direction of this cycle is profitable)", len(opps))
	}

	want := (0.0502*2000/100 - 1) * 100
	if got := opps[0].ProfitPercent; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("ProfitPercent = %v, want %v", got, want)
	}

	legOrder := [3]string{opps[0].Legs[0].From, opps[0].Legs[1].From, opps[0].Legs[2].From}
	wantOrder := [3]string{"B", "ETH", "USDT"}
	if legOrder != wantOrder {
		t.Errorf("cycle leg order = %v, want %v", legOrder, wantOrder)
	}
}

func TestNonHubBasesExcludesHubs(t *testing.T) {
	market := map[string]entities.Quote{
		"SOL/USDT": {Base: "SOL", Quote: "USDT"},
		"ETH/USDT": {Base: "ETH", Quote: "USDT"},
	}
	bases := nonHubBases(market)
	for _, b := range bases {
		if b == "USDT" || b == "ETH" {
			t.Errorf("nonHubBases() included hub symbol %q", b)
		}
	}
	if len(bases) != 1 || bases[0] != "SOL" {
		t.Errorf("nonHubBases() = %v, want [SOL]", bases)
	}
}
