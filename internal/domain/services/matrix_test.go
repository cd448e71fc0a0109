package services

import (
	"testing"
	"time"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
)

func TestNormalizeQuotes(t *testing.T) {
	quotes := []entities.Quote{
		{Base: "WETH", Quote: "USDC"},
		{Base: "WBTC", Quote: "WETH"},
	}
	out := NormalizeQuotes(quotes)

	if out[0].Base != config.CanonicalSymbol("WETH") || out[0].Quote != config.CanonicalSymbol("USDC") {
		t.Errorf("NormalizeQuotes()[0] = %+v, want canonicalized symbols", out[0])
	}
	if out[1].Base != config.CanonicalSymbol("WBTC") || out[1].Quote != config.CanonicalSymbol("WETH") {
		t.Errorf("NormalizeQuotes()[1] = %+v, want canonicalized symbols", out[1])
	}

	// Original slice must be untouched.
	if quotes[0].Base != "WETH" {
		t.Errorf("NormalizeQuotes mutated its input slice")
	}
}

func TestReliableQuotesDropsStale(t *testing.T) {
	now := time.Now()
	quotes := []entities.Quote{
		{Kind: entities.KindDEX, Timestamp: now},
		{Kind: entities.KindDEX, Timestamp: now.Add(-config.DEXStaleThreshold - time.Second)},
	}
	out := ReliableQuotes(quotes, now)
	if len(out) != 1 {
		t.Fatalf("ReliableQuotes() len = %d, want 1", len(out))
	}
	if out[0].Timestamp != now {
		t.Errorf("ReliableQuotes() kept the stale quote instead of the fresh one")
	}
}

func TestReliableQuotesDropsThinVolume(t *testing.T) {
	now := time.Now()
	quotes := []entities.Quote{
		{Kind: entities.KindCEX, Timestamp: now, VolumeUSD: config.MinQuoteVolumeUSD - 1},
		{Kind: entities.KindCEX, Timestamp: now, VolumeUSD: config.MinQuoteVolumeUSD + 1},
		{Kind: entities.KindCEX, Timestamp: now, VolumeUSD: 0}, // unreported volume isn't dropped
	}
	out := ReliableQuotes(quotes, now)
	if len(out) != 2 {
		t.Fatalf("ReliableQuotes() len = %d, want 2 (thin-volume dropped, unreported kept)", len(out))
	}
}

func TestBuildOpportunitiesFindsSpread(t *testing.T) {
	now := time.Now()
	quotes := []entities.Quote{
		{Kind: entities.KindCEX, Base: "ETH", Quote: "USDC", Venue: "binance", Bid: 2990, Ask: 3000},
		{Kind: entities.KindCEX, Base: "ETH", Quote: "USDC", Venue: "okx", Bid: 3100, Ask: 3110},
	}
	gasCostUSD := map[config.ChainID]float64{}
	opps := BuildOpportunities(quotes, gasCostUSD, 1000, now)

	found := false
	for _, o := range opps {
		if o.BuySource == "binance" && o.SellSource == "okx" {
			found = true
			if o.NetProfit <= 0 {
				t.Errorf("expected a profitable binance->okx opportunity, got NetProfit=%v", o.NetProfit)
			}
		}
	}
	if !found {
		t.Fatal("BuildOpportunities() did not surface the binance->okx spread")
	}
}

func TestBuildOpportunitiesSingleQuoteSymbolSkipped(t *testing.T) {
	quotes := []entities.Quote{
		{Kind: entities.KindCEX, Base: "ETH", Quote: "USDC", Venue: "binance", Bid: 2990, Ask: 3000},
	}
	opps := BuildOpportunities(quotes, nil, 1000, time.Now())
	if len(opps) != 0 {
		t.Errorf("BuildOpportunities() with a single quote per symbol = %d opportunities, want 0", len(opps))
	}
}

func TestEvaluatePairRejectsNonPositivePrices(t *testing.T) {
	buy := entities.Quote{Venue: "binance", Ask: 0}
	sell := entities.Quote{Venue: "okx", Bid: 3000}
	if _, ok := evaluatePair("ETH/USDC", buy, sell, nil, 1000, time.Now()); ok {
		t.Error("evaluatePair() accepted a zero ask price")
	}
}

func TestWithdrawalFeeUSD(t *testing.T) {
	cexBuy := entities.Quote{Kind: entities.KindCEX}
	cexSell := entities.Quote{Kind: entities.KindCEX}
	if got := withdrawalFeeUSD(cexBuy, cexSell); got != config.CEXWithdrawalFeeUSD {
		t.Errorf("withdrawalFeeUSD(cex, cex) = %v, want %v", got, config.CEXWithdrawalFeeUSD)
	}

	dexBuy := entities.Quote{Kind: entities.KindDEX}
	dexSell := entities.Quote{Kind: entities.KindDEX}
	if got := withdrawalFeeUSD(dexBuy, dexSell); got != 0 {
		t.Errorf("withdrawalFeeUSD(dex, dex) = %v, want 0", got)
	}

	cexToDex := entities.Quote{Kind: entities.KindCEX}
	dexExit := entities.Quote{Kind: entities.KindDEX, Chain: config.Ethereum}
	chain := config.Ethereum
	want := config.GetWithdrawalFeeUSD(&chain)
	if got := withdrawalFeeUSD(cexToDex, dexExit); got != want {
		t.Errorf("withdrawalFeeUSD(cex, dex) = %v, want %v", got, want)
	}
}
