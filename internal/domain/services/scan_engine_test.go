package services

import (
	"math/big"
	"testing"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
	"github.com/bimakw/arbiscan/internal/infrastructure/cex"
)

func TestUnionPairsDedupsAndCaps(t *testing.T) {
	a := []cex.PairSpec{{Base: "BTC", Quote: "USDT"}, {Base: "ETH", Quote: "USDT"}}
	b := []cex.PairSpec{{Base: "ETH", Quote: "USDT"}, {Base: "SOL", Quote: "USDT"}}

	got := unionPairs(a, b, 100)
	if len(got) != 3 {
		t.Fatalf("unionPairs() len = %d, want 3 deduped pairs", len(got))
	}

	capped := unionPairs(a, b, 2)
	if len(capped) != 2 {
		t.Errorf("unionPairs() with cap=2 len = %d, want 2", len(capped))
	}
}

func TestStreamedVenueSet(t *testing.T) {
	set := streamedVenueSet()
	for _, v := range config.StreamVenues {
		if !set[v] {
			t.Errorf("streamedVenueSet() missing configured venue %q", v)
		}
	}
}

func TestSizeAmountInScalesByDecimals(t *testing.T) {
	base := entities.Token{Symbol: "ETH", Decimals: 18}
	amount := sizeAmountIn(base, 1000) // 1 unit of base costs $1000 -> 1 base unit

	// 1 token at 18 decimals = 1e18 smallest units.
	want := pow10(18)
	gotF, _ := new(big.Float).SetInt(amount).Float64()
	if gotF != want {
		t.Errorf("sizeAmountIn() = %v, want %v", gotF, want)
	}
}

func TestSizeAmountInFloorsToOneUnit(t *testing.T) {
	base := entities.Token{Symbol: "BTC", Decimals: 8}
	amount := sizeAmountIn(base, 1e12) // absurdly high price drives units below 1
	if amount.Sign() <= 0 {
		t.Error("sizeAmountIn() returned a non-positive amount")
	}
}

func TestSizeAmountInNonPositivePriceFallsBackToOne(t *testing.T) {
	base := entities.Token{Symbol: "ETH", Decimals: 18}
	amount := sizeAmountIn(base, 0)
	if amount.Sign() <= 0 {
		t.Error("sizeAmountIn() with a zero approx price returned a non-positive amount")
	}
}

func TestPow10(t *testing.T) {
	if got := pow10(0); got != 1 {
		t.Errorf("pow10(0) = %v, want 1", got)
	}
	if got := pow10(3); got != 1000 {
		t.Errorf("pow10(3) = %v, want 1000", got)
	}
	if got := pow10(-2); got != 0.01 {
		t.Errorf("pow10(-2) = %v, want 0.01", got)
	}
}
