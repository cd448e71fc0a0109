package services

import (
	"math/big"
	"testing"
)

func TestUnitPriceSameDecimals(t *testing.T) {
	amountOut := big.NewInt(3000)
	amountIn := big.NewInt(1)
	got := unitPrice(amountOut, amountIn, 0, 0)
	if got != 3000 {
		t.Errorf("unitPrice() = %v, want 3000", got)
	}
}

func TestUnitPriceScalesForDecimalDifference(t *testing.T) {
	// 1 WETH (18 decimals) in for 3000 USDC (6 decimals) out, smallest units.
	amountIn := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	amountOut := new(big.Int).Mul(big.NewInt(3000), new(big.Int).Exp(big.NewInt(10), big.NewInt(6), nil))

	got := unitPrice(amountOut, amountIn, 6, 18)
	if got != 3000 {
		t.Errorf("unitPrice() = %v, want 3000", got)
	}
}

func TestUnitPriceZeroAmountIn(t *testing.T) {
	got := unitPrice(big.NewInt(100), big.NewInt(0), 18, 18)
	if got != 0 {
		t.Errorf("unitPrice() with zero amountIn = %v, want 0", got)
	}
}

func TestUnitPriceNilAmountIn(t *testing.T) {
	got := unitPrice(big.NewInt(100), nil, 18, 18)
	if got != 0 {
		t.Errorf("unitPrice() with nil amountIn = %v, want 0", got)
	}
}
