package entities

import (
	"testing"
	"time"

	"github.com/bimakw/arbiscan/internal/config"
)

func TestNewOpportunity(t *testing.T) {
	now := time.Now()
	o := NewOpportunity("WETH/USDC", "binance", 3000, "uniswap_v3", 3030, 1000, 2, 1, now)

	wantSpread := (3030 - 3000.0) / 3000.0 * 100
	if o.SpreadPercent != wantSpread {
		t.Errorf("SpreadPercent = %v, want %v", o.SpreadPercent, wantSpread)
	}

	wantUnits := 1000.0 / 3000.0
	wantGross := wantUnits * (3030 - 3000.0)
	if o.GrossProfit != wantGross {
		t.Errorf("GrossProfit = %v, want %v", o.GrossProfit, wantGross)
	}

	wantNet := wantGross - 2 - 1
	if o.NetProfit != wantNet {
		t.Errorf("NetProfit = %v, want %v", o.NetProfit, wantNet)
	}

	if o.Tier != config.ProfitTierFor(wantNet) {
		t.Errorf("Tier = %v, want %v", o.Tier, config.ProfitTierFor(wantNet))
	}
}

func TestNewOpportunityZeroBuyPrice(t *testing.T) {
	o := NewOpportunity("WETH/USDC", "binance", 0, "uniswap_v3", 3030, 1000, 2, 1, time.Now())
	if o.SpreadPercent != 0 {
		t.Errorf("SpreadPercent with zero buy price = %v, want 0", o.SpreadPercent)
	}
	if o.GrossProfit != 0 {
		t.Errorf("GrossProfit with zero buy price = %v, want 0", o.GrossProfit)
	}
}

func TestOpportunityIsActionable(t *testing.T) {
	tests := []struct {
		name      string
		netProfit float64
		want      bool
	}{
		{"above threshold", config.MinProfitUSD + 1, true},
		{"exactly threshold", config.MinProfitUSD, true},
		{"below threshold", config.MinProfitUSD - 0.01, false},
		{"negative", -10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Opportunity{NetProfit: tt.netProfit}
			if got := o.IsActionable(); got != tt.want {
				t.Errorf("IsActionable() = %v, want %v", got, tt.want)
			}
		})
	}
}
