package entities

import (
	"time"

	"github.com/bimakw/arbiscan/internal/config"
)

// Opportunity is one detected two-leg arbitrage: buy the pair on one
// venue, sell it on another, after gas and withdrawal costs.
type Opportunity struct {
	Pair string // e.g. "WETH/USDC"

	BuySource  string
	BuyPrice   float64
	SellSource string
	SellPrice  float64

	SpreadPercent float64

	TradeSizeUSD float64
	GrossProfit  float64
	GasCostUSD   float64
	FeesUSD      float64
	NetProfit    float64

	Tier string // CRITICAL / HIGH / MEDIUM, per config.ProfitTierFor

	DetectedAt time.Time
}

// NewOpportunity computes the derived fields (spread, gross/net profit,
// tier) from the two legs' quotes and the estimated costs, per
// SPEC_FULL.md §4.8 steps 6-7.
func NewOpportunity(pair, buySource string, buyPrice float64, sellSource string, sellPrice float64, tradeSizeUSD, gasCostUSD, feesUSD float64, now time.Time) Opportunity {
	spread := 0.0
	if buyPrice > 0 {
		spread = (sellPrice - buyPrice) / buyPrice * 100
	}

	units := 0.0
	if buyPrice > 0 {
		units = tradeSizeUSD / buyPrice
	}
	gross := units * (sellPrice - buyPrice)
	net := gross - gasCostUSD - feesUSD

	return Opportunity{
		Pair:          pair,
		BuySource:     buySource,
		BuyPrice:      buyPrice,
		SellSource:    sellSource,
		SellPrice:     sellPrice,
		SpreadPercent: spread,
		TradeSizeUSD:  tradeSizeUSD,
		GrossProfit:   gross,
		GasCostUSD:    gasCostUSD,
		FeesUSD:       feesUSD,
		NetProfit:     net,
		Tier:          config.ProfitTierFor(net),
		DetectedAt:    now,
	}
}

// IsActionable reports whether this opportunity clears the minimum net
// profit threshold to be emitted (SPEC_FULL.md §4.8 step 8).
func (o Opportunity) IsActionable() bool {
	return o.NetProfit >= config.MinProfitUSD
}
