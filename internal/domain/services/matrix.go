package services

import (
	"time"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
)

// NormalizeQuotes collapses wrapped-asset symbols (e.g. "WETH") to their
// native form (e.g. "ETH") on both sides of every quote, so a DEX quote
// and a CEX quote for the same asset key into the same matrix symbol
// (SPEC_FULL.md §4.3 "Normalization").
func NormalizeQuotes(quotes []entities.Quote) []entities.Quote {
	out := make([]entities.Quote, len(quotes))
	for i, q := range quotes {
		q.Base = config.CanonicalSymbol(q.Base)
		q.Quote = config.CanonicalSymbol(q.Quote)
		out[i] = q
	}
	return out
}

// ReliableQuotes drops a Quote when it has aged past its kind's stale
// threshold, or when it reports 24h volume below the liquidity floor. A
// quote that doesn't report volume at all is not dropped on that check
// alone (SPEC_FULL.md §4.8 step 5).
func ReliableQuotes(quotes []entities.Quote, now time.Time) []entities.Quote {
	out := make([]entities.Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.IsStale(now) {
			continue
		}
		if q.Kind == entities.KindCEX && q.VolumeUSD > 0 && q.VolumeUSD < config.MinQuoteVolumeUSD {
			continue
		}
		out = append(out, q)
	}
	return out
}

// BuildOpportunities groups quotes by (base, quote) symbol, considers
// every ordered pair of distinct quotes within a symbol as a
// (buy, sell) candidate, and emits the profitable ones after the cost
// model (SPEC_FULL.md §4.8 steps 6-7). Callers still need to apply
// IsActionable/tier filtering and sort (step 8-9); BuildOpportunities
// returns every candidate that clears the raw spread sanity check.
func BuildOpportunities(quotes []entities.Quote, gasCostUSD map[config.ChainID]float64, tradeSizeUSD float64, now time.Time) []entities.Opportunity {
	bySymbol := make(map[string][]entities.Quote)
	for _, q := range quotes {
		key := q.Base + "/" + q.Quote
		bySymbol[key] = append(bySymbol[key], q)
	}

	var out []entities.Opportunity
	for symbol, group := range bySymbol {
		if len(group) < 2 {
			continue
		}
		for i := range group {
			for j := range group {
				if i == j {
					continue
				}
				if opp, ok := evaluatePair(symbol, group[i], group[j], gasCostUSD, tradeSizeUSD, now); ok {
					out = append(out, opp)
				}
			}
		}
	}
	return out
}

func evaluatePair(symbol string, buy, sell entities.Quote, gasCostUSD map[config.ChainID]float64, tradeSizeUSD float64, now time.Time) (entities.Opportunity, bool) {
	if buy.Ask <= 0 || sell.Bid <= 0 {
		return entities.Opportunity{}, false
	}

	effBuy := buy.Ask * (1 + buy.SlippageFactor())
	effSell := sell.Bid * (1 - sell.SlippageFactor())

	spread := (effSell - effBuy) / effBuy * 100
	if spread <= 0 || spread > 100 {
		return entities.Opportunity{}, false
	}

	// CEX trading fees count toward the gas cost; fees carries the
	// withdrawal fee (SPEC_FULL.md §4.8 step 7).
	gas := legGasCostUSD(buy, gasCostUSD) + legGasCostUSD(sell, gasCostUSD) +
		legTradingFeeUSD(buy, tradeSizeUSD) + legTradingFeeUSD(sell, tradeSizeUSD)
	fees := withdrawalFeeUSD(buy, sell)

	return entities.NewOpportunity(symbol, buy.Venue, effBuy, sell.Venue, effSell, tradeSizeUSD, gas, fees, now), true
}

func legGasCostUSD(q entities.Quote, gasCostUSD map[config.ChainID]float64) float64 {
	if q.Kind != entities.KindDEX {
		return 0
	}
	return EstimateSwap(gasCostUSD, q.Chain, entities.DEXType(q.Venue))
}

func legTradingFeeUSD(q entities.Quote, tradeSizeUSD float64) float64 {
	if q.Kind != entities.KindCEX {
		return 0
	}
	return tradeSizeUSD * config.CEXTradingFee
}

// withdrawalFeeUSD is nonzero only for CEX->DEX (chain withdrawal fee) and
// CEX->CEX (fixed fee); DEX-involved exits otherwise incur no modeled
// withdrawal cost here (SPEC_FULL.md §4.8 step 7).
func withdrawalFeeUSD(buy, sell entities.Quote) float64 {
	switch {
	case buy.Kind == entities.KindCEX && sell.Kind == entities.KindDEX:
		chain := sell.Chain
		return config.GetWithdrawalFeeUSD(&chain)
	case buy.Kind == entities.KindCEX && sell.Kind == entities.KindCEX:
		return config.CEXWithdrawalFeeUSD
	default:
		return 0
	}
}
