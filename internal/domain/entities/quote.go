package entities

import (
	"time"

	"github.com/bimakw/arbiscan/internal/config"
)

// QuoteKind tags which side of the market a Quote came from, since CEX and
// DEX quotes carry different reliability and staleness rules (SPEC_FULL.md
// §4.8 step 5).
type QuoteKind string

const (
	KindCEX QuoteKind = "cex"
	KindDEX QuoteKind = "dex"
)

// Quote is a single venue's view of one trading pair's price, normalized
// to a common shape so the Scan Engine can build a price matrix out of
// CEX tickers and DEX pool state interchangeably.
type Quote struct {
	Kind QuoteKind

	// Base/Quote are the hub symbols this quote prices, e.g. base=WETH,
	// quote=USDC means the quote expresses WETH in terms of USDC.
	Base  string
	Quote string

	// Venue is the CEX venue id (KindCEX) or the DEX adapter identifier,
	// e.g. "uniswap_v3" (KindDEX).
	Venue string

	// Chain is set only for KindDEX; a CEX quote has no chain.
	Chain   config.ChainID
	IsChain bool

	Bid float64
	Ask float64

	// VolumeUSD is the trailing 24h volume reported by the venue, used by
	// the reliability filter to discard thin markets (KindCEX only).
	VolumeUSD float64

	Timestamp time.Time
}

// Mid returns the mid-market price between bid and ask.
func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

// Age reports how long ago this quote was observed.
func (q Quote) Age(now time.Time) time.Duration {
	return now.Sub(q.Timestamp)
}

// StaleThreshold returns the maximum age this quote is trusted for before
// the reliability filter drops it, per kind (SPEC_FULL.md §4.8 step 5).
func (q Quote) StaleThreshold() time.Duration {
	if q.Kind == KindDEX {
		return config.DEXStaleThreshold
	}
	return config.CEXStaleThreshold
}

// IsStale reports whether this quote has aged past its kind's threshold.
func (q Quote) IsStale(now time.Time) bool {
	return q.Age(now) > q.StaleThreshold()
}

// SlippageFactor returns the symmetric slippage applied to this quote's
// bid/ask before spread calculation. Only meaningful for KindCEX quotes;
// DEX quotes already carry price impact in the amount-out computation
// itself, so applying this again would double-count it (Open Question i,
// resolved: no double count — see SPEC_FULL.md §9).
func (q Quote) SlippageFactor() float64 {
	if q.Kind != KindCEX {
		return 0
	}
	if config.TopTierVenues[q.Venue] {
		return config.TopTierCEXSlippage
	}
	return config.DefaultCEXSlippage
}
