package config

import "time"

// Global scanner settings, carried over from the distilled source's
// config/settings.py.
const (
	// MinProfitUSD is the minimum net profit (after gas and withdrawal
	// fees) an opportunity must clear to be emitted.
	MinProfitUSD = 5.0

	// DefaultTradeSizeUSD is the trade size used for profit calculations
	// and for sizing DEX quote amounts.
	DefaultTradeSizeUSD = 1000.0

	// MaxSlippage is the maximum slippage tolerance as a fraction.
	MaxSlippage = 0.01

	// ScanIntervalSeconds is the pause between consecutive scans in
	// RunContinuous.
	ScanIntervalSeconds = 0.5

	// RequestTimeout bounds a single outbound HTTP/RPC request.
	RequestTimeout = 10 * time.Second

	// MaxRetries is a retry bound for outbound requests. No request path
	// reads it: a REST ticker request is made once per scan, and an RPC
	// call tries each endpoint once.
	MaxRetries = 3
)

// Reliability-filter thresholds (SPEC_FULL.md §4.8 step 5).
const (
	CEXStaleThreshold       = 600 * time.Second
	DEXStaleThreshold       = 10 * time.Second
	MinQuoteVolumeUSD       = 50000.0
	MinVenuesForHarvest     = 3
	UniverseRefreshInterval = 600 * time.Second
)

// CEX slippage factors applied symmetrically to a CEX quote's bid/ask
// before spread calculation (SPEC_FULL.md §4.8 step 6).
const (
	TopTierCEXSlippage = 0.0002 // 0.02%
	DefaultCEXSlippage = 0.0005 // 0.05%
)

// CEX trading fee applied per CEX leg of a trade in the cost model
// (SPEC_FULL.md §4.8 step 7).
const CEXTradingFee = 0.001 // 0.1%

// ProfitTier is a named, color-tagged profit threshold.
type ProfitTier struct {
	Threshold float64
	Name      string
}

// ProfitTiers is the descending threshold table used to assign a tier to
// an emitted Opportunity, carried over from config/settings.py PROFIT_LEVELS.
var ProfitTiers = []ProfitTier{
	{Threshold: 50.0, Name: "CRITICAL"},
	{Threshold: 20.0, Name: "HIGH"},
	{Threshold: 5.0, Name: "MEDIUM"},
}

// ProfitTierFor returns the highest matching tier name for a net profit in
// USD, or "" if it doesn't clear even the lowest tier.
func ProfitTierFor(netProfitUSD float64) string {
	for _, t := range ProfitTiers {
		if netProfitUSD >= t.Threshold {
			return t.Name
		}
	}
	return ""
}

// Gas-estimate reference costs, carried over from gas_estimator.py's
// GAS_ESTIMATES table.
const (
	GasConstantProductSwap   uint64 = 150_000
	GasConcentratedLiqSwap   uint64 = 180_000
	GasApproval              uint64 = 50_000
	GasTransfer              uint64 = 21_000
	RollupGasSafetyMultiplier        = 1.5
)

// GasFallbackUSD is the conservative per-chain fallback used when gas-price
// sampling times out, keyed by a coarse chain class (SPEC_FULL.md §4.7).
var GasFallbackUSD = map[ChainID]float64{
	Ethereum:  25.0,
	Arbitrum:  0.50,
	Optimism:  0.50,
	Base:      0.50,
	Linea:     0.50,
	Scroll:    0.50,
	ZkSync:    0.50,
	BSC:       0.30,
	Polygon:   0.10,
	Avalanche: 0.30,
	Fantom:    0.10,
	Gnosis:    0.10,
	Cronos:    0.10,
	Moonbeam:  0.10,
	Celo:      0.10,
	Kava:      0.10,
}

// DefaultGasFallbackUSD covers a chain absent from GasFallbackUSD.
const DefaultGasFallbackUSD = 0.30
