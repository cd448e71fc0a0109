package config

// WithdrawalFeesUSD are conservative estimated withdrawal fees per chain,
// carried over from the distilled source's config/fees.py WITHDRAWAL_FEES_USD.
var WithdrawalFeesUSD = map[ChainID]float64{
	Ethereum:  15.0,
	BSC:       1.0,
	Polygon:   0.5,
	Arbitrum:  1.0,
	Optimism:  1.0,
	Avalanche: 0.5,
	Fantom:    0.5,
	Base:      0.5,
	ZkSync:    1.0,
	Linea:     1.0,
	Scroll:    1.0,
	Gnosis:    0.1,
	Cronos:    0.5,
	Moonbeam:  0.5,
	Celo:      0.1,
	Kava:      0.2,
}

// DefaultWithdrawalFeeUSD is used for a chain absent from the table above.
const DefaultWithdrawalFeeUSD = 5.0

// CEXWithdrawalFeeUSD is the fixed withdrawal fee assumed for a CEX->CEX
// opportunity leg, per SPEC_FULL.md §4.8 step 7.
const CEXWithdrawalFeeUSD = 5.0

// GetWithdrawalFeeUSD returns the estimated withdrawal fee for a chain.
// A nil chain (no on-chain leg) costs nothing here; the caller applies
// CEXWithdrawalFeeUSD separately for the CEX->CEX case.
func GetWithdrawalFeeUSD(chain *ChainID) float64 {
	if chain == nil {
		return 0.0
	}
	if fee, ok := WithdrawalFeesUSD[*chain]; ok {
		return fee
	}
	return DefaultWithdrawalFeeUSD
}

// NativeTokenFallbackUSD are conservative static fallback prices used when
// the CEX layer cannot supply a native-asset USD price (gas_estimator.py's
// _fetch_native_price fallback table).
var NativeTokenFallbackUSD = map[string]float64{
	"ETH":  3000.0,
	"BNB":  500.0,
	"MATIC": 0.80,
	"AVAX": 40.0,
	"FTM":  0.50,
	"ARB":  1.20,
	"OP":   3.00,
	"CRO":  0.15,
	"GLMR": 0.40,
	"CELO": 0.80,
	"KAVA": 0.70,
	"xDAI": 1.0,
}

// DefaultNativeTokenFallbackUSD is used for a native symbol absent above.
const DefaultNativeTokenFallbackUSD = 40.0
