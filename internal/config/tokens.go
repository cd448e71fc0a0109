package config

// TokenSpec is the static, chain-independent configuration of one traded
// asset: its canonical symbol, default decimals, per-chain address
// overrides, and the approximate USD price used for DEX trade sizing.
// Grounded on the distilled source's config/tokens.py Token dataclass.
type TokenSpec struct {
	Symbol          string
	Name            string
	DefaultDecimals uint8

	// Addresses maps chain -> token contract address on that chain.
	// A chain absent from this map has no on-chain representation of the
	// token (the DEX Quoter skips pairs that need it on that chain).
	Addresses map[ChainID]string

	// DecimalOverrides covers chains whose wrapped representation differs
	// from DefaultDecimals (rare, but e.g. some bridged USDC deployments).
	DecimalOverrides map[ChainID]uint8

	// ApproxPriceUSD seeds DEX trade sizing before the first scan's
	// CEX-derived refresh (SPEC_FULL.md §4.5 Sizing / §4.8 step 4).
	ApproxPriceUSD float64
}

// DecimalsOn returns the effective decimal count for this token on chain c.
func (t TokenSpec) DecimalsOn(c ChainID) uint8 {
	if d, ok := t.DecimalOverrides[c]; ok {
		return d
	}
	return t.DefaultDecimals
}

// WrappedToNative maps an on-chain wrapped-asset symbol to the unwrapped
// symbol a CEX ticker reports, so the Scan Engine can key its price matrix
// on one canonical symbol regardless of which side supplied the quote
// (SPEC_FULL.md §4.3 "Normalization").
var WrappedToNative = map[string]string{
	"WETH":   "ETH",
	"WBTC":   "BTC",
	"WBNB":   "BNB",
	"WMATIC": "MATIC",
}

// CanonicalSymbol resolves a wrapped-asset symbol to its native form for
// matrix keying; any other symbol (including stablecoins) passes through
// unchanged.
func CanonicalSymbol(symbol string) string {
	if native, ok := WrappedToNative[symbol]; ok {
		return native
	}
	return symbol
}

// nativeToWrapped is the inverse of WrappedToNative, used to resolve a
// canonical scan-universe symbol (e.g. "ETH") back to the on-chain token
// registry's symbol (e.g. "WETH") before a DEX lookup.
var nativeToWrapped = map[string]string{
	"ETH":   "WETH",
	"BTC":   "WBTC",
	"BNB":   "WBNB",
	"MATIC": "WMATIC",
}

// WrappedSymbol resolves a canonical symbol to its on-chain wrapped form;
// a symbol with no wrapped counterpart (e.g. a stablecoin) passes through
// unchanged.
func WrappedSymbol(symbol string) string {
	if wrapped, ok := nativeToWrapped[symbol]; ok {
		return wrapped
	}
	return symbol
}

// DefaultTokens seeds the registry with the hub assets and major
// stablecoins/wrapped-natives needed across the configured chains.
// Addresses are Ethereum mainnet unless noted; other chains are added as
// the token registry is extended at runtime via config files.
var DefaultTokens = []TokenSpec{
	{
		Symbol: "WETH", Name: "Wrapped Ether", DefaultDecimals: 18,
		Addresses: map[ChainID]string{
			Ethereum: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
			Arbitrum: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1",
			Optimism: "0x4200000000000000000000000000000000000006",
			Base:     "0x4200000000000000000000000000000000000006",
		},
		ApproxPriceUSD: 3000.0,
	},
	{
		Symbol: "WBTC", Name: "Wrapped Bitcoin", DefaultDecimals: 8,
		Addresses: map[ChainID]string{
			Ethereum: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599",
		},
		ApproxPriceUSD: 65000.0,
	},
	{
		Symbol: "USDC", Name: "USD Coin", DefaultDecimals: 6,
		Addresses: map[ChainID]string{
			Ethereum: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			Arbitrum: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
			Optimism: "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85",
			Base:     "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
			Polygon:  "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359",
			BSC:      "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d",
		},
		ApproxPriceUSD: 1.0,
	},
	{
		Symbol: "USDT", Name: "Tether USD", DefaultDecimals: 6,
		Addresses: map[ChainID]string{
			Ethereum: "0xdAC17F958D2ee523a2206206994597C13D831ec7",
			Arbitrum: "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9",
			Optimism: "0x94b008aA00579c1307B0EF2c499aD98a8ce58e58",
			BSC:      "0x55d398326f99059fF775485246999027B3197955",
			Polygon:  "0xc2132D05D31c914a87C6611C10748AEb04B58e8F",
		},
		ApproxPriceUSD: 1.0,
	},
	{
		Symbol: "DAI", Name: "Dai Stablecoin", DefaultDecimals: 18,
		Addresses: map[ChainID]string{
			// The teacher's hardcoded constant for this address contained an
			// invalid hex run ("Ees"); corrected to the real mainnet DAI
			// contract here.
			Ethereum: "0x6B175474E89094C44Da98b954EedeAC495271d0F",
		},
		ApproxPriceUSD: 1.0,
	},
	{
		Symbol: "WBNB", Name: "Wrapped BNB", DefaultDecimals: 18,
		Addresses: map[ChainID]string{
			BSC: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c",
		},
		ApproxPriceUSD: 500.0,
	},
	{
		Symbol: "WMATIC", Name: "Wrapped MATIC", DefaultDecimals: 18,
		Addresses: map[ChainID]string{
			Polygon: "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270",
		},
		ApproxPriceUSD: 0.80,
	},
}
