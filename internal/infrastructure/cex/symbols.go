package cex

import "strings"

// SymbolVariants returns the candidate ticker symbol spellings for a
// base/quote pair, in the order venues are tried, carried over from the
// distilled source's ws_fetcher.py symbol-variant fallback.
func SymbolVariants(base, quote string) []string {
	b := strings.ToUpper(base)
	q := strings.ToUpper(quote)

	variants := []string{
		b + q,       // BASEQUOTE, e.g. BTCUSDT (binance, bybit, mexc, ...)
		b + "-" + q, // BASE-QUOTE, e.g. BTC-USDT (coinbase, kucoin, okx, ...)
		b + "/" + q, // BASE/QUOTE
		b + "_" + q, // BASE_QUOTE
	}

	if q == "USDT" {
		variants = append(variants, b+"USD")
	}

	return variants
}
