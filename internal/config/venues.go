package config

// Venue is the static configuration of one centralized exchange monitored
// by the CEX REST Poller / Stream Subscriber.
type Venue struct {
	ID              string // lowercase venue identifier, e.g. "binance"
	Name            string
	RateLimitPerSec float64
}

// Venues is the static table of monitored CEX venues, carried over from
// the distilled source's config/exchanges.py EXCHANGES list.
var Venues = []Venue{
	// Tier 1 - Major Exchanges
	{ID: "binance", Name: "Binance", RateLimitPerSec: 20.0},
	{ID: "coinbase", Name: "Coinbase", RateLimitPerSec: 10.0},
	{ID: "kraken", Name: "Kraken", RateLimitPerSec: 1.0},
	{ID: "kucoin", Name: "KuCoin", RateLimitPerSec: 10.0},
	{ID: "bybit", Name: "Bybit", RateLimitPerSec: 2.0},
	{ID: "okx", Name: "OKX", RateLimitPerSec: 10.0},
	{ID: "gateio", Name: "Gate.io", RateLimitPerSec: 15.0},
	{ID: "htx", Name: "HTX (Huobi)", RateLimitPerSec: 10.0},

	// Tier 2 - Large Exchanges
	{ID: "mexc", Name: "MEXC", RateLimitPerSec: 20.0},
	{ID: "bitget", Name: "Bitget", RateLimitPerSec: 20.0},
	{ID: "bitfinex", Name: "Bitfinex", RateLimitPerSec: 1.5},
	{ID: "bitstamp", Name: "Bitstamp", RateLimitPerSec: 1.0},
	{ID: "gemini", Name: "Gemini", RateLimitPerSec: 1.0},
	{ID: "cryptocom", Name: "Crypto.com", RateLimitPerSec: 5.0},
	{ID: "bingx", Name: "BingX", RateLimitPerSec: 10.0},

	// Tier 3 - Medium Exchanges
	{ID: "bitmart", Name: "BitMart", RateLimitPerSec: 5.0},
	{ID: "lbank", Name: "LBank", RateLimitPerSec: 10.0},
	{ID: "phemex", Name: "Phemex", RateLimitPerSec: 5.0},
	{ID: "whitebit", Name: "WhiteBit", RateLimitPerSec: 10.0},
	{ID: "coinex", Name: "CoinEx", RateLimitPerSec: 10.0},
	{ID: "exmo", Name: "EXMO", RateLimitPerSec: 2.0},
	{ID: "poloniex", Name: "Poloniex", RateLimitPerSec: 6.0},

	// Tier 4 - Smaller/Regional Exchanges
	{ID: "upbit", Name: "Upbit", RateLimitPerSec: 5.0},
	{ID: "woo", Name: "WOO X", RateLimitPerSec: 10.0},
	{ID: "ascendex", Name: "AscendEX", RateLimitPerSec: 5.0},
	{ID: "digifinex", Name: "DigiFinex", RateLimitPerSec: 5.0},
	{ID: "probit", Name: "ProBit", RateLimitPerSec: 5.0},
	{ID: "xt", Name: "XT.com", RateLimitPerSec: 10.0},
}

// StreamVenues are the top-tier venues with reliable public WebSocket
// ticker streams, watched by the CEX Stream Subscriber (SPEC_FULL.md §4.4).
// Carried over from the distilled source's ws_fetcher.py WS_SUPPORTED list.
var StreamVenues = []string{
	"binance", "bybit", "okx", "gateio", "kucoin",
	"mexc", "kraken", "whitebit", "bitget", "htx",
	"phemex", "bitmart", "lbank",
}

// TopTierVenues receive the tighter 0.02% CEX slippage factor in the cost
// model (SPEC_FULL.md §4.8 step 6); all others receive the 0.05% default.
var TopTierVenues = map[string]bool{
	"binance":  true,
	"coinbase": true,
}

// GetVenue looks up a venue by id.
func GetVenue(id string) (Venue, bool) {
	for _, v := range Venues {
		if v.ID == id {
			return v, true
		}
	}
	return Venue{}, false
}

// IsStreamed reports whether a venue is served by the Stream Subscriber,
// in which case the REST Poller must exclude it to avoid duplicate work.
func IsStreamed(venueID string) bool {
	for _, v := range StreamVenues {
		if v == venueID {
			return true
		}
	}
	return false
}
