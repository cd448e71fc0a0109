package cex

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
)

const (
	streamReconnectDelay = 5 * time.Second
	streamSymbolCap      = 250
)

// streamMessage is one parsed tick off a venue's WebSocket.
type streamMessage struct {
	symbol string
	bid    float64
	ask    float64
}

// streamConnector is the per-venue wiring: how to build the subscribe
// frame(s) for a symbol set and how to recognize a ticker tick in an
// inbound frame. Venues absent from the connectors table are registered
// in config.StreamVenues for rate-limiting/documentation purposes but are
// not dialed by this build, the same graceful-skip posture the REST
// Poller takes for venues without a bespoke fetcher.
type streamConnector struct {
	url        string
	subscribe  func(symbols []string) []any
	parse      func(raw []byte) (streamMessage, bool)
}

var streamConnectors = map[string]streamConnector{
	"binance": {
		url: "wss://stream.binance.com:9443/stream",
		subscribe: func(symbols []string) []any {
			streams := make([]string, len(symbols))
			for i, s := range symbols {
				streams[i] = strings.ToLower(s) + "@bookTicker"
			}
			return []any{map[string]any{
				"method": "SUBSCRIBE",
				"params": streams,
				"id":     1,
			}}
		},
		parse: func(raw []byte) (streamMessage, bool) {
			var env struct {
				Data struct {
					Symbol string `json:"s"`
					Bid    string `json:"b"`
					Ask    string `json:"a"`
				} `json:"data"`
			}
			if err := json.Unmarshal(raw, &env); err != nil || env.Data.Symbol == "" {
				return streamMessage{}, false
			}
			return streamMessage{symbol: env.Data.Symbol, bid: parseFloat(env.Data.Bid), ask: parseFloat(env.Data.Ask)}, true
		},
	},
	"okx": {
		url: "wss://ws.okx.com:8443/ws/v5/public",
		subscribe: func(symbols []string) []any {
			args := make([]map[string]string, len(symbols))
			for i, s := range symbols {
				args[i] = map[string]string{"channel": "tickers", "instId": s}
			}
			return []any{map[string]any{"op": "subscribe", "args": args}}
		},
		parse: func(raw []byte) (streamMessage, bool) {
			var env struct {
				Arg struct {
					Channel string `json:"channel"`
				} `json:"arg"`
				Data []struct {
					InstID string `json:"instId"`
					BidPx  string `json:"bidPx"`
					AskPx  string `json:"askPx"`
				} `json:"data"`
			}
			if err := json.Unmarshal(raw, &env); err != nil || env.Arg.Channel != "tickers" || len(env.Data) == 0 {
				return streamMessage{}, false
			}
			d := env.Data[0]
			return streamMessage{symbol: d.InstID, bid: parseFloat(d.BidPx), ask: parseFloat(d.AskPx)}, true
		},
	},
	"bybit": {
		url: "wss://stream.bybit.com/v5/public/spot",
		subscribe: func(symbols []string) []any {
			topics := make([]string, len(symbols))
			for i, s := range symbols {
				topics[i] = "tickers." + s
			}
			return []any{map[string]any{"op": "subscribe", "args": topics}}
		},
		parse: func(raw []byte) (streamMessage, bool) {
			var env struct {
				Topic string `json:"topic"`
				Data  struct {
					Symbol    string `json:"symbol"`
					Bid1Price string `json:"bid1Price"`
					Ask1Price string `json:"ask1Price"`
				} `json:"data"`
			}
			if err := json.Unmarshal(raw, &env); err != nil || !strings.HasPrefix(env.Topic, "tickers.") {
				return streamMessage{}, false
			}
			if env.Data.Bid1Price == "" || env.Data.Ask1Price == "" {
				return streamMessage{}, false
			}
			return streamMessage{symbol: env.Data.Symbol, bid: parseFloat(env.Data.Bid1Price), ask: parseFloat(env.Data.Ask1Price)}, true
		},
	},
	"kraken": {
		url: "wss://ws.kraken.com/v2",
		subscribe: func(symbols []string) []any {
			pairs := make([]string, len(symbols))
			for i, s := range symbols {
				pairs[i] = s
			}
			return []any{map[string]any{
				"method": "subscribe",
				"params": map[string]any{"channel": "ticker", "symbol": pairs},
			}}
		},
		parse: func(raw []byte) (streamMessage, bool) {
			var env struct {
				Channel string `json:"channel"`
				Data    []struct {
					Symbol string  `json:"symbol"`
					Bid    float64 `json:"bid"`
					Ask    float64 `json:"ask"`
				} `json:"data"`
			}
			if err := json.Unmarshal(raw, &env); err != nil || env.Channel != "ticker" || len(env.Data) == 0 {
				return streamMessage{}, false
			}
			d := env.Data[0]
			if d.Bid <= 0 || d.Ask <= 0 {
				return streamMessage{}, false
			}
			return streamMessage{symbol: d.Symbol, bid: d.Bid, ask: d.Ask}, true
		},
	},
}

// StreamSubscriber keeps one WebSocket per connected venue and maintains
// an in-memory last-writer-wins cache of the latest quote seen for each
// (venue, symbol), per SPEC_FULL.md §4.4.
type StreamSubscriber struct {
	mu    sync.RWMutex
	cache map[string]entities.Quote
}

// NewStreamSubscriber builds an empty subscriber; call Run to start
// connecting.
func NewStreamSubscriber() *StreamSubscriber {
	return &StreamSubscriber{cache: make(map[string]entities.Quote)}
}

// Run dials every wired venue in config.StreamVenues and blocks until ctx
// is done, reconnecting each venue on its own 5-second backoff. pairs is
// the (base, quote) universe to subscribe to; each venue's symbol set is
// capped at streamSymbolCap: when the universe exceeds the cap, the first
// streamSymbolCap pairs in the order given are subscribed.
func (s *StreamSubscriber) Run(ctx context.Context, pairs []PairSpec) {
	var wg sync.WaitGroup
	for _, venueID := range config.StreamVenues {
		connector, ok := streamConnectors[venueID]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(venueID string, connector streamConnector) {
			defer wg.Done()
			s.runVenue(ctx, venueID, connector, pairs)
		}(venueID, connector)
	}
	wg.Wait()
}

func (s *StreamSubscriber) runVenue(ctx context.Context, venueID string, connector streamConnector, pairs []PairSpec) {
	symbols := venueSymbols(venueID, pairs)
	if len(symbols) == 0 {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := s.connectOnce(ctx, venueID, connector, symbols); err != nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(streamReconnectDelay):
			}
		}
	}
}

func (s *StreamSubscriber) connectOnce(ctx context.Context, venueID string, connector streamConnector, symbols []string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, connector.url, nil)
	if err != nil {
		return fmt.Errorf("%s: dial: %w", venueID, err)
	}
	defer conn.Close()

	for _, frame := range connector.subscribe(symbols) {
		if err := conn.WriteJSON(frame); err != nil {
			return fmt.Errorf("%s: subscribe: %w", venueID, err)
		}
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("%s: read: %w", venueID, err)
		}
		msg, ok := connector.parse(raw)
		if !ok || msg.bid <= 0 || msg.ask <= 0 {
			continue
		}
		s.store(venueID, msg)
	}
}

func (s *StreamSubscriber) store(venueID string, msg streamMessage) {
	base, quote, ok := splitSymbol(msg.symbol)
	if !ok {
		return
	}
	q := entities.Quote{
		Kind:      entities.KindCEX,
		Base:      base,
		Quote:     quote,
		Venue:     venueID,
		Bid:       msg.bid,
		Ask:       msg.ask,
		Timestamp: time.Now(),
	}
	s.mu.Lock()
	s.cache[cacheKey(venueID, msg.symbol)] = q
	s.mu.Unlock()
}

// Snapshot returns every quote currently cached, read by the Scan Engine
// once per tick.
func (s *StreamSubscriber) Snapshot() []entities.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Quote, 0, len(s.cache))
	for _, q := range s.cache {
		out = append(out, q)
	}
	return out
}

func cacheKey(venueID, symbol string) string {
	return venueID + ":" + symbol
}

// venueSymbols renders the pair universe into the venue's native ticker
// spelling (first entry of SymbolVariants; BASE/QUOTE on kraken and
// BASE-QUOTE on okx), capped at streamSymbolCap.
func venueSymbols(venueID string, pairs []PairSpec) []string {
	symbols := make([]string, 0, len(pairs))
	for _, p := range pairs {
		variants := SymbolVariants(p.Base, p.Quote)
		if len(variants) == 0 {
			continue
		}
		sym := variants[0]
		if venueID == "kraken" {
			sym = p.Base + "/" + p.Quote
		} else if venueID == "okx" {
			sym = p.Base + "-" + p.Quote
		}
		symbols = append(symbols, sym)
		if len(symbols) >= streamSymbolCap {
			break
		}
	}
	return symbols
}

// splitSymbol recovers (base, quote) from a venue's wire symbol, trying
// every separator style a connector might report back.
func splitSymbol(symbol string) (string, string, bool) {
	for _, sep := range []string{"-", "/", "_"} {
		if idx := strings.Index(symbol, sep); idx > 0 {
			return symbol[:idx], symbol[idx+len(sep):], true
		}
	}
	// No separator (e.g. binance's BTCUSDT): fall back to a known quote
	// suffix list, longest first so USDT isn't mistaken for "DT".
	for _, quote := range []string{"USDT", "USDC", "BUSD", "BTC", "ETH", "USD"} {
		if strings.HasSuffix(symbol, quote) && len(symbol) > len(quote) {
			return symbol[:len(symbol)-len(quote)], quote, true
		}
	}
	return "", "", false
}
