package entities

import (
	"testing"
	"time"

	"github.com/bimakw/arbiscan/internal/config"
)

func TestQuoteMid(t *testing.T) {
	q := Quote{Bid: 100, Ask: 102}
	if got := q.Mid(); got != 101 {
		t.Errorf("Mid() = %v, want 101", got)
	}
}

func TestQuoteStaleThreshold(t *testing.T) {
	tests := []struct {
		name string
		kind QuoteKind
		want time.Duration
	}{
		{"cex", KindCEX, config.CEXStaleThreshold},
		{"dex", KindDEX, config.DEXStaleThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Quote{Kind: tt.kind}
			if got := q.StaleThreshold(); got != tt.want {
				t.Errorf("StaleThreshold() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuoteIsStale(t *testing.T) {
	now := time.Now()
	q := Quote{Kind: KindDEX, Timestamp: now.Add(-config.DEXStaleThreshold - time.Second)}
	if !q.IsStale(now) {
		t.Errorf("IsStale() = false, want true for a quote older than DEXStaleThreshold")
	}

	fresh := Quote{Kind: KindDEX, Timestamp: now}
	if fresh.IsStale(now) {
		t.Errorf("IsStale() = true, want false for a fresh quote")
	}
}

func TestQuoteSlippageFactor(t *testing.T) {
	dex := Quote{Kind: KindDEX}
	if got := dex.SlippageFactor(); got != 0 {
		t.Errorf("SlippageFactor() on a DEX quote = %v, want 0", got)
	}

	var topTierVenue string
	for v := range config.TopTierVenues {
		topTierVenue = v
		break
	}
	if topTierVenue == "" {
		t.Fatal("config.TopTierVenues is empty, can't exercise the top-tier branch")
	}

	topTier := Quote{Kind: KindCEX, Venue: topTierVenue}
	if got := topTier.SlippageFactor(); got != config.TopTierCEXSlippage {
		t.Errorf("SlippageFactor() for top-tier venue = %v, want %v", got, config.TopTierCEXSlippage)
	}

	other := Quote{Kind: KindCEX, Venue: "some_unlisted_venue"}
	if got := other.SlippageFactor(); got != config.DefaultCEXSlippage {
		t.Errorf("SlippageFactor() for non-top-tier venue = %v, want %v", got, config.DefaultCEXSlippage)
	}
}
