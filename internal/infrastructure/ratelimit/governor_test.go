package ratelimit

import (
	"context"
	"testing"

	"github.com/bimakw/arbiscan/internal/config"
)

func TestGovernorAllowCreatesLimiterLazily(t *testing.T) {
	g := NewGovernor()
	if len(g.limiters) != 0 {
		t.Fatalf("NewGovernor() started with %d limiters, want 0", len(g.limiters))
	}
	if !g.Allow("some-key") {
		t.Error("Allow() on a fresh bucket = false, want true (full burst available)")
	}
	if len(g.limiters) != 1 {
		t.Errorf("Allow() did not lazily create a limiter, have %d", len(g.limiters))
	}
}

func TestGovernorAllowExhaustsBurst(t *testing.T) {
	g := NewGovernor()
	admitted := 0
	for i := 0; i < defaultBurst+1; i++ {
		if g.Allow("burst-key") {
			admitted++
		}
	}
	if admitted != defaultBurst {
		t.Errorf("admitted %d calls within the burst window, want %d", admitted, defaultBurst)
	}
}

func TestGovernorWaitVenueAndChainDistinctKeys(t *testing.T) {
	g := NewGovernor()
	ctx := context.Background()

	if err := g.WaitVenue(ctx, "binance"); err != nil {
		t.Errorf("WaitVenue() error = %v", err)
	}
	if err := g.WaitChain(ctx, config.Ethereum); err != nil {
		t.Errorf("WaitChain() error = %v", err)
	}

	if _, ok := g.limiters[VenueKey("binance")]; !ok {
		t.Error("WaitVenue() did not register a limiter under the namespaced venue key")
	}
	if _, ok := g.limiters[ChainKey(config.Ethereum)]; !ok {
		t.Error("WaitChain() did not register a limiter under the namespaced chain key")
	}
}

func TestNewGovernorFromConfigPreseedsVenuesAndChains(t *testing.T) {
	g := NewGovernorFromConfig()

	for _, v := range config.Venues {
		if _, ok := g.limiters[VenueKey(v.ID)]; !ok {
			t.Errorf("NewGovernorFromConfig() missing a pre-seeded limiter for venue %q", v.ID)
		}
	}
	for chainID := range config.Chains {
		if _, ok := g.limiters[ChainKey(chainID)]; !ok {
			t.Errorf("NewGovernorFromConfig() missing a pre-seeded limiter for chain %d", chainID)
		}
	}
}

func TestVenueKeyAndChainKeyNamespacing(t *testing.T) {
	if got := VenueKey("binance"); got != "venue:binance" {
		t.Errorf("VenueKey() = %q, want %q", got, "venue:binance")
	}
	if got := ChainKey(config.Ethereum); got != "chain:1" {
		t.Errorf("ChainKey() = %q, want %q", got, "chain:1")
	}
}
