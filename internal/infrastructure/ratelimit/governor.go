// Package ratelimit provides a per-key token bucket so every CEX venue
// and every chain's RPC pool is throttled independently, mirroring the
// distilled source's MultiRateLimiter keyed-dict of limiters.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/bimakw/arbiscan/internal/config"
)

const (
	defaultRatePerSec = 10.0
	defaultBurst      = 5

	chainRatePerSec = 25.0
	chainBurst      = 5
)

// Governor hands out per-key rate.Limiters, creating them lazily on first
// use so the caller never has to pre-register every venue/chain.
type Governor struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewGovernor creates an empty governor.
func NewGovernor() *Governor {
	return &Governor{limiters: make(map[string]*rate.Limiter)}
}

// Wait blocks until key's bucket has a token available, or ctx is done.
func (g *Governor) Wait(ctx context.Context, key string) error {
	return g.limiterFor(key).Wait(ctx)
}

// Allow reports whether key's bucket currently has a token available,
// without blocking.
func (g *Governor) Allow(key string) bool {
	return g.limiterFor(key).Allow()
}

func (g *Governor) limiterFor(key string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	if l, ok := g.limiters[key]; ok {
		return l
	}

	l := rate.NewLimiter(rate.Limit(defaultRatePerSec), defaultBurst)
	g.limiters[key] = l
	return l
}

// VenueKey namespaces a CEX venue's rate-limit key.
func VenueKey(venueID string) string {
	return "venue:" + venueID
}

// ChainKey namespaces a chain's RPC rate-limit key.
func ChainKey(chain config.ChainID) string {
	return fmt.Sprintf("chain:%d", chain)
}

// NewGovernorFromConfig builds a Governor pre-seeded with one limiter per
// configured venue (at its configured rate) and one limiter per
// configured chain (at the default chain rate).
func NewGovernorFromConfig() *Governor {
	g := NewGovernor()

	for _, v := range config.Venues {
		g.limiters[VenueKey(v.ID)] = rate.NewLimiter(rate.Limit(v.RateLimitPerSec), defaultBurst)
	}
	for chainID := range config.Chains {
		g.limiters[ChainKey(chainID)] = rate.NewLimiter(rate.Limit(chainRatePerSec), chainBurst)
	}

	return g
}

// WaitVenue blocks until the named venue's bucket admits one more call.
func (g *Governor) WaitVenue(ctx context.Context, venueID string) error {
	return g.Wait(ctx, VenueKey(venueID))
}

// WaitChain blocks until the named chain's bucket admits one more call.
func (g *Governor) WaitChain(ctx context.Context, chain config.ChainID) error {
	return g.Wait(ctx, ChainKey(chain))
}
