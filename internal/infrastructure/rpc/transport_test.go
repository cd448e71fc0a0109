package rpc

import (
	"testing"
	"time"

	"github.com/bimakw/arbiscan/internal/config"
)

func TestOrderedEndpointsSortsByLatency(t *testing.T) {
	slow := &endpoint{url: "slow", health: &health{}}
	fast := &endpoint{url: "fast", health: &health{}}
	slow.health.recordSuccess(200 * time.Millisecond)
	fast.health.recordSuccess(5 * time.Millisecond)

	transport := &Transport{chain: config.Ethereum, endpoints: []*endpoint{slow, fast}}
	ordered := transport.orderedEndpoints()

	if len(ordered) != 2 {
		t.Fatalf("orderedEndpoints() len = %d, want 2", len(ordered))
	}
	if ordered[0].url != "fast" || ordered[1].url != "slow" {
		t.Errorf("orderedEndpoints() = [%s, %s], want [fast, slow]", ordered[0].url, ordered[1].url)
	}
}

func TestOrderedEndpointsExcludesUnhealthy(t *testing.T) {
	healthy := &endpoint{url: "healthy", health: &health{}}
	dead := &endpoint{url: "dead", health: &health{}}
	for i := 0; i < unhealthyFailureCount; i++ {
		dead.health.recordFailure()
	}

	transport := &Transport{chain: config.Ethereum, endpoints: []*endpoint{healthy, dead}}
	ordered := transport.orderedEndpoints()

	if len(ordered) != 1 || ordered[0].url != "healthy" {
		t.Errorf("orderedEndpoints() = %v, want only [healthy]", ordered)
	}
}

func TestOrderedEndpointsDegradesWhenAllUnhealthy(t *testing.T) {
	a := &endpoint{url: "a", health: &health{}}
	b := &endpoint{url: "b", health: &health{}}
	for _, e := range []*endpoint{a, b} {
		for i := 0; i < unhealthyFailureCount; i++ {
			e.health.recordFailure()
		}
	}

	transport := &Transport{chain: config.Ethereum, endpoints: []*endpoint{a, b}}
	ordered := transport.orderedEndpoints()

	if len(ordered) != 2 {
		t.Fatalf("orderedEndpoints() in degraded mode = %d endpoints, want 2 (all returned)", len(ordered))
	}
	if !a.health.isHealthy() || !b.health.isHealthy() {
		t.Error("orderedEndpoints() degraded path did not reset failure counters")
	}
}

func TestTransportChain(t *testing.T) {
	transport := &Transport{chain: config.Polygon}
	if got := transport.Chain(); got != config.Polygon {
		t.Errorf("Chain() = %v, want %v", got, config.Polygon)
	}
}

func TestPoolEnsureChainUnknownChain(t *testing.T) {
	p := NewPool()
	if _, err := p.EnsureChain(nil, config.ChainID(999999)); err == nil {
		t.Error("EnsureChain() on an unconfigured chain returned no error")
	}
}

func TestPoolChainHealthReportsOnlyDialedChains(t *testing.T) {
	p := NewPool()
	if got := p.ChainHealth(); len(got) != 0 {
		t.Errorf("ChainHealth() on an empty pool = %v, want empty", got)
	}
}

func TestPoolChainHealthCountsHealthyEndpoints(t *testing.T) {
	healthy := &endpoint{url: "a", health: &health{}}
	dead := &endpoint{url: "b", health: &health{}}
	for i := 0; i < unhealthyFailureCount; i++ {
		dead.health.recordFailure()
	}

	p := &Pool{transports: map[config.ChainID]*Transport{
		config.Ethereum: {chain: config.Ethereum, endpoints: []*endpoint{healthy, dead}},
	}}

	got := p.ChainHealth()
	eh, ok := got[config.Ethereum]
	if !ok {
		t.Fatal("ChainHealth() missing the dialed chain")
	}
	if eh.Healthy != 1 || eh.Total != 2 {
		t.Errorf("ChainHealth()[Ethereum] = %+v, want {Healthy:1 Total:2}", eh)
	}
}
