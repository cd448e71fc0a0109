// Package rpc provides a failover-aware wrapper around go-ethereum's
// ethclient, replacing a single-endpoint client with a per-chain pool that
// tracks endpoint health and routes calls away from flaky nodes.
package rpc

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/bimakw/arbiscan/internal/config"
)

// ZeroAddress is the conventional null address returned by factory
// lookups that found no pair.
var ZeroAddress = common.Address{}

// ErrNoHealthyEndpoint is returned when a chain's transport has no
// endpoint to try. When every endpoint is tried and fails, the last
// endpoint's error is returned wrapped instead.
var ErrNoHealthyEndpoint = fmt.Errorf("rpc: no healthy endpoint available")

type endpoint struct {
	url    string
	client *ethclient.Client
	health *health
}

// Transport is a failover-aware RPC client for one chain.
type Transport struct {
	chain config.ChainID

	mu        sync.RWMutex
	endpoints []*endpoint
}

// Dial connects to every URL for a chain, skipping (and logging) any that
// fail immediately. At least one successful connection is required.
func Dial(ctx context.Context, chain config.ChainID, urls []string) (*Transport, error) {
	t := &Transport{chain: chain}

	for _, u := range urls {
		dialCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
		c, err := ethclient.DialContext(dialCtx, u)
		cancel()
		if err != nil {
			log.Printf("rpc: skipping endpoint %s for chain %d: %v", u, chain, err)
			continue
		}
		t.endpoints = append(t.endpoints, &endpoint{url: u, client: c, health: &health{}})
	}

	if len(t.endpoints) == 0 {
		return nil, fmt.Errorf("rpc: no endpoint for chain %d could be dialed", chain)
	}
	return t, nil
}

// orderedEndpoints returns healthy endpoints sorted by ascending EMA
// latency, falling back to every endpoint (after resetting their failure
// counters) when none are currently healthy — the degraded-mode rule
// carried over from the distilled source's RPCManager._get_best_endpoint.
func (t *Transport) orderedEndpoints() []*endpoint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	healthy := make([]*endpoint, 0, len(t.endpoints))
	for _, e := range t.endpoints {
		if e.health.isHealthy() {
			healthy = append(healthy, e)
		}
	}

	if len(healthy) == 0 {
		log.Printf("rpc: chain %d degraded, all %d endpoints unhealthy; resetting", t.chain, len(t.endpoints))
		for _, e := range t.endpoints {
			e.health.reset()
		}
		return t.endpoints
	}

	sort.Slice(healthy, func(i, j int) bool {
		return healthy[i].health.latencyMs() < healthy[j].health.latencyMs()
	})
	return healthy
}

// call runs fn against each ordered endpoint in turn until one succeeds,
// recording success/failure against that endpoint's health tracker.
func (t *Transport) call(ctx context.Context, fn func(*ethclient.Client) error) error {
	endpoints := t.orderedEndpoints()

	var lastErr error
	for _, e := range endpoints {
		start := time.Now()
		err := fn(e.client)
		if err == nil {
			e.health.recordSuccess(time.Since(start))
			return nil
		}
		e.health.recordFailure()
		lastErr = err
	}

	if lastErr == nil {
		return ErrNoHealthyEndpoint
	}
	return fmt.Errorf("rpc: all endpoints failed for chain %d: %w", t.chain, lastErr)
}

// CallContract performs an eth_call against the first endpoint to succeed.
func (t *Transport) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	var result []byte
	err := t.call(ctx, func(c *ethclient.Client) error {
		callCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
		defer cancel()
		res, err := c.CallContract(callCtx, msg, nil)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BlockNumber returns the current block height.
func (t *Transport) BlockNumber(ctx context.Context) (uint64, error) {
	var n uint64
	err := t.call(ctx, func(c *ethclient.Client) error {
		callCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
		defer cancel()
		v, err := c.BlockNumber(callCtx)
		if err != nil {
			return err
		}
		n = v
		return nil
	})
	return n, err
}

// EstimateGas estimates the gas cost of a call.
func (t *Transport) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var n uint64
	err := t.call(ctx, func(c *ethclient.Client) error {
		callCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
		defer cancel()
		v, err := c.EstimateGas(callCtx, msg)
		if err != nil {
			return err
		}
		n = v
		return nil
	})
	return n, err
}

// SuggestGasPrice returns the network's suggested gas price.
func (t *Transport) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var price *big.Int
	err := t.call(ctx, func(c *ethclient.Client) error {
		callCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
		defer cancel()
		v, err := c.SuggestGasPrice(callCtx)
		if err != nil {
			return err
		}
		price = v
		return nil
	})
	return price, err
}

// Chain returns the chain this transport serves.
func (t *Transport) Chain() config.ChainID {
	return t.chain
}

// Pool owns one Transport per configured chain and is the entry point the
// rest of the scanner uses to reach a chain's RPC layer
// (SPEC_FULL.md §4.1, "BestClient(chain)").
type Pool struct {
	mu         sync.RWMutex
	transports map[config.ChainID]*Transport
}

// NewPool creates an empty pool; chains are dialed lazily on first use via
// EnsureChain so one bad chain's endpoints can't block scanner startup.
func NewPool() *Pool {
	return &Pool{transports: make(map[config.ChainID]*Transport)}
}

// EnsureChain dials a chain's configured endpoints if not already dialed.
func (p *Pool) EnsureChain(ctx context.Context, chain config.ChainID) (*Transport, error) {
	p.mu.RLock()
	t, ok := p.transports[chain]
	p.mu.RUnlock()
	if ok {
		return t, nil
	}

	cfg, ok := config.GetChain(chain)
	if !ok {
		return nil, fmt.Errorf("rpc: unknown chain %d", chain)
	}

	t, err := Dial(ctx, chain, cfg.RPCEndpoints)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.transports[chain] = t
	p.mu.Unlock()
	return t, nil
}

// BestClient returns the transport for a chain, dialing it on demand.
func (p *Pool) BestClient(ctx context.Context, chain config.ChainID) (*Transport, error) {
	return p.EnsureChain(ctx, chain)
}

// EndpointHealth summarizes one chain's endpoint pool for diagnostics.
type EndpointHealth struct {
	Healthy int `json:"healthy"`
	Total   int `json:"total"`
}

// ChainHealth reports healthy/total endpoint counts for every chain this
// pool has dialed so far, the same view orderedEndpoints uses to pick a
// client. A chain that hasn't been touched yet (EnsureChain never called)
// is absent rather than reported as unhealthy.
func (p *Pool) ChainHealth() map[config.ChainID]EndpointHealth {
	p.mu.RLock()
	transports := make([]*Transport, 0, len(p.transports))
	chains := make([]config.ChainID, 0, len(p.transports))
	for chain, t := range p.transports {
		chains = append(chains, chain)
		transports = append(transports, t)
	}
	p.mu.RUnlock()

	out := make(map[config.ChainID]EndpointHealth, len(transports))
	for i, t := range transports {
		t.mu.RLock()
		total := len(t.endpoints)
		healthy := 0
		for _, e := range t.endpoints {
			if e.health.isHealthy() {
				healthy++
			}
		}
		t.mu.RUnlock()
		out[chains[i]] = EndpointHealth{Healthy: healthy, Total: total}
	}
	return out
}
