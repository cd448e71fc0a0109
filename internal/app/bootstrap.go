// Package app wires every infrastructure and domain component into one
// running scanner, the shared construction logic both cmd/api and
// cmd/scanner build on top of.
package app

import (
	"context"
	"log"
	"os"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
	"github.com/bimakw/arbiscan/internal/domain/services"
	"github.com/bimakw/arbiscan/internal/infrastructure/cache"
	"github.com/bimakw/arbiscan/internal/infrastructure/cex"
	"github.com/bimakw/arbiscan/internal/infrastructure/dex"
	"github.com/bimakw/arbiscan/internal/infrastructure/ratelimit"
	"github.com/bimakw/arbiscan/internal/infrastructure/rpc"
)

// v3RouterKeys names the DEXRouters entries that are concentrated-liquidity
// (Uniswap V3 style) quoters rather than constant-product factories; every
// other router key on a chain is treated as constant-product.
var v3RouterKeys = map[string]bool{
	"uniswap_v3_quoter":    true,
	"pancakeswap_v3_quoter": true,
}

// constantProductFeeBps is the fee every configured constant-product fork
// charges (0.3%), the near-universal Uniswap V2 default the forks in
// config.Chains.DEXRouters all kept.
const constantProductFeeBps = 30

// App holds every long-lived component the scanner needs, assembled once
// at startup and shared by both entry points.
type App struct {
	Pool        *rpc.Pool
	Governor    *ratelimit.Governor
	Cache       cache.Cache
	Registry    *entities.TokenRegistry
	RestPoller  *cex.RestPoller
	Streamer    *cex.StreamSubscriber
	Harvester   *cex.Harvester
	DexQuoter   *services.DexQuoter
	GasService  *services.GasService
	ScanEngine  *services.ScanEngine
	Triangular  *services.TriangularService
}

// Bootstrap builds every component and wires them into an App. Every
// configured chain's RPC endpoints are dialed here, in buildAdapters
// (rpc.Pool.EnsureChain); a chain none of whose endpoints can be dialed is
// logged and gets no DEX adapters, and startup continues without it.
func Bootstrap(ctx context.Context) *App {
	pool := rpc.NewPool()
	governor := ratelimit.NewGovernorFromConfig()
	registry := entities.DefaultRegistry()
	store := newCache()

	adapters, multicalls := buildAdapters(ctx, pool, registry)
	dexQuoter := services.NewDexQuoter(adapters, store, multicalls)
	gasService := services.NewGasService(pool)

	restPoller := cex.NewRestPoller(governor)
	streamer := cex.NewStreamSubscriber()
	harvester := cex.NewHarvester(restPoller)

	pairs := defaultPairs()
	scanEngine := services.NewScanEngine(restPoller, streamer, harvester, dexQuoter, gasService, registry, pairs)

	go streamer.Run(ctx, pairs)

	return &App{
		Pool:       pool,
		Governor:   governor,
		Cache:      store,
		Registry:   registry,
		RestPoller: restPoller,
		Streamer:   streamer,
		Harvester:  harvester,
		DexQuoter:  dexQuoter,
		GasService: gasService,
		ScanEngine: scanEngine,
		Triangular: services.NewTriangularService(),
	}
}

// newCache connects to Redis if REDIS_ADDR is set, falling back to the
// in-memory cache (with a logged warning) otherwise or on connect failure.
func newCache() cache.Cache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Printf("bootstrap: REDIS_ADDR unset, using in-memory cache")
		return cache.NewInMemoryCache()
	}

	redisCache, err := cache.NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		log.Printf("bootstrap: redis unavailable (%v), falling back to in-memory cache", err)
		return cache.NewInMemoryCache()
	}
	return redisCache
}

// buildAdapters builds one DEX adapter per (chain, router) entry in
// config.Chains, classifying each router key as concentrated-liquidity or
// constant-product, plus Curve and Balancer clients on Ethereum mainnet
// only (their pool and vault addresses are built into those clients,
// not read from config.Chains), and one Multicall3
// batcher per reachable chain for the DEX Quoter's reserve prefetch
// (SPEC_FULL.md §4.6). A chain that can't be dialed is skipped with a log
// line rather than failing startup.
func buildAdapters(ctx context.Context, pool *rpc.Pool, registry *entities.TokenRegistry) ([]dex.Adapter, map[config.ChainID]*dex.Multicall) {
	var adapters []dex.Adapter
	multicalls := make(map[config.ChainID]*dex.Multicall)

	for chainID, chainCfg := range config.Chains {
		transport, err := pool.EnsureChain(ctx, chainID)
		if err != nil {
			log.Printf("bootstrap: chain %s unreachable, no adapters built: %v", chainCfg.Name, err)
			continue
		}
		multicalls[chainID] = dex.NewMulticall(transport, nil)

		for routerKey := range chainCfg.DEXRouters {
			if v3RouterKeys[routerKey] {
				client, err := dex.NewConcentratedLiquidityClient(transport, chainID, routerKey, "", entities.DEXUniswapV3)
				if err != nil {
					log.Printf("bootstrap: %s/%s: %v", chainCfg.Name, routerKey, err)
					continue
				}
				adapters = append(adapters, client)
				continue
			}

			client, err := dex.NewConstantProductClient(transport, chainID, routerKey, entities.DEXType(routerKey), constantProductFeeBps)
			if err != nil {
				log.Printf("bootstrap: %s/%s: %v", chainCfg.Name, routerKey, err)
				continue
			}
			adapters = append(adapters, client)
		}

		if chainID == config.Ethereum {
			adapters = append(adapters, dex.NewCurveClient(transport, chainID))
			adapters = append(adapters, dex.NewBalancerClient(transport, chainID))
		}
	}

	log.Printf("bootstrap: built %d DEX adapters across %d registered tokens", len(adapters), registry.Count())
	return adapters, multicalls
}

// defaultPairs builds the static scan universe: every non-stablecoin
// canonical symbol in config.DefaultTokens quoted against USDT and USDC,
// the pair list the Harvester's discoveries are unioned with on top of
// (SPEC_FULL.md §4.8 step 1).
func defaultPairs() []cex.PairSpec {
	stables := map[string]bool{"USDT": true, "USDC": true, "DAI": true}

	var pairs []cex.PairSpec
	seen := make(map[string]bool)
	for _, t := range config.DefaultTokens {
		base := config.CanonicalSymbol(t.Symbol)
		if stables[base] {
			continue
		}
		for _, quote := range []string{"USDT", "USDC"} {
			key := base + "/" + quote
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, cex.PairSpec{Base: base, Quote: quote})
		}
	}
	return pairs
}
