package services

import (
	"context"
	"log"
	"math/big"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
	"github.com/bimakw/arbiscan/internal/infrastructure/cex"
)

// maxUniversePairs caps the scan universe (configured pairs plus harvested
// ones) at 500 pairs (SPEC_FULL.md §4.8 step 1). The Stream Subscriber
// applies its own, smaller per-venue cap (streamSymbolCap, 250) to the
// pairs it is started with.
const maxUniversePairs = 500

// errorBackoff is how long RunContinuous sleeps after a failed Scan
// before trying again (SPEC_FULL.md §4.8).
const errorBackoff = 5 * time.Second

// ScanEngine orchestrates one arbitrage scan: refreshing the pair
// universe, fetching CEX/DEX/gas data concurrently, merging in streamed
// quotes, refreshing approximate token prices, and running the
// reliability filter and cost model to emit Opportunities.
type ScanEngine struct {
	restPoller *cex.RestPoller
	streamer   *cex.StreamSubscriber
	harvester  *cex.Harvester
	dexQuoter  *DexQuoter
	gasService *GasService
	registry   *entities.TokenRegistry

	mu               sync.Mutex
	universe         []cex.PairSpec
	lastUniverseFill time.Time
	approxPriceUSD   map[string]float64
	lastReliable     []entities.Quote
}

// NewScanEngine wires the Scan Engine's dependencies. configuredPairs is
// the static base universe (SPEC_FULL.md's "configured pair list") that
// the harvester's discoveries are unioned with.
func NewScanEngine(restPoller *cex.RestPoller, streamer *cex.StreamSubscriber, harvester *cex.Harvester, dexQuoter *DexQuoter, gasService *GasService, registry *entities.TokenRegistry, configuredPairs []cex.PairSpec) *ScanEngine {
	approx := make(map[string]float64, len(config.DefaultTokens))
	for _, t := range config.DefaultTokens {
		approx[config.CanonicalSymbol(t.Symbol)] = t.ApproxPriceUSD
	}

	return &ScanEngine{
		restPoller:     restPoller,
		streamer:       streamer,
		harvester:      harvester,
		dexQuoter:      dexQuoter,
		gasService:     gasService,
		registry:       registry,
		universe:       configuredPairs,
		approxPriceUSD: approx,
	}
}

// Scan runs one full scan cycle and returns the detected, actionable
// opportunities sorted by descending net profit (SPEC_FULL.md §4.8).
func (e *ScanEngine) Scan(ctx context.Context) ([]entities.Opportunity, error) {
	universe := e.refreshUniverse(ctx)
	streamedVenues := streamedVenueSet()

	var restQuotes []entities.Quote
	var dexQuotes []entities.Quote
	var gasCostUSD map[config.ChainID]float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		restQuotes = e.restPoller.FetchAll(gctx, universe, streamedVenues)
		return nil
	})
	g.Go(func() error {
		dexQuotes = e.fetchDexQuotes(gctx, universe)
		return nil
	})
	g.Go(func() error {
		gasCostUSD = e.gasService.EstimateAll(gctx, e.snapshotApproxPrices())
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now()
	all := append(restQuotes, dexQuotes...)
	all = append(all, e.streamer.Snapshot()...)
	all = NormalizeQuotes(all)

	e.refreshApproxPrices(all)

	reliable := ReliableQuotes(all, now)
	e.mu.Lock()
	e.lastReliable = reliable
	e.mu.Unlock()
	opportunities := BuildOpportunities(reliable, gasCostUSD, config.DefaultTradeSizeUSD, now)

	actionable := make([]entities.Opportunity, 0, len(opportunities))
	for _, o := range opportunities {
		if o.IsActionable() {
			actionable = append(actionable, o)
		}
	}
	sort.Slice(actionable, func(i, j int) bool {
		return actionable[i].NetProfit > actionable[j].NetProfit
	})
	return actionable, nil
}

// RunContinuous runs Scan on a loop: onStart fires once per iteration
// before the scan, onTick receives the result after. A failed scan is
// logged and followed by errorBackoff before the next attempt; context
// cancellation returns cleanly (SPEC_FULL.md §4.8).
func (e *ScanEngine) RunContinuous(ctx context.Context, onStart func(), onTick func([]entities.Opportunity)) {
	interval := time.Duration(config.ScanIntervalSeconds * float64(time.Second))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if onStart != nil {
			onStart()
		}

		opportunities, err := e.Scan(ctx)
		if err != nil {
			log.Printf("scan: error: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(errorBackoff):
			}
			continue
		}

		if onTick != nil {
			onTick(opportunities)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// refreshUniverse harvests new CEX pairs at most once every
// config.UniverseRefreshInterval, unions them with the configured
// universe, and caps the result (SPEC_FULL.md §4.8 step 1).
func (e *ScanEngine) refreshUniverse(ctx context.Context) []cex.PairSpec {
	e.mu.Lock()
	needsRefresh := time.Since(e.lastUniverseFill) >= config.UniverseRefreshInterval
	current := e.universe
	e.mu.Unlock()

	if !needsRefresh || e.harvester == nil {
		return current
	}

	harvested := e.harvester.Harvest(ctx, current, maxUniversePairs)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.universe = unionPairs(e.universe, harvested, maxUniversePairs)
	e.lastUniverseFill = time.Now()
	return e.universe
}

func unionPairs(a, b []cex.PairSpec, cap int) []cex.PairSpec {
	seen := make(map[cex.PairSpec]bool, len(a)+len(b))
	out := make([]cex.PairSpec, 0, len(a)+len(b))
	for _, p := range append(append([]cex.PairSpec{}, a...), b...) {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
		if len(out) >= cap {
			break
		}
	}
	return out
}

func streamedVenueSet() map[string]bool {
	set := make(map[string]bool, len(config.StreamVenues))
	for _, v := range config.StreamVenues {
		set[v] = true
	}
	return set
}

// fetchDexQuotes asks the DEX Quoter for every universe pair resolvable
// onto a chain (both sides must have a known token address there), sized
// per SPEC_FULL.md §4.5 "Sizing". Pairs are grouped by chain first so the
// constant-product reserve prefetch (SPEC_FULL.md §4.6) can batch the
// reserve reads of every pair on that chain into one Multicall3 call per
// constant-product adapter before the per-pair Quote fan-out runs.
func (e *ScanEngine) fetchDexQuotes(ctx context.Context, universe []cex.PairSpec) []entities.Quote {
	approx := e.snapshotApproxPrices()
	tokenPairs := make(map[config.ChainID][]tokenPair)

	for _, pair := range universe {
		// Universe pairs are canonical symbols (e.g. "ETH"); the token
		// registry indexes on-chain wrapped symbols (e.g. "WETH").
		baseSymbol := config.WrappedSymbol(pair.Base)
		quoteSymbol := config.WrappedSymbol(pair.Quote)

		for _, chain := range e.registry.ChainsFor(baseSymbol) {
			base, ok := e.registry.GetBySymbol(baseSymbol, chain)
			if !ok {
				continue
			}
			quote, ok := e.registry.GetBySymbol(quoteSymbol, chain)
			if !ok {
				continue
			}
			tokenPairs[chain] = append(tokenPairs[chain], tokenPair{base: base, quote: quote})
		}
	}

	var mu sync.Mutex
	var out []entities.Quote
	var wg sync.WaitGroup

	for chain, pairs := range tokenPairs {
		prefetch := make([]TokenPair, 0, len(pairs))
		for _, p := range pairs {
			prefetch = append(prefetch, TokenPair{Base: p.base, Quote: p.quote})
		}
		e.dexQuoter.PrefetchChainReserves(ctx, chain, prefetch)

		for _, p := range pairs {
			wg.Add(1)
			go func(base, quote entities.Token) {
				defer wg.Done()
				amountIn := sizeAmountIn(base, approx[config.CanonicalSymbol(base.Symbol)])
				quotes := e.dexQuoter.Quote(ctx, base, quote, amountIn)
				mu.Lock()
				out = append(out, quotes...)
				mu.Unlock()
			}(p.base, p.quote)
		}
	}

	wg.Wait()
	return out
}

type tokenPair struct {
	base, quote entities.Token
}

// sizeAmountIn converts the default USD trade size into base-token
// smallest units. The size is floored to one whole base token, so a token
// priced above the trade size is still quoted with a nonzero amount; a
// non-positive approx price is treated as 1 USD.
func sizeAmountIn(base entities.Token, approxPriceUSD float64) *big.Int {
	if approxPriceUSD <= 0 {
		approxPriceUSD = 1
	}
	units := config.DefaultTradeSizeUSD / approxPriceUSD
	if units < 1 {
		units = 1
	}

	scaled := new(big.Float).Mul(big.NewFloat(units), big.NewFloat(pow10(int(base.Decimals))))
	amount, _ := scaled.Int(nil)
	if amount.Sign() <= 0 {
		return big.NewInt(1)
	}
	return amount
}

// LastQuotes returns the reliable quote set from the most recent Scan,
// for callers (e.g. the Triangular Strategy) that want to reuse it
// without re-fetching.
func (e *ScanEngine) LastQuotes() []entities.Quote {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]entities.Quote, len(e.lastReliable))
	copy(out, e.lastReliable)
	return out
}

func (e *ScanEngine) snapshotApproxPrices() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := make(map[string]float64, len(e.approxPriceUSD))
	for k, v := range e.approxPriceUSD {
		snap[k] = v
	}
	return snap
}

// refreshApproxPrices derives each major token's USD price from the
// averaged mid of its SYM/USDT and SYM/USDC CEX quotes this scan, feeding
// next scan's DEX trade sizing (SPEC_FULL.md §4.8 step 4).
func (e *ScanEngine) refreshApproxPrices(quotes []entities.Quote) {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, q := range quotes {
		if q.Kind != entities.KindCEX {
			continue
		}
		if q.Quote != "USDT" && q.Quote != "USDC" {
			continue
		}
		mid := q.Mid()
		if mid <= 0 {
			continue
		}
		sums[q.Base] += mid
		counts[q.Base]++
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for symbol, count := range counts {
		e.approxPriceUSD[symbol] = sums[symbol] / float64(count)
	}
}
