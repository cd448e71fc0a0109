package services

import (
	"context"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/semaphore"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
	"github.com/bimakw/arbiscan/internal/infrastructure/cache"
	"github.com/bimakw/arbiscan/internal/infrastructure/dex"
	"github.com/bimakw/arbiscan/internal/infrastructure/rpc"
)

// dexQuoterConcurrency bounds how many adapter calls run at once, matching
// the distilled source's asyncio.Semaphore-bounded fan-out for DEX calls.
const dexQuoterConcurrency = 25

// DexQuoter fans a single pair quote request out across every configured
// DEX adapter and returns one entities.Quote per adapter that answered
// (SPEC_FULL.md §4.5).
type DexQuoter struct {
	adapters   []dex.Adapter
	cache      cache.Cache
	cacheTTL   time.Duration
	sem        *semaphore.Weighted
	multicalls map[config.ChainID]*dex.Multicall
}

// NewDexQuoter builds a quoter over a set of adapters, which may span
// multiple chains and multiple adapter kinds for the same chain.
// multicalls is one Multicall batcher per chain (may be nil/empty; a
// chain absent from it just never gets prefetch-batched, falling back to
// Quote's normal per-adapter RPC path).
func NewDexQuoter(adapters []dex.Adapter, c cache.Cache, multicalls map[config.ChainID]*dex.Multicall) *DexQuoter {
	return &DexQuoter{
		adapters:   adapters,
		cache:      c,
		cacheTTL:   config.DEXStaleThreshold,
		sem:        semaphore.NewWeighted(dexQuoterConcurrency),
		multicalls: multicalls,
	}
}

// TokenPair is one base/quote resolution the Scan Engine wants quoted.
type TokenPair struct {
	Base, Quote entities.Token
}

// PrefetchChainReserves looks up each pair's address with one eth_call per
// pair, then batches the reserve reads for every constant-product adapter
// on chain through that chain's Multicall3 batcher, seeding the cache so
// the following Quote calls hit cache instead of issuing one getReserves
// eth_call per pair (SPEC_FULL.md §4.6). Concentrated-
// liquidity/Curve/Balancer adapters aren't batched this way - their
// quote functions take a specific amountIn and can't be answered from a
// cached reserve pair - so this only tightens the constant-product path,
// the one most pairs resolve through. A failure here is logged and
// swallowed; Quote's per-pair path still runs unaffected.
func (q *DexQuoter) PrefetchChainReserves(ctx context.Context, chain config.ChainID, pairs []TokenPair) {
	mc, ok := q.multicalls[chain]
	if !ok || mc == nil || q.cache == nil {
		return
	}

	for _, a := range q.adapters {
		cp, ok := a.(*dex.ConstantProductClient)
		if !ok || cp.Chain() != chain {
			continue
		}

		addrs := make([]common.Address, 0, len(pairs))
		byAddr := make(map[common.Address]TokenPair, len(pairs))
		for _, p := range pairs {
			addr, err := cp.GetPairAddress(ctx, p.Base.Address, p.Quote.Address)
			if err != nil || addr == rpc.ZeroAddress {
				continue
			}
			addrs = append(addrs, addr)
			byAddr[addr] = p
		}
		if len(addrs) == 0 {
			continue
		}

		reserves, err := cp.BatchGetReserves(ctx, mc, addrs)
		if err != nil {
			log.Printf("dex quoter: batch reserve prefetch failed on chain %d: %v", chain, err)
			continue
		}

		for addr, r := range reserves {
			p := byAddr[addr]
			token0, token1 := p.Base, p.Quote
			if token1.Address.Hex() < token0.Address.Hex() {
				token0, token1 = token1, token0
			}
			pair := &entities.Pair{
				Address:   addr,
				Chain:     chain,
				Token0:    token0,
				Token1:    token1,
				Reserve0:  r[0],
				Reserve1:  r[1],
				DEX:       cp.DEXType(),
				UpdatedAt: time.Now().Unix(),
			}
			cacheKey := cache.PairCacheKey(chain, cp.DEXType(), p.Base.Address.Hex(), p.Quote.Address.Hex())
			_ = q.cache.SetPair(ctx, cacheKey, pair, q.cacheTTL)
		}
	}
}

// Quote asks every adapter that can see tokenIn/tokenOut for a bid/ask,
// converts each answer to an entities.Quote, and returns whichever
// adapters responded. Errors from individual adapters are swallowed - a
// quiet pool is just excluded from this round, matching the reliability
// filter's treatment of a dead venue.
func (q *DexQuoter) Quote(ctx context.Context, base, quote entities.Token, amountIn *big.Int) []entities.Quote {
	results := make([]entities.Quote, 0, len(q.adapters))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, a := range q.adapters {
		if a.Chain() != base.Chain || a.Chain() != quote.Chain {
			continue
		}

		wg.Add(1)
		go func(adapter dex.Adapter) {
			defer wg.Done()

			if err := q.sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer q.sem.Release(1)

			bid, ask, err := q.quoteOne(ctx, adapter, base, quote, amountIn)
			if err != nil || bid <= 0 || ask <= 0 {
				return
			}

			mu.Lock()
			results = append(results, entities.Quote{
				Kind:      entities.KindDEX,
				Base:      base.Symbol,
				Quote:     quote.Symbol,
				Venue:     string(adapter.DEXType()),
				Chain:     adapter.Chain(),
				IsChain:   true,
				Bid:       bid,
				Ask:       ask,
				Timestamp: time.Now(),
			})
			mu.Unlock()
		}(a)
	}

	wg.Wait()
	return results
}

// quoteOne resolves one adapter's bid/ask for base/quote at amountIn.
// Constant-product pools derive an explicit spot+impact spread from their
// reserves (SPEC_FULL.md §4.5); every other adapter kind (concentrated
// liquidity, Curve, Balancer) answers through its own GetAmountOut, which
// already prices the sized trade through that pool's own curve - routing
// every adapter kind through the same x*y=k Pair formula would silently
// mis-price anything that isn't a constant-product pool.
func (q *DexQuoter) quoteOne(ctx context.Context, adapter dex.Adapter, base, quote entities.Token, amountIn *big.Int) (bid, ask float64, err error) {
	if cp, ok := adapter.(*dex.ConstantProductClient); ok {
		return q.constantProductBidAsk(ctx, cp, base, quote, amountIn)
	}

	amountOut, err := adapter.GetAmountOut(ctx, amountIn, base, quote)
	if err != nil || amountOut == nil || amountOut.Sign() <= 0 {
		return 0, 0, err
	}

	price := unitPrice(amountOut, amountIn, quote.Decimals, base.Decimals)
	return price, price, nil
}

// constantProductBidAsk derives spot from the pool's reserves (preferred
// over a 1-unit GetAmountOut, which distorts in shallow pools) and applies
// the constant-product slippage rule symmetrically around it: impact =
// amountIn/(reserveIn+amountIn), bid = spot*(1-impact), ask =
// spot*(1+impact), with the router's own fee fraction folded in the same
// way.
func (q *DexQuoter) constantProductBidAsk(ctx context.Context, cp *dex.ConstantProductClient, base, quote entities.Token, amountIn *big.Int) (bid, ask float64, err error) {
	cacheKey := cache.PairCacheKey(cp.Chain(), cp.DEXType(), base.Address.Hex(), quote.Address.Hex())

	var pair *entities.Pair
	if q.cache != nil {
		if cached, cerr := q.cache.GetPair(ctx, cacheKey); cerr == nil && cached != nil {
			pair = cached
		}
	}
	if pair == nil {
		pair, err = cp.GetPairByTokens(ctx, base, quote)
		if err != nil {
			return 0, 0, err
		}
		if q.cache != nil {
			_ = q.cache.SetPair(ctx, cacheKey, pair, q.cacheTTL)
		}
	}

	reserveIn, reserveOut := pair.Reserve0, pair.Reserve1
	if base.Address != pair.Token0.Address {
		reserveIn, reserveOut = pair.Reserve1, pair.Reserve0
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 || amountIn == nil || amountIn.Sign() <= 0 {
		return 0, 0, nil
	}

	spot := unitPrice(reserveOut, reserveIn, quote.Decimals, base.Decimals)

	impactF := new(big.Float).Quo(
		new(big.Float).SetInt(amountIn),
		new(big.Float).SetInt(new(big.Int).Add(reserveIn, amountIn)),
	)
	impact, _ := impactF.Float64()
	feeFraction := float64(pair.Fee) / 10000.0

	bid = spot * (1 - impact) * (1 - feeFraction)
	ask = spot * (1 + impact) * (1 + feeFraction)
	return bid, ask, nil
}

// unitPrice converts a raw amountOut/amountIn ratio (both in their token's
// smallest unit) into a human-scaled price of one base unit in quote units.
func unitPrice(amountOut, amountIn *big.Int, quoteDecimals, baseDecimals uint8) float64 {
	if amountIn == nil || amountIn.Sign() == 0 {
		return 0
	}

	outF := new(big.Float).SetInt(amountOut)
	inF := new(big.Float).SetInt(amountIn)

	scale := new(big.Float).SetFloat64(pow10(int(baseDecimals) - int(quoteDecimals)))
	ratio := new(big.Float).Quo(outF, inF)
	ratio.Mul(ratio, scale)

	f, _ := ratio.Float64()
	return f
}

func pow10(n int) float64 {
	result := 1.0
	if n >= 0 {
		for i := 0; i < n; i++ {
			result *= 10
		}
		return result
	}
	for i := 0; i < -n; i++ {
		result /= 10
	}
	return result
}
