package services

import (
	"context"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
	"github.com/bimakw/arbiscan/internal/infrastructure/rpc"
)

// gasEstimateTimeout bounds the whole per-chain fan-out; a chain whose
// sample hasn't returned by then is served its static fallback instead of
// blocking the scan (SPEC_FULL.md §4.7).
const gasEstimateTimeout = 30 * time.Second

// GasService prices a representative swap on every configured chain in
// USD, combining a live gas-price sample with a native-asset USD price
// sourced from the CEX layer (with a conservative static fallback).
type GasService struct {
	pool *rpc.Pool
}

// NewGasService builds a gas estimator over the shared RPC pool.
func NewGasService(pool *rpc.Pool) *GasService {
	return &GasService{pool: pool}
}

// EstimateAll samples every configured chain concurrently, substituting
// config.GasFallbackUSD (or config.DefaultGasFallbackUSD) for any chain
// that errors or doesn't answer within gasEstimateTimeout.
func (s *GasService) EstimateAll(ctx context.Context, nativePricesUSD map[string]float64) map[config.ChainID]float64 {
	ctx, cancel := context.WithTimeout(ctx, gasEstimateTimeout)
	defer cancel()

	results := make(map[config.ChainID]float64, len(config.Chains))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for chainID, chainCfg := range config.Chains {
		wg.Add(1)
		go func(chainID config.ChainID, chainCfg config.Chain) {
			defer wg.Done()

			costUSD, err := s.estimateOne(ctx, chainID, chainCfg, nativePricesUSD)
			if err != nil {
				log.Printf("gas: chain %d sample failed, using fallback: %v", chainID, err)
				costUSD = fallbackGasUSD(chainID)
			}

			mu.Lock()
			results[chainID] = costUSD
			mu.Unlock()
		}(chainID, chainCfg)
	}

	wg.Wait()
	return results
}

func (s *GasService) estimateOne(ctx context.Context, chainID config.ChainID, chainCfg config.Chain, nativePricesUSD map[string]float64) (float64, error) {
	transport, err := s.pool.BestClient(ctx, chainID)
	if err != nil {
		return 0, err
	}

	gasPrice, err := transport.SuggestGasPrice(ctx)
	if err != nil {
		return 0, err
	}

	// Reference swap uses the pricier of the two adapter kinds' gas use;
	// callers that need the cheaper constant-product figure can rescale
	// (cost scales linearly with gas units).
	nativeCost := new(big.Float).SetInt(new(big.Int).Mul(gasPrice, big.NewInt(int64(config.GasConcentratedLiqSwap))))
	nativeUnits := new(big.Float).Quo(nativeCost, new(big.Float).SetFloat64(pow10(int(chainCfg.NativeDecimals))))

	nativePriceUSD, ok := nativePricesUSD[chainCfg.NativeToken]
	if !ok {
		nativePriceUSD = nativeFallbackUSD(chainCfg.NativeToken)
	}

	costUSD, _ := new(big.Float).Mul(nativeUnits, new(big.Float).SetFloat64(nativePriceUSD)).Float64()

	if chainCfg.IsRollup() {
		costUSD *= config.RollupGasSafetyMultiplier
	}
	return costUSD, nil
}

// EstimateSwap returns the gas cost in USD for one swap on chain, given a
// pre-sampled per-chain gas cost map from EstimateAll and the adapter kind
// (constant-product swaps use less gas than concentrated-liquidity ones).
func EstimateSwap(perChainCostUSD map[config.ChainID]float64, chain config.ChainID, dexType entities.DEXType) float64 {
	base, ok := perChainCostUSD[chain]
	if !ok {
		base = fallbackGasUSD(chain)
	}
	if dexType == entities.DEXUniswapV3 {
		return base
	}
	// estimateOne priced against the heavier concentrated-liquidity gas
	// figure; rescale down for constant-product-family adapters.
	return base * float64(config.GasConstantProductSwap) / float64(config.GasConcentratedLiqSwap)
}

func fallbackGasUSD(chain config.ChainID) float64 {
	if v, ok := config.GasFallbackUSD[chain]; ok {
		return v
	}
	return config.DefaultGasFallbackUSD
}

func nativeFallbackUSD(symbol string) float64 {
	if v, ok := config.NativeTokenFallbackUSD[symbol]; ok {
		return v
	}
	return config.DefaultNativeTokenFallbackUSD
}
