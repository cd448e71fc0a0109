package dex

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
)

// Adapter is the contract every DEX quoting strategy implements: constant
// product, concentrated liquidity, stable-swap, and weighted-pool pools
// all resolve a token pair to a Pair and an output amount the same way
// (SPEC_FULL.md §4.5).
type Adapter interface {
	GetPairAddress(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error)

	GetPairByTokens(ctx context.Context, tokenA, tokenB entities.Token) (*entities.Pair, error)

	GetAmountOut(ctx context.Context, amountIn *big.Int, tokenIn, tokenOut entities.Token) (*big.Int, error)

	// DEXType returns the type of DEX this adapter quotes.
	DEXType() entities.DEXType

	// Chain returns the chain this adapter instance quotes on.
	Chain() config.ChainID
}
