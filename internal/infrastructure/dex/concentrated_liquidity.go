package dex

import (
	"context"
	"fmt"
	"math/big"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
	"github.com/bimakw/arbiscan/internal/infrastructure/rpc"
)

// V3FeeTiers are the concentrated-liquidity fee tiers probed when quoting,
// in hundredths of a bip (1 = 0.0001%). Widened beyond the original three
// (500/3000/10000) to include the 100 (0.01%) stable-pair tier that most
// Uniswap V3 deployments also carry.
var V3FeeTiers = []uint32{100, 500, 3000, 10000}

var (
	getPoolSelector               = common.Hex2Bytes("1698ee82")
	quoteExactInputSingleSelector = common.Hex2Bytes("c6a5026a")
)

// ConcentratedLiquidityClient quotes a Uniswap V3 style (concentrated
// liquidity, per-fee-tier pool) DEX on one chain.
type ConcentratedLiquidityClient struct {
	transport *rpc.Transport
	chain     config.ChainID
	factory   common.Address // zero value if this chain has no configured factory
	quoter    common.Address
	dexType   entities.DEXType
}

// NewConcentratedLiquidityClient builds a client for one chain, reading
// its quoter address from config.Chain.DEXRouters[quoterKey]. factoryKey
// is optional ("" to skip GetPairAddress support, since quoting only needs
// the quoter); when given, it is looked up the same way.
func NewConcentratedLiquidityClient(transport *rpc.Transport, chain config.ChainID, quoterKey, factoryKey string, dexType entities.DEXType) (*ConcentratedLiquidityClient, error) {
	cfg, ok := config.GetChain(chain)
	if !ok {
		return nil, fmt.Errorf("concentrated liquidity: unknown chain %d", chain)
	}
	quoterAddr, ok := cfg.DEXRouters[quoterKey]
	if !ok {
		return nil, fmt.Errorf("concentrated liquidity: chain %d has no quoter %q", chain, quoterKey)
	}

	client := &ConcentratedLiquidityClient{
		transport: transport,
		chain:     chain,
		quoter:    common.HexToAddress(quoterAddr),
		dexType:   dexType,
	}
	if factoryKey != "" {
		if factoryAddr, ok := cfg.DEXRouters[factoryKey]; ok {
			client.factory = common.HexToAddress(factoryAddr)
		}
	}
	return client, nil
}

func (c *ConcentratedLiquidityClient) GetPairAddress(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	if c.factory == rpc.ZeroAddress {
		return common.Address{}, fmt.Errorf("concentrated liquidity: no factory configured on chain %d", c.chain)
	}
	token0, token1 := sortTokens(tokenA, tokenB)

	for _, fee := range V3FeeTiers {
		poolAddr, err := c.getPool(ctx, token0, token1, fee)
		if err != nil {
			continue
		}
		if poolAddr != rpc.ZeroAddress {
			return poolAddr, nil
		}
	}
	return common.Address{}, fmt.Errorf("no pool found for token pair")
}

func (c *ConcentratedLiquidityClient) getPool(ctx context.Context, token0, token1 common.Address, fee uint32) (common.Address, error) {
	data := make([]byte, 100)
	copy(data[0:4], getPoolSelector)
	copy(data[16:36], token0.Bytes())
	copy(data[48:68], token1.Bytes())
	feeBytes := big.NewInt(int64(fee)).Bytes()
	copy(data[100-len(feeBytes):100], feeBytes)

	result, err := c.transport.CallContract(ctx, goethereum.CallMsg{
		To:   &c.factory,
		Data: data,
	})
	if err != nil {
		return common.Address{}, err
	}
	if len(result) < 32 {
		return common.Address{}, fmt.Errorf("invalid response length")
	}
	return common.BytesToAddress(result[12:32]), nil
}

// GetPairByTokens returns a synthetic Pair for the first fee tier, in
// V3FeeTiers order, that has a deployed pool. V3 pools have no reserves; Reserve0/1 are left zero and the
// Fee field carries the chosen tier so downstream fee-bps math still works.
func (c *ConcentratedLiquidityClient) GetPairByTokens(ctx context.Context, tokenA, tokenB entities.Token) (*entities.Pair, error) {
	token0, token1 := tokenA, tokenB
	if tokenA.Address.Hex() > tokenB.Address.Hex() {
		token0, token1 = tokenB, tokenA
	}

	var bestPool common.Address
	var bestFee uint32
	for _, fee := range V3FeeTiers {
		poolAddr, err := c.getPool(ctx, token0.Address, token1.Address, fee)
		if err != nil || poolAddr == rpc.ZeroAddress {
			continue
		}
		bestPool = poolAddr
		bestFee = fee
		break
	}

	if bestPool == rpc.ZeroAddress {
		return nil, fmt.Errorf("no pool found for token pair")
	}

	return &entities.Pair{
		Address:   bestPool,
		Chain:     c.chain,
		Token0:    token0,
		Token1:    token1,
		Reserve0:  big.NewInt(0),
		Reserve1:  big.NewInt(0),
		DEX:       c.dexType,
		Fee:       uint64(bestFee) / 100, // hundredths-of-a-bip -> bps
		UpdatedAt: time.Now().Unix(),
	}, nil
}

// GetAmountOut tries every fee tier's pool and returns the best output.
func (c *ConcentratedLiquidityClient) GetAmountOut(ctx context.Context, amountIn *big.Int, tokenIn, tokenOut entities.Token) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return big.NewInt(0), nil
	}

	var best *big.Int
	for _, fee := range V3FeeTiers {
		out, err := c.quoteExactInputSingle(ctx, tokenIn.Address, tokenOut.Address, amountIn, fee)
		if err != nil {
			continue
		}
		if best == nil || out.Cmp(best) > 0 {
			best = out
		}
	}

	if best == nil {
		return nil, fmt.Errorf("failed to get quote from any pool")
	}
	return best, nil
}

// quoteExactInputSingle calls QuoterV2.quoteExactInputSingle with the
// struct params (tokenIn, tokenOut, amountIn, fee, sqrtPriceLimitX96),
// each ABI-packed into its own 32-byte slot.
func (c *ConcentratedLiquidityClient) quoteExactInputSingle(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, fee uint32) (*big.Int, error) {
	data := make([]byte, 4+32*5)
	copy(data[0:4], quoteExactInputSingleSelector)
	copy(data[4+12:4+32], tokenIn.Bytes())
	copy(data[36+12:36+32], tokenOut.Bytes())

	amountInBytes := amountIn.Bytes()
	copy(data[68+32-len(amountInBytes):68+32], amountInBytes)

	feeBytes := big.NewInt(int64(fee)).Bytes()
	copy(data[100+32-len(feeBytes):100+32], feeBytes)
	// sqrtPriceLimitX96 at offset 132 left zero (no limit)

	result, err := c.transport.CallContract(ctx, goethereum.CallMsg{
		To:   &c.quoter,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("quoter call: %w", err)
	}
	if len(result) < 32 {
		return nil, fmt.Errorf("invalid quoter response length: %d", len(result))
	}
	return new(big.Int).SetBytes(result[0:32]), nil
}

// DEXType returns the DEX type identifier.
func (c *ConcentratedLiquidityClient) DEXType() entities.DEXType {
	return c.dexType
}

// Chain returns the chain this client quotes on.
func (c *ConcentratedLiquidityClient) Chain() config.ChainID {
	return c.chain
}
