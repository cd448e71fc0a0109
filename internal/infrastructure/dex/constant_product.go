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

// Constant-product (Uniswap V2 style) ABI function selectors, shared by
// every fork since they all implement the same factory/pair interface.
var (
	getReservesSelector = common.Hex2Bytes("0902f1ac")
	getPairSelector      = common.Hex2Bytes("e6a43905")
)

// ConstantProductClient quotes a constant-product (x*y=k) AMM on one
// chain, given that chain's factory address for the fork in question
// (Uniswap V2, PancakeSwap V2, QuickSwap, SushiSwap, ...).
type ConstantProductClient struct {
	transport *rpc.Transport
	chain     config.ChainID
	factory   common.Address
	dexType   entities.DEXType
	fee       uint64 // basis points
}

// NewConstantProductClient builds a client for one chain/fork combination.
// routerKey names the entry in that chain's config.Chain.DEXRouters table
// (e.g. "uniswap_v2", "pancakeswap_v2", "quickswap").
func NewConstantProductClient(transport *rpc.Transport, chain config.ChainID, routerKey string, dexType entities.DEXType, feeBps uint64) (*ConstantProductClient, error) {
	cfg, ok := config.GetChain(chain)
	if !ok {
		return nil, fmt.Errorf("constant product: unknown chain %d", chain)
	}
	addr, ok := cfg.DEXRouters[routerKey]
	if !ok {
		return nil, fmt.Errorf("constant product: chain %d has no router %q", chain, routerKey)
	}
	return &ConstantProductClient{
		transport: transport,
		chain:     chain,
		factory:   common.HexToAddress(addr),
		dexType:   dexType,
		fee:       feeBps,
	}, nil
}

// GetPairAddress returns the pair address for two tokens.
func (c *ConstantProductClient) GetPairAddress(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1 := sortTokens(tokenA, tokenB)

	data := make([]byte, 68)
	copy(data[0:4], getPairSelector)
	copy(data[16:36], token0.Bytes())
	copy(data[48:68], token1.Bytes())

	result, err := c.transport.CallContract(ctx, goethereum.CallMsg{
		To:   &c.factory,
		Data: data,
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("get pair address: %w", err)
	}
	if len(result) < 32 {
		return common.Address{}, fmt.Errorf("invalid response length")
	}
	return common.BytesToAddress(result[12:32]), nil
}

// GetPair fetches pair data including reserves.
func (c *ConstantProductClient) GetPair(ctx context.Context, pairAddress common.Address, token0, token1 entities.Token) (*entities.Pair, error) {
	reserves, err := c.getReserves(ctx, pairAddress)
	if err != nil {
		return nil, err
	}

	return &entities.Pair{
		Address:   pairAddress,
		Chain:     c.chain,
		Token0:    token0,
		Token1:    token1,
		Reserve0:  reserves[0],
		Reserve1:  reserves[1],
		DEX:       c.dexType,
		Fee:       c.fee,
		UpdatedAt: time.Now().Unix(),
	}, nil
}

// GetPairByTokens fetches pair data by token addresses.
func (c *ConstantProductClient) GetPairByTokens(ctx context.Context, tokenA, tokenB entities.Token) (*entities.Pair, error) {
	var token0, token1 entities.Token
	if tokenA.Address.Hex() < tokenB.Address.Hex() {
		token0, token1 = tokenA, tokenB
	} else {
		token0, token1 = tokenB, tokenA
	}

	pairAddress, err := c.GetPairAddress(ctx, token0.Address, token1.Address)
	if err != nil {
		return nil, err
	}
	if pairAddress == rpc.ZeroAddress {
		return nil, fmt.Errorf("pair does not exist")
	}

	return c.GetPair(ctx, pairAddress, token0, token1)
}

func (c *ConstantProductClient) getReserves(ctx context.Context, pairAddress common.Address) ([2]*big.Int, error) {
	result, err := c.transport.CallContract(ctx, goethereum.CallMsg{
		To:   &pairAddress,
		Data: getReservesSelector,
	})
	if err != nil {
		return [2]*big.Int{}, fmt.Errorf("get reserves: %w", err)
	}
	if len(result) < 64 {
		return [2]*big.Int{}, fmt.Errorf("invalid reserves response length")
	}

	reserve0 := new(big.Int).SetBytes(result[0:32])
	reserve1 := new(big.Int).SetBytes(result[32:64])
	return [2]*big.Int{reserve0, reserve1}, nil
}

// BatchGetReserves fetches getReserves() for many pairs in one Multicall3
// call instead of one eth_call per pair, used by the DEX Quoter's per-scan
// reserve prefetch (DexQuoter.PrefetchChainReserves) so reserve reads cost
// one request per adapter rather than one per pair (SPEC_FULL.md §4.6).
func (c *ConstantProductClient) BatchGetReserves(ctx context.Context, mc *Multicall, pairAddresses []common.Address) (map[common.Address][2]*big.Int, error) {
	calls := make([]Call, len(pairAddresses))
	for i, addr := range pairAddresses {
		calls[i] = Call{Target: addr, AllowFailure: true, CallData: getReservesSelector}
	}

	results, err := mc.Aggregate(ctx, calls)
	if err != nil {
		return nil, fmt.Errorf("batch get reserves: %w", err)
	}

	out := make(map[common.Address][2]*big.Int, len(pairAddresses))
	for i, r := range results {
		if !r.Success || len(r.ReturnData) < 64 {
			continue
		}
		out[pairAddresses[i]] = [2]*big.Int{
			new(big.Int).SetBytes(r.ReturnData[0:32]),
			new(big.Int).SetBytes(r.ReturnData[32:64]),
		}
	}
	return out, nil
}

// GetAmountOut calculates the output amount for a swap.
func (c *ConstantProductClient) GetAmountOut(ctx context.Context, amountIn *big.Int, tokenIn, tokenOut entities.Token) (*big.Int, error) {
	pair, err := c.GetPairByTokens(ctx, tokenIn, tokenOut)
	if err != nil {
		return nil, err
	}
	return pair.GetAmountOut(amountIn, tokenIn.Address), nil
}

// DEXType returns the DEX type identifier.
func (c *ConstantProductClient) DEXType() entities.DEXType {
	return c.dexType
}

// Chain returns the chain this client quotes on.
func (c *ConstantProductClient) Chain() config.ChainID {
	return c.chain
}

// sortTokens sorts two addresses in ascending order (Uniswap V2 convention).
func sortTokens(tokenA, tokenB common.Address) (common.Address, common.Address) {
	if tokenA.Big().Cmp(tokenB.Big()) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}
