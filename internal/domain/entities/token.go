package entities

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/arbiscan/internal/config"
)

// Token is a traded asset resolved onto one specific chain.
type Token struct {
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Decimals uint8          `json:"decimals"`
	Chain    config.ChainID `json:"chain"`
}

// TokenConfig is one entry of a tokens.json override file.
type TokenConfig struct {
	Address  string         `json:"address"`
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Decimals uint8          `json:"decimals"`
	Chain    config.ChainID `json:"chain"`
}

// TokensConfig is the top-level shape of a tokens.json override file.
type TokensConfig struct {
	Tokens []TokenConfig `json:"tokens"`
}

// TokenRegistry indexes tokens by (chain, address) and by symbol, so the
// DEX Quoter can resolve a hub symbol like "WETH" to the correct contract
// address on whichever chain it is currently quoting.
type TokenRegistry struct {
	byAddress map[config.ChainID]map[common.Address]Token
	bySymbol  map[string]map[config.ChainID]Token
	all       []Token
}

// NewTokenRegistry creates an empty registry.
func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{
		byAddress: make(map[config.ChainID]map[common.Address]Token),
		bySymbol:  make(map[string]map[config.ChainID]Token),
		all:       make([]Token, 0),
	}
}

// Register adds a token to the registry.
func (r *TokenRegistry) Register(token Token) {
	if _, ok := r.byAddress[token.Chain]; !ok {
		r.byAddress[token.Chain] = make(map[common.Address]Token)
	}
	r.byAddress[token.Chain][token.Address] = token

	if _, ok := r.bySymbol[token.Symbol]; !ok {
		r.bySymbol[token.Symbol] = make(map[config.ChainID]Token)
	}
	r.bySymbol[token.Symbol][token.Chain] = token

	r.all = append(r.all, token)
}

// GetByAddress returns a token by (chain, address).
func (r *TokenRegistry) GetByAddress(chain config.ChainID, addr common.Address) (Token, bool) {
	byChain, ok := r.byAddress[chain]
	if !ok {
		return Token{}, false
	}
	t, ok := byChain[addr]
	return t, ok
}

// GetBySymbol resolves a hub symbol (e.g. "USDC") to its Token on a given
// chain. Returns false if the symbol has no known deployment on that chain.
func (r *TokenRegistry) GetBySymbol(symbol string, chain config.ChainID) (Token, bool) {
	byChain, ok := r.bySymbol[symbol]
	if !ok {
		return Token{}, false
	}
	t, ok := byChain[chain]
	return t, ok
}

// ChainsFor returns every chain symbol has a known deployment on.
func (r *TokenRegistry) ChainsFor(symbol string) []config.ChainID {
	byChain, ok := r.bySymbol[symbol]
	if !ok {
		return nil
	}
	chains := make([]config.ChainID, 0, len(byChain))
	for c := range byChain {
		chains = append(chains, c)
	}
	return chains
}

// GetAll returns every registered (token, chain) resolution.
func (r *TokenRegistry) GetAll() []Token {
	return r.all
}

// Count returns the number of registered (token, chain) resolutions.
func (r *TokenRegistry) Count() int {
	return len(r.all)
}

// LoadFromFile merges tokens from a JSON override file into the registry,
// on top of whatever DefaultRegistry already populated.
func (r *TokenRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read token config: %w", err)
	}

	var cfg TokensConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse token config: %w", err)
	}

	for _, tc := range cfg.Tokens {
		r.Register(Token{
			Address:  common.HexToAddress(tc.Address),
			Symbol:   tc.Symbol,
			Name:     tc.Name,
			Decimals: tc.Decimals,
			Chain:    tc.Chain,
		})
	}

	return nil
}

// DefaultRegistry builds a registry from config.DefaultTokens, resolving
// every per-chain address into a distinct Token entry. Use this as the
// baseline; LoadFromFile can extend it with additional deployments.
func DefaultRegistry() *TokenRegistry {
	r := NewTokenRegistry()
	for _, spec := range config.DefaultTokens {
		for chain, addr := range spec.Addresses {
			r.Register(Token{
				Address:  common.HexToAddress(addr),
				Symbol:   spec.Symbol,
				Name:     spec.Name,
				Decimals: spec.DecimalsOn(chain),
				Chain:    chain,
			})
		}
	}
	return r
}
