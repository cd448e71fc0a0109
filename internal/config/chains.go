package config

// ChainID identifies a supported EVM chain.
type ChainID uint64

const (
	Ethereum  ChainID = 1
	BSC       ChainID = 56
	Polygon   ChainID = 137
	Arbitrum  ChainID = 42161
	Optimism  ChainID = 10
	Avalanche ChainID = 43114
	Fantom    ChainID = 250
	Base      ChainID = 8453
	ZkSync    ChainID = 324
	Linea     ChainID = 59144
	Scroll    ChainID = 534352
	Gnosis    ChainID = 100
	Cronos    ChainID = 25
	Moonbeam  ChainID = 1284
	Celo      ChainID = 42220
	Kava      ChainID = 2222
)

// Chain is the static configuration of one supported blockchain.
type Chain struct {
	ID             ChainID
	Name           string
	NativeToken    string
	NativeDecimals uint8
	RPCEndpoints   []string
	AvgBlockTime   float64 // seconds

	// DEXRouters maps an adapter kind identifier (e.g. "uniswap_v2",
	// "uniswap_v3_quoter", "curve") to the router/quoter address on this chain.
	DEXRouters map[string]string
}

// IsRollup reports whether this chain's transaction cost has a distinct
// L1 data-availability component, warranting the gas estimator's safety
// multiplier (SPEC_FULL.md §4.7).
func (c Chain) IsRollup() bool {
	switch c.ID {
	case Arbitrum, Optimism, Base, Linea, Scroll, ZkSync:
		return true
	default:
		return false
	}
}

// Chains is the static table of all supported chains, carried over from
// the distilled source's config/chains.py CHAINS dict.
var Chains = map[ChainID]Chain{
	Ethereum: {
		ID: Ethereum, Name: "Ethereum", NativeToken: "ETH", NativeDecimals: 18,
		AvgBlockTime: 12.0,
		RPCEndpoints: []string{
			"https://eth.llamarpc.com",
			"https://rpc.ankr.com/eth",
			"https://ethereum.publicnode.com",
			"https://1rpc.io/eth",
			"https://cloudflare-eth.com",
			"https://eth.drpc.org",
		},
		DEXRouters: map[string]string{
			"uniswap_v2":        "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
			"uniswap_v3_quoter": "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
			"sushiswap":         "0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F",
			"curve":             "0x99a58482BD75cbab83b27EC03CA68fF489b5788f",
		},
	},
	BSC: {
		ID: BSC, Name: "BSC", NativeToken: "BNB", NativeDecimals: 18,
		AvgBlockTime: 3.0,
		RPCEndpoints: []string{
			"https://bsc-dataseed.binance.org",
			"https://rpc.ankr.com/bsc",
			"https://bsc.publicnode.com",
			"https://bsc-dataseed1.defibit.io",
			"https://bsc-dataseed1.ninicoin.io",
			"https://bsc.drpc.org",
		},
		DEXRouters: map[string]string{
			"pancakeswap_v2":        "0x10ED43C718714eb63d5aA57B78B54704E256024E",
			"pancakeswap_v3_quoter": "0xB048Bbc1Ee6b733FFfCFb9e9CeF7375518e25997",
			"biswap":                "0x3a6d8cA21D1CF76F653A67577FA0D27453350dD8",
		},
	},
	Polygon: {
		ID: Polygon, Name: "Polygon", NativeToken: "MATIC", NativeDecimals: 18,
		AvgBlockTime: 2.0,
		RPCEndpoints: []string{
			"https://polygon-rpc.com",
			"https://rpc.ankr.com/polygon",
			"https://polygon.publicnode.com",
			"https://polygon-mainnet.public.blastapi.io",
			"https://polygon.drpc.org",
		},
		DEXRouters: map[string]string{
			"quickswap":         "0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff",
			"sushiswap":         "0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506",
			"uniswap_v3_quoter": "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
		},
	},
	Arbitrum: {
		ID: Arbitrum, Name: "Arbitrum", NativeToken: "ETH", NativeDecimals: 18,
		AvgBlockTime: 0.25,
		RPCEndpoints: []string{
			"https://arb1.arbitrum.io/rpc",
			"https://rpc.ankr.com/arbitrum",
			"https://arbitrum.publicnode.com",
			"https://arbitrum-one.public.blastapi.io",
			"https://arbitrum.drpc.org",
		},
		DEXRouters: map[string]string{
			"camelot":           "0xc873fEcbd354f5A56E00E710B90EF4201db2448d",
			"sushiswap":         "0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506",
			"uniswap_v3_quoter": "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
		},
	},
	Optimism: {
		ID: Optimism, Name: "Optimism", NativeToken: "ETH", NativeDecimals: 18,
		AvgBlockTime: 2.0,
		RPCEndpoints: []string{
			"https://mainnet.optimism.io",
			"https://rpc.ankr.com/optimism",
			"https://optimism.publicnode.com",
			"https://optimism.drpc.org",
		},
		DEXRouters: map[string]string{
			"velodrome":         "0xa062aE8A9c5e11aaA026fc2670B0D65cCc8B2858",
			"uniswap_v3_quoter": "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
		},
	},
	Avalanche: {
		ID: Avalanche, Name: "Avalanche", NativeToken: "AVAX", NativeDecimals: 18,
		AvgBlockTime: 2.0,
		RPCEndpoints: []string{
			"https://api.avax.network/ext/bc/C/rpc",
			"https://rpc.ankr.com/avalanche",
			"https://avalanche.publicnode.com",
			"https://avalanche.drpc.org",
		},
		DEXRouters: map[string]string{
			"traderjoe": "0x60aE616a2155Ee3d9A68541Ba4544862310933d4",
			"pangolin":  "0xE54Ca86531e17Ef3616d22Ca28b0D458b6C89106",
		},
	},
	Fantom: {
		ID: Fantom, Name: "Fantom", NativeToken: "FTM", NativeDecimals: 18,
		AvgBlockTime: 1.0,
		RPCEndpoints: []string{
			"https://rpc.ftm.tools",
			"https://rpc.ankr.com/fantom",
			"https://fantom.publicnode.com",
			"https://fantom.drpc.org",
		},
		DEXRouters: map[string]string{
			"spookyswap": "0xF491e7B69E4244ad4002BC14e878a34207E38c29",
			"spiritswap": "0x16327E3FbDaCA3bcF7E38F5Af2599D2DDc33aE52",
		},
	},
	Base: {
		ID: Base, Name: "Base", NativeToken: "ETH", NativeDecimals: 18,
		AvgBlockTime: 2.0,
		RPCEndpoints: []string{
			"https://mainnet.base.org",
			"https://rpc.ankr.com/base",
			"https://base.publicnode.com",
			"https://base.drpc.org",
		},
		DEXRouters: map[string]string{
			"aerodrome":         "0xcF77a3Ba9A5CA399B7c97c74d54e5b1Beb874E43",
			"baseswap":          "0x327Df1E6de05895d2ab08513aaDD9313Fe505d86",
			"uniswap_v3_quoter": "0x3d4e44Eb1374240CE5F1B871ab261CD16335B76a",
		},
	},
	ZkSync: {
		ID: ZkSync, Name: "zkSync Era", NativeToken: "ETH", NativeDecimals: 18,
		AvgBlockTime: 1.0,
		RPCEndpoints: []string{
			"https://mainnet.era.zksync.io",
			"https://rpc.ankr.com/zksync_era",
			"https://zksync-era.drpc.org",
		},
		DEXRouters: map[string]string{
			"syncswap": "0x2da10A1e27bF85cEdD8FFb1AbBe97e53391C0295",
			"mute":     "0x8B791913eB07C32779a16750e3868aA8495F5964",
		},
	},
	Linea: {
		ID: Linea, Name: "Linea", NativeToken: "ETH", NativeDecimals: 18,
		AvgBlockTime: 2.0,
		RPCEndpoints: []string{
			"https://rpc.linea.build",
			"https://linea.drpc.org",
		},
		DEXRouters: map[string]string{
			"syncswap": "0x80e38291e06339d10AAB483C65695D004dBD5C69",
		},
	},
	Scroll: {
		ID: Scroll, Name: "Scroll", NativeToken: "ETH", NativeDecimals: 18,
		AvgBlockTime: 3.0,
		RPCEndpoints: []string{
			"https://rpc.scroll.io",
			"https://scroll.drpc.org",
		},
		DEXRouters: map[string]string{
			"syncswap": "0x80e38291e06339d10AAB483C65695D004dBD5C69",
		},
	},
	Gnosis: {
		ID: Gnosis, Name: "Gnosis", NativeToken: "xDAI", NativeDecimals: 18,
		AvgBlockTime: 5.0,
		RPCEndpoints: []string{
			"https://rpc.gnosischain.com",
			"https://rpc.ankr.com/gnosis",
			"https://gnosis.drpc.org",
		},
		DEXRouters: map[string]string{
			"sushiswap": "0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506",
			"honeyswap": "0x1C232F01118CB8B424793ae03F870aa7D0ac7f77",
		},
	},
	Cronos: {
		ID: Cronos, Name: "Cronos", NativeToken: "CRO", NativeDecimals: 18,
		AvgBlockTime: 6.0,
		RPCEndpoints: []string{
			"https://evm.cronos.org",
			"https://rpc.ankr.com/cronos",
			"https://cronos.drpc.org",
		},
		DEXRouters: map[string]string{
			"vvs": "0x145863Eb42cf62847A6Ca784e6416C1682b1b2Ae",
			"mmf": "0x145677FC4d9b8F19B5D56d1820c48e0443049a30",
		},
	},
	Moonbeam: {
		ID: Moonbeam, Name: "Moonbeam", NativeToken: "GLMR", NativeDecimals: 18,
		AvgBlockTime: 12.0,
		RPCEndpoints: []string{
			"https://rpc.api.moonbeam.network",
			"https://rpc.ankr.com/moonbeam",
			"https://moonbeam.publicnode.com",
		},
		DEXRouters: map[string]string{
			"stellaswap": "0xd3b39828414594c7C0C764A85375A2d574213702",
			"beamswap":   "0x96b27695D71C1021bc789e5300B553259508BBD7",
		},
	},
	Celo: {
		ID: Celo, Name: "Celo", NativeToken: "CELO", NativeDecimals: 18,
		AvgBlockTime: 5.0,
		RPCEndpoints: []string{
			"https://forno.celo.org",
			"https://rpc.ankr.com/celo",
		},
		DEXRouters: map[string]string{
			"ubeswap": "0xE3D8bd6Aed4F159bc8000a9cD47CffDb95F96121",
		},
	},
	Kava: {
		ID: Kava, Name: "Kava", NativeToken: "KAVA", NativeDecimals: 18,
		AvgBlockTime: 6.0,
		RPCEndpoints: []string{
			"https://evm.kava.io",
			"https://rpc.ankr.com/kava_evm",
		},
		DEXRouters: map[string]string{
			"equilibre": "0xA138FAFc30f6Ec6980aAd22656F2F11888151068",
		},
	},
}

// GetChain returns the configuration for a chain, and whether it is known.
func GetChain(id ChainID) (Chain, bool) {
	c, ok := Chains[id]
	return c, ok
}
