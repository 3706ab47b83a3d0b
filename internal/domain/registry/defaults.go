package registry

import "github.com/wearedood/BaseEcosystemTools/internal/domain/entity"

// Canonical protocol names used by the default configuration. Lookups by name
// are case-insensitive, so these are also the binding keys.
const (
	ProtocolUniswapV3Router  = "uniswap-v3-router"
	ProtocolUniswapV3Factory = "uniswap-v3-factory"
	ProtocolUniswapV3Quoter  = "uniswap-v3-quoter"
	ProtocolAerodromeRouter  = "aerodrome-router"
	ProtocolAaveV3Pool       = "aave-v3-pool"
	ProtocolAaveRewards      = "aave-rewards-controller"
	ProtocolAerodromeGauge   = "aerodrome-gauge-weth-usdc"
	ProtocolStandardBridge   = "l2-standard-bridge"
)

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	BaseMainnet = entity.NetworkConfig{
		ChainID:            8453,
		Name:               "Base Mainnet",
		Identifier:         "base",
		NativeSymbol:       "ETH",
		NativeDecimals:     18,
		PrimaryRPCURL:      "https://mainnet.base.org",
		FallbackRPCURLs:    []string{"https://base.publicnode.com", "https://1rpc.io/base"},
		ExplorerURL:        "https://basescan.org",
		LlamaChainSlug:     "base",
		MulticallAddress:   "0xcA11bde05977b3631167028862bE2a173976CA11", // Multicall3, same address on every chain
		WrappedNativeToken: "0x4200000000000000000000000000000000000006", // WETH predeploy
	}
	BaseSepolia = entity.NetworkConfig{
		ChainID:            84532,
		Name:               "Base Sepolia",
		Identifier:         "base-sepolia",
		NativeSymbol:       "ETH",
		NativeDecimals:     18,
		PrimaryRPCURL:      "https://sepolia.base.org",
		FallbackRPCURLs:    []string{"https://base-sepolia-rpc.publicnode.com"},
		ExplorerURL:        "https://sepolia.basescan.org",
		MulticallAddress:   "0xcA11bde05977b3631167028862bE2a173976CA11",
		WrappedNativeToken: "0x4200000000000000000000000000000000000006",
	}
)

// baseMainnetTokens is the default tracked-token set on Base mainnet.
var baseMainnetTokens = []entity.TokenDescriptor{
	{Address: "0x4200000000000000000000000000000000000006", Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18},
	{Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Name: "USD Coin", Symbol: "USDC", Decimals: 6},
	{Address: "0xd9aAEc86B65D86f6A7B5B1b0c42FFA531710b6CA", Name: "USD Base Coin", Symbol: "USDbC", Decimals: 6},
	{Address: "0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb", Name: "Dai Stablecoin", Symbol: "DAI", Decimals: 18},
	{Address: "0x2Ae3F1Ec7F1F5012CFEab0185bfc7aa3cf0DEc22", Name: "Coinbase Wrapped Staked ETH", Symbol: "cbETH", Decimals: 18},
	{Address: "0x940181a94A35A4569E4529A3CDfB74e38FD98631", Name: "Aerodrome", Symbol: "AERO", Decimals: 18},
}

var baseSepoliaTokens = []entity.TokenDescriptor{
	{Address: "0x4200000000000000000000000000000000000006", Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18},
	{Address: "0x036CbD53842c5426634e7929541eC2318f3dCF7e", Name: "USD Coin", Symbol: "USDC", Decimals: 6},
}

// baseMainnetProtocols lists the protocol deployments served out of the box.
// The gauge entry targets the WETH/USDC volatile pool gauge; gauges are
// per-pool contracts, so deployments tracking a different pool override it in
// their own configuration.
var baseMainnetProtocols = []entity.ProtocolDescriptor{
	{Name: ProtocolUniswapV3Router, Address: "0x2626664c2603336E57B271c5C0b26F421741e481", Category: entity.CategoryExchange, LlamaSlug: "uniswap-v3"},
	{Name: ProtocolUniswapV3Factory, Address: "0x33128a8fC17869897dcE68Ed026d694621f6FDfD", Category: entity.CategoryExchange, LlamaSlug: "uniswap-v3"},
	{Name: ProtocolUniswapV3Quoter, Address: "0x3d4e44Eb1374240CE5F1B871ab261CD16335B76a", Category: entity.CategoryExchange, LlamaSlug: "uniswap-v3"},
	{Name: ProtocolAerodromeRouter, Address: "0xcF77a3Ba9A5CA399B7c97c74d54e5b1Beb874E43", Category: entity.CategoryExchange, LlamaSlug: "aerodrome"},
	{Name: ProtocolAaveV3Pool, Address: "0xA238Dd80C259a72e81d7e4664a9801593F98d1c5", Category: entity.CategoryLending, LlamaSlug: "aave-v3"},
	{Name: ProtocolAaveRewards, Address: "0xf9cc4F0D883F1a1eb2c253bdb46c254Ca51E1F44", Category: entity.CategoryYield, LlamaSlug: "aave-v3"},
	{Name: ProtocolAerodromeGauge, Address: "0x519BBD1Dd8C6A94C46080E24f316c14Ee758C025", Category: entity.CategoryYield, LlamaSlug: "aerodrome"},
	{Name: ProtocolStandardBridge, Address: "0x4200000000000000000000000000000000000010", Category: entity.CategoryBridge},
}

// The testnet table carries only the bridge predeploy. Swap, lending and
// yield kinds are left unbound there: resolving them yields
// UnsupportedProtocolError instead of pointing at contracts that do not exist.
var baseSepoliaProtocols = []entity.ProtocolDescriptor{
	{Name: ProtocolStandardBridge, Address: "0x4200000000000000000000000000000000000010", Category: entity.CategoryBridge},
}

// DefaultConfig returns the Base mainnet and Base Sepolia address book.
// Callers extend or replace it before constructing the Registry.
func DefaultConfig() Config {
	return Config{
		Chains: []ChainConfig{
			{
				Network:   BaseMainnet,
				Tokens:    baseMainnetTokens,
				Protocols: baseMainnetProtocols,
				Bindings: map[entity.OperationKind]string{
					entity.OpSwapExactIn:     ProtocolUniswapV3Router,
					entity.OpAddLiquidity:    ProtocolAerodromeRouter,
					entity.OpRemoveLiquidity: ProtocolAerodromeRouter,
					entity.OpSupply:          ProtocolAaveV3Pool,
					entity.OpWithdraw:        ProtocolAaveV3Pool,
					entity.OpBorrow:          ProtocolAaveV3Pool,
					entity.OpRepay:           ProtocolAaveV3Pool,
					entity.OpStake:           ProtocolAerodromeGauge,
					entity.OpClaimRewards:    ProtocolAaveRewards,
					entity.OpBridge:          ProtocolStandardBridge,
					entity.OpBridgeNative:    ProtocolStandardBridge,
				},
			},
			{
				Network:   BaseSepolia,
				Tokens:    baseSepoliaTokens,
				Protocols: baseSepoliaProtocols,
				Bindings: map[entity.OperationKind]string{
					entity.OpBridge:       ProtocolStandardBridge,
					entity.OpBridgeNative: ProtocolStandardBridge,
				},
			},
		},
	}
}
