// Package contracts holds parsed ABIs for every contract the toolkit
// interacts with, plus the tuple argument structs required by the
// go-ethereum packer.
package contracts

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	parseOnce sync.Once

	parsedERC20           abi.ABI
	parsedSwapRouter      abi.ABI
	parsedPoolFactory     abi.ABI
	parsedUniswapPool     abi.ABI
	parsedQuoter          abi.ABI
	parsedAavePool        abi.ABI
	parsedAaveRewards     abi.ABI
	parsedAerodromeRouter abi.ABI
	parsedGauge           abi.ABI
	parsedBridge          abi.ABI
)

func parseAll() {
	parseOnce.Do(func() {
		for _, c := range []struct {
			name string
			raw  string
			dst  *abi.ABI
		}{
			{"erc20", erc20ABI, &parsedERC20},
			{"swap router", swapRouterABI, &parsedSwapRouter},
			{"pool factory", poolFactoryABI, &parsedPoolFactory},
			{"uniswap pool", uniswapPoolABI, &parsedUniswapPool},
			{"quoter", quoterABI, &parsedQuoter},
			{"aave pool", aavePoolABI, &parsedAavePool},
			{"aave rewards", aaveRewardsABI, &parsedAaveRewards},
			{"aerodrome router", aerodromeRouterABI, &parsedAerodromeRouter},
			{"gauge", gaugeABI, &parsedGauge},
			{"bridge", bridgeABI, &parsedBridge},
		} {
			parsed, err := abi.JSON(strings.NewReader(c.raw))
			if err != nil {
				// Broken at build time, not at runtime: panic is appropriate.
				panic(fmt.Sprintf("contracts: failed to parse %s ABI: %v", c.name, err))
			}
			*c.dst = parsed
		}
	})
}

// ERC20 returns the parsed minimal ERC20 ABI.
func ERC20() abi.ABI { parseAll(); return parsedERC20 }

// SwapRouter returns the parsed Uniswap v3 SwapRouter02 ABI.
func SwapRouter() abi.ABI { parseAll(); return parsedSwapRouter }

// PoolFactory returns the parsed Uniswap v3 factory ABI.
func PoolFactory() abi.ABI { parseAll(); return parsedPoolFactory }

// UniswapPool returns the parsed Uniswap v3 pool ABI.
func UniswapPool() abi.ABI { parseAll(); return parsedUniswapPool }

// Quoter returns the parsed Uniswap v3 QuoterV2 ABI.
func Quoter() abi.ABI { parseAll(); return parsedQuoter }

// AavePool returns the parsed Aave v3 pool ABI.
func AavePool() abi.ABI { parseAll(); return parsedAavePool }

// AaveRewards returns the parsed Aave v3 rewards controller ABI.
func AaveRewards() abi.ABI { parseAll(); return parsedAaveRewards }

// AerodromeRouter returns the parsed Aerodrome router ABI.
func AerodromeRouter() abi.ABI { parseAll(); return parsedAerodromeRouter }

// Gauge returns the parsed Aerodrome gauge ABI.
func Gauge() abi.ABI { parseAll(); return parsedGauge }

// Bridge returns the parsed L2StandardBridge ABI.
func Bridge() abi.ABI { parseAll(); return parsedBridge }

// ExactInputSingleParams mirrors the SwapRouter02 exactInputSingle
// tuple. Field names must stay aligned with the ABI component names
// for the packer to match them.
type ExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

// QuoteExactInputSingleParams mirrors the QuoterV2 quoteExactInputSingle
// tuple.
type QuoteExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	AmountIn          *big.Int
	Fee               *big.Int
	SqrtPriceLimitX96 *big.Int
}
