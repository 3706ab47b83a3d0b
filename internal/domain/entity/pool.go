package entity

import "math/big"

// PoolInfo is the state of a concentrated-liquidity pool at read time.
// Token0/Token1 echo the token order of the request, not the pool's internal
// ordering; PoolAddress is the resolved deployment for the pair and fee tier.
type PoolInfo struct {
	Token0       string   `json:"token0"`
	Token1       string   `json:"token1"`
	FeeTier      uint32   `json:"feeTier"`
	PoolAddress  string   `json:"poolAddress"`
	Liquidity    *big.Int `json:"-"`
	SqrtPriceX96 *big.Int `json:"-"`
	Tick         int32    `json:"tick"`
}

// QuoteResult is the simulated outcome of an exact-input swap.
type QuoteResult struct {
	AmountOut   string `json:"amountOut"` // smallest-unit integer string
	GasEstimate uint64 `json:"gasEstimate"`
}
