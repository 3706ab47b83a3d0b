package entity

import "math/big"

// LendingAccountData is an account's aggregate position in the lending pool.
// The Base amounts are denominated in the pool's base currency (8 decimals).
// LTV and LiquidationThreshold are percentages; HealthFactor is the pool's
// wad-scaled ratio converted to a float, where values at or below 1.0 mean
// the account is eligible for liquidation.
type LendingAccountData struct {
	TotalCollateralBase  *big.Int `json:"-"`
	TotalDebtBase        *big.Int `json:"-"`
	AvailableBorrowsBase *big.Int `json:"-"`
	LiquidationThreshold float64  `json:"liquidationThreshold"`
	LTV                  float64  `json:"ltv"`
	HealthFactor         float64  `json:"healthFactor"`
}
