package entity

// Operation parameter sets accepted by the intent builder. All token amounts
// are base-10 integer strings denominated in the asset's smallest unit; the
// builder rejects anything else before touching the network.

// SwapExactInParams requests an exact-input single-hop swap.
type SwapExactInParams struct {
	TokenIn      string `json:"tokenIn"`
	TokenOut     string `json:"tokenOut"`
	FeeTier      uint32 `json:"feeTier"` // pool fee in hundredths of a bip, e.g. 3000 = 0.3%
	AmountIn     string `json:"amountIn"`
	MinAmountOut string `json:"minAmountOut"`
	Recipient    string `json:"recipient"`
	Deadline     int64  `json:"deadline"` // unix seconds; must be in the future
}

// AddLiquidityParams requests a deposit into a two-sided pool.
type AddLiquidityParams struct {
	TokenA     string `json:"tokenA"`
	TokenB     string `json:"tokenB"`
	Stable     bool   `json:"stable"`
	AmountA    string `json:"amountA"`
	AmountB    string `json:"amountB"`
	MinAmountA string `json:"minAmountA"`
	MinAmountB string `json:"minAmountB"`
	Recipient  string `json:"recipient"`
	Deadline   int64  `json:"deadline"`
}

// RemoveLiquidityParams requests a withdrawal of pool liquidity.
type RemoveLiquidityParams struct {
	TokenA     string `json:"tokenA"`
	TokenB     string `json:"tokenB"`
	Stable     bool   `json:"stable"`
	Liquidity  string `json:"liquidity"`
	MinAmountA string `json:"minAmountA"`
	MinAmountB string `json:"minAmountB"`
	Recipient  string `json:"recipient"`
	Deadline   int64  `json:"deadline"`
}

// SupplyParams requests a deposit of collateral into the lending pool.
type SupplyParams struct {
	Asset      string `json:"asset"`
	Amount     string `json:"amount"`
	OnBehalfOf string `json:"onBehalfOf"`
}

// WithdrawParams requests a withdrawal of supplied collateral.
type WithdrawParams struct {
	Asset     string `json:"asset"`
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"`
}

// InterestRateMode selects the borrow rate model of the lending pool.
type InterestRateMode uint8

const (
	RateModeStable   InterestRateMode = 1
	RateModeVariable InterestRateMode = 2
)

// BorrowParams requests a borrow against supplied collateral.
type BorrowParams struct {
	Asset      string           `json:"asset"`
	Amount     string           `json:"amount"`
	RateMode   InterestRateMode `json:"rateMode"`
	OnBehalfOf string           `json:"onBehalfOf"`
}

// RepayParams requests a repayment of outstanding debt.
type RepayParams struct {
	Asset      string           `json:"asset"`
	Amount     string           `json:"amount"`
	RateMode   InterestRateMode `json:"rateMode"`
	OnBehalfOf string           `json:"onBehalfOf"`
}

// StakeParams requests a gauge deposit of LP tokens.
type StakeParams struct {
	Amount string `json:"amount"`
}

// ClaimRewardsParams requests an incentives claim for the given assets.
type ClaimRewardsParams struct {
	Assets      []string `json:"assets"`
	Amount      string   `json:"amount"` // max uint256 semantics are the caller's choice; must still be a valid integer
	Recipient   string   `json:"recipient"`
	RewardToken string   `json:"rewardToken"`
}

// BridgeParams requests an ERC-20 bridge transfer to the paired chain.
type BridgeParams struct {
	LocalToken  string `json:"localToken"`
	RemoteToken string `json:"remoteToken"`
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
	MinGasLimit uint32 `json:"minGasLimit"`
}

// BridgeNativeParams requests a native-asset bridge transfer to the paired chain.
// The amount is carried as transaction value rather than calldata.
type BridgeNativeParams struct {
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
	MinGasLimit uint32 `json:"minGasLimit"`
}
