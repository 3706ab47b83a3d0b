package entity

// WalletSnapshot is the aggregated view of a single wallet's holdings on one
// network, priced in USD where market data is available.
type WalletSnapshot struct {
	WalletAddress string         `json:"walletAddress"`
	ChainID       uint64         `json:"chainId"`
	Tokens        []TokenHolding `json:"tokens"`
	TotalValueUSD float64        `json:"totalValueUsd"`
}

// TokenHolding is a single asset line inside a wallet snapshot.
// Balance is the raw smallest-unit integer as a string; FormattedBalance is
// the whole-unit decimal rendering.
type TokenHolding struct {
	TokenAddress     string  `json:"tokenAddress"`
	TokenSymbol      string  `json:"tokenSymbol"`
	Decimals         uint8   `json:"decimals"`
	IsNative         bool    `json:"isNative"`
	Balance          string  `json:"balance"`
	FormattedBalance string  `json:"formattedBalance"`
	PriceUSD         float64 `json:"priceUsd"`
	ValueUSD         float64 `json:"valueUsd"`
}

// SnapshotError describes a failure for a specific wallet/token combination
// encountered while assembling snapshots. Partial results remain usable.
type SnapshotError struct {
	WalletAddress string `json:"walletAddress"`
	ChainID       uint64 `json:"chainId"`
	TokenSymbol   string `json:"tokenSymbol,omitempty"`
	TokenAddress  string `json:"tokenAddress,omitempty"`
	Message       string `json:"message"`
}

// PortfolioSnapshot is the protocol-level valuation summary produced by the
// analytics helpers: a total plus an ordered breakdown with percentage shares.
// The breakdown values always sum to TotalValueUSD.
type PortfolioSnapshot struct {
	TotalValueUSD float64          `json:"totalValueUsd"`
	Entries       []BreakdownEntry `json:"entries"`
}

// BreakdownEntry is one protocol line of a portfolio snapshot. SharePercent
// is the entry's fraction of the total in percent, zero when the total is zero.
type BreakdownEntry struct {
	Protocol     string  `json:"protocol"`
	ValueUSD     float64 `json:"valueUsd"`
	SharePercent float64 `json:"sharePercent"`
	APR          float64 `json:"apr"`
}

// RebalancingSuggestions flags portfolio shapes that usually warrant action.
type RebalancingSuggestions struct {
	OverConcentrated bool     `json:"overConcentrated"`
	ConcentratedIn   string   `json:"concentratedIn,omitempty"`
	HighYield        bool     `json:"highYield"`
	HighYieldIn      string   `json:"highYieldIn,omitempty"`
	Notes            []string `json:"notes,omitempty"`
}
