package entity

import "math/big"

// Balance represents the amount of a specific asset held by a wallet on a network.
type Balance struct {
	WalletAddress    string   `json:"-" yaml:"walletAddress"`
	ChainID          uint64   `json:"chainId" yaml:"chainId"`
	TokenAddress     string   `json:"tokenAddress" yaml:"tokenAddress"`
	TokenSymbol      string   `json:"tokenSymbol" yaml:"tokenSymbol"`
	Decimals         uint8    `json:"decimals" yaml:"decimals"`
	IsNative         bool     `json:"-" yaml:"isNative"`
	Amount           *big.Int `json:"-" yaml:"amount"`
	FormattedBalance string   `json:"formattedBalance" yaml:"formattedBalance"`
}

// Position is a caller-described protocol holding used by the analytics
// helpers. ValueUSD is the current position value, APR the advertised annual
// rate in percent.
type Position struct {
	Protocol string           `json:"protocol"`
	Category ProtocolCategory `json:"category"`
	ValueUSD float64          `json:"valueUsd"`
	APR      float64          `json:"apr"`
}
