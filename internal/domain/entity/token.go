package entity

// TokenDescriptor holds the details of a specific ERC-20 token.
type TokenDescriptor struct {
	ChainID  uint64 `json:"chainId" yaml:"chainId"`
	Address  string `json:"address" yaml:"address"`
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
}
