package entity

// NetworkConfig holds the configuration for a single EVM network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkConfig struct {
	ChainID            uint64   `json:"chainId" yaml:"chainId"`
	Name               string   `json:"name" yaml:"name"`
	Identifier         string   `json:"identifier" yaml:"identifier"` // short stable id, e.g. "base", "base-sepolia"
	NativeSymbol       string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	NativeDecimals     uint8    `json:"nativeDecimals" yaml:"nativeDecimals"`
	PrimaryRPCURL      string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs    []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	ExplorerURL        string   `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
	LlamaChainSlug     string   `json:"llamaChainSlug,omitempty" yaml:"llamaChainSlug,omitempty"` // empty means no price source
	MulticallAddress   string   `json:"multicallAddress,omitempty" yaml:"multicallAddress,omitempty"`
	WrappedNativeToken string   `json:"wrappedNativeToken,omitempty" yaml:"wrappedNativeToken,omitempty"`
}
