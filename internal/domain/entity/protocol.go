package entity

// ProtocolCategory classifies a protocol by the service it provides.
type ProtocolCategory string

const (
	CategoryExchange ProtocolCategory = "exchange"
	CategoryLending  ProtocolCategory = "lending"
	CategoryYield    ProtocolCategory = "yield"
	CategoryBridge   ProtocolCategory = "bridge"
)

// ProtocolDescriptor identifies a protocol contract deployed on a specific network.
// The address is the canonical lookup key; the name is a secondary, human-stable index.
// TVLUSD and APY are optional market-data enrichments and are zero when unknown.
type ProtocolDescriptor struct {
	ChainID   uint64           `json:"chainId" yaml:"chainId"`
	Name      string           `json:"name" yaml:"name"`
	Address   string           `json:"address" yaml:"address"`
	Category  ProtocolCategory `json:"category" yaml:"category"`
	LlamaSlug string           `json:"llamaSlug,omitempty" yaml:"llamaSlug,omitempty"` // DefiLlama protocol slug for TVL lookups
	TVLUSD    float64          `json:"tvlUsd,omitempty" yaml:"tvlUsd,omitempty"`
	APY       float64          `json:"apy,omitempty" yaml:"apy,omitempty"`
}
