package port

import (
	"context"

	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
)

// MarketDataService serves protocol TVL and token prices, caching
// upstream responses so repeated reads stay off the network.
type MarketDataService interface {
	// ProtocolTVL returns the protocol's total value locked in USD.
	ProtocolTVL(ctx context.Context, chainID uint64, protocolName string) (float64, error)

	// TokenPrices returns current USD prices keyed by lowercased token
	// address. Tokens with no known price are absent from the map.
	TokenPrices(ctx context.Context, chainID uint64, tokenAddresses []string) (map[string]float64, error)

	// EnrichedProtocols returns the registered protocols of a network with
	// live TVL figures filled in where available.
	EnrichedProtocols(ctx context.Context, chainID uint64) ([]entity.ProtocolDescriptor, error)
}
