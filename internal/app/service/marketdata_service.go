package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/wearedood/BaseEcosystemTools/internal/app/port"
	"github.com/wearedood/BaseEcosystemTools/internal/config"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/registry"
	"github.com/wearedood/BaseEcosystemTools/internal/infrastructure/httpclient"
)

// marketDataServiceImpl implements port.MarketDataService on top of the
// DefiLlama client with a TTL cache in front of every upstream call.
type marketDataServiceImpl struct {
	reg            *registry.Registry
	llama          httpclient.LlamaClient
	logger         port.Logger
	requestTimeout time.Duration
	store          *cache.Cache
}

// NewMarketDataService creates a new instance of marketDataServiceImpl.
func NewMarketDataService(reg *registry.Registry, llama httpclient.LlamaClient, logger port.Logger, cfg *config.Config) port.MarketDataService {
	ttl := time.Duration(cfg.MarketData.CacheTTLMinutes) * time.Minute
	cleanup := time.Duration(cfg.Cache.CleanupIntervalMinutes) * time.Minute
	return &marketDataServiceImpl{
		reg:            reg,
		llama:          llama,
		logger:         logger,
		requestTimeout: time.Duration(cfg.MarketData.RequestTimeoutMillis) * time.Millisecond,
		store:          cache.New(ttl, cleanup),
	}
}

// ProtocolTVL implements port.MarketDataService.
func (s *marketDataServiceImpl) ProtocolTVL(ctx context.Context, chainID uint64, protocolName string) (float64, error) {
	proto, ok := s.reg.ProtocolByName(chainID, protocolName)
	if !ok {
		return 0, &entity.UnsupportedProtocolError{ChainID: chainID, Key: protocolName}
	}
	if proto.LlamaSlug == "" {
		return 0, fmt.Errorf("protocol %s has no TVL source configured", protocolName)
	}

	cacheKey := "tvl:" + proto.LlamaSlug
	if cached, found := s.store.Get(cacheKey); found {
		if tvl, ok := cached.(float64); ok {
			s.logger.Debug("TVL cache hit", "protocol", protocolName, "slug", proto.LlamaSlug)
			return tvl, nil
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	tvl, err := s.llama.ProtocolTVL(reqCtx, proto.LlamaSlug)
	if err != nil {
		return 0, err
	}

	s.store.Set(cacheKey, tvl, cache.DefaultExpiration)
	return tvl, nil
}

// TokenPrices implements port.MarketDataService. The result map is
// keyed by lowercased token address; tokens without a known price are
// absent. Networks with no price source yield an empty map.
func (s *marketDataServiceImpl) TokenPrices(ctx context.Context, chainID uint64, tokenAddresses []string) (map[string]float64, error) {
	network, ok := s.reg.Network(chainID)
	if !ok {
		return nil, fmt.Errorf("unknown chain id %d", chainID)
	}

	prices := make(map[string]float64, len(tokenAddresses))
	if len(tokenAddresses) == 0 {
		return prices, nil
	}

	if network.LlamaChainSlug == "" {
		s.logger.Warn("No price source configured for network. Prices will be zero for all tokens.",
			"network", network.Name, "chain_id", chainID)
		return prices, nil
	}

	missingKeys := make([]string, 0, len(tokenAddresses))
	keyToAddress := make(map[string]string, len(tokenAddresses))
	for _, address := range tokenAddresses {
		if !registry.IsHexAddress(address) {
			return nil, &entity.InvalidAddressError{Address: address}
		}
		lower := strings.ToLower(address)
		key := network.LlamaChainSlug + ":" + lower
		keyToAddress[key] = lower

		if cached, found := s.store.Get("price:" + key); found {
			if price, ok := cached.(float64); ok {
				prices[lower] = price
				continue
			}
		}
		missingKeys = append(missingKeys, key)
	}

	if len(missingKeys) == 0 {
		s.logger.Debug("All token prices served from cache", "chain_id", chainID, "count", len(prices))
		return prices, nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	fetched, err := s.llama.TokenPrices(reqCtx, missingKeys)
	if err != nil {
		return nil, err
	}

	for key, price := range fetched {
		address, ok := keyToAddress[strings.ToLower(key)]
		if !ok {
			continue
		}
		prices[address] = price
		s.store.Set("price:"+strings.ToLower(key), price, cache.DefaultExpiration)
	}

	s.logger.Debug("Fetched token prices",
		"chain_id", chainID, "requested", len(missingKeys), "resolved", len(fetched), "total", len(prices))
	return prices, nil
}

// EnrichedProtocols implements port.MarketDataService. TVL lookups that
// fail leave the protocol's TVL at zero rather than failing the listing.
func (s *marketDataServiceImpl) EnrichedProtocols(ctx context.Context, chainID uint64) ([]entity.ProtocolDescriptor, error) {
	if _, ok := s.reg.Network(chainID); !ok {
		return nil, fmt.Errorf("unknown chain id %d", chainID)
	}

	protos := s.reg.Protocols(chainID)
	for i := range protos {
		if protos[i].LlamaSlug == "" {
			continue
		}
		tvl, err := s.ProtocolTVL(ctx, chainID, protos[i].Name)
		if err != nil {
			s.logger.Warn("Failed to fetch TVL for protocol", "protocol", protos[i].Name, "error", err)
			continue
		}
		protos[i].TVLUSD = tvl
	}
	return protos, nil
}
