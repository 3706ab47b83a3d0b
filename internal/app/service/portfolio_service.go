package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wearedood/BaseEcosystemTools/internal/app/port"
	"github.com/wearedood/BaseEcosystemTools/internal/config"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/registry"
	"github.com/wearedood/BaseEcosystemTools/internal/pkg/utils"
)

// portfolioServiceImpl implements port.PortfolioService. Balances come
// from the chain in chunked batch calls; prices come from the market
// data service and missing prices degrade to zero-valued holdings.
type portfolioServiceImpl struct {
	reg            *registry.Registry
	clientProvider port.ClientProvider
	marketData     port.MarketDataService
	logger         port.Logger
	fetchTimeout   time.Duration
	maxConcurrent  int
	maxPerBatch    int
}

// NewPortfolioService creates a new instance of portfolioServiceImpl.
func NewPortfolioService(
	reg *registry.Registry,
	clientProvider port.ClientProvider,
	marketData port.MarketDataService,
	logger port.Logger,
	cfg *config.Config,
) port.PortfolioService {
	maxConcurrent := cfg.Portfolio.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	maxPerBatch := cfg.Portfolio.MaxAddressesPerBatchCall
	if maxPerBatch <= 0 {
		maxPerBatch = 20
	}
	return &portfolioServiceImpl{
		reg:            reg,
		clientProvider: clientProvider,
		marketData:     marketData,
		logger:         logger,
		fetchTimeout:   time.Duration(cfg.Portfolio.BalanceFetchTimeoutMs) * time.Millisecond,
		maxConcurrent:  maxConcurrent,
		maxPerBatch:    maxPerBatch,
	}
}

// WalletSnapshot implements port.PortfolioService.
func (s *portfolioServiceImpl) WalletSnapshot(ctx context.Context, chainID uint64, walletAddress string) (entity.WalletSnapshot, []entity.SnapshotError, error) {
	if !registry.IsHexAddress(walletAddress) {
		return entity.WalletSnapshot{}, nil, &entity.InvalidAddressError{Address: walletAddress}
	}
	network, ok := s.reg.Network(chainID)
	if !ok {
		return entity.WalletSnapshot{}, nil, fmt.Errorf("unknown chain id %d", chainID)
	}

	chainClient, err := s.clientProvider.GetClient(chainID)
	if err != nil {
		return entity.WalletSnapshot{}, nil, err
	}

	s.logger.Debug("Fetching wallet snapshot", "wallet", walletAddress, "network", network.Name)

	requests := s.buildBalanceRequests(network, walletAddress)
	balances, snapshotErrs := s.fetchBalances(ctx, chainClient, network, walletAddress, requests)

	snapshot := s.priceBalances(ctx, network, walletAddress, balances, &snapshotErrs)
	return snapshot, snapshotErrs, nil
}

// WalletSnapshots implements port.PortfolioService. Wallets are fetched
// concurrently up to the configured limit; a wallet that fails entirely
// becomes a SnapshotError, not a failure of the whole call.
func (s *portfolioServiceImpl) WalletSnapshots(ctx context.Context, chainID uint64, walletAddresses []string) ([]entity.WalletSnapshot, []entity.SnapshotError, error) {
	if len(walletAddresses) == 0 {
		return []entity.WalletSnapshot{}, nil, nil
	}
	for _, address := range walletAddresses {
		if !registry.IsHexAddress(address) {
			return nil, nil, &entity.InvalidAddressError{Address: address}
		}
	}
	if _, ok := s.reg.Network(chainID); !ok {
		return nil, nil, fmt.Errorf("unknown chain id %d", chainID)
	}

	snapshots := make([]entity.WalletSnapshot, 0, len(walletAddresses))
	var allErrs []entity.SnapshotError
	var mu sync.Mutex

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for _, address := range walletAddresses {
		g.Go(func() error {
			snapshot, snapshotErrs, err := s.WalletSnapshot(groupCtx, chainID, address)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				allErrs = append(allErrs, entity.SnapshotError{
					WalletAddress: address, ChainID: chainID, Message: err.Error()})
				return nil
			}
			snapshots = append(snapshots, snapshot)
			allErrs = append(allErrs, snapshotErrs...)
			return nil
		})
	}

	// Group goroutines never return errors; Wait just joins them.
	_ = g.Wait()

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].WalletAddress < snapshots[j].WalletAddress
	})

	s.logger.Info("Fetched wallet snapshots", "chain_id", chainID, "wallets", len(walletAddresses), "errors", len(allErrs))
	return snapshots, allErrs, nil
}

// buildBalanceRequests lists the native balance plus every registered
// token for the network.
func (s *portfolioServiceImpl) buildBalanceRequests(network entity.NetworkConfig, walletAddress string) []entity.BalanceRequestItem {
	tokens := s.reg.Tokens(network.ChainID)

	requests := make([]entity.BalanceRequestItem, 0, len(tokens)+1)
	requests = append(requests, entity.BalanceRequestItem{
		ID:            fmt.Sprintf("%s-%s-NATIVE", walletAddress, network.Identifier),
		Type:          entity.NativeBalanceRequest,
		WalletAddress: walletAddress,
		TokenSymbol:   network.NativeSymbol,
		TokenDecimals: network.NativeDecimals,
	})

	for _, token := range tokens {
		requests = append(requests, entity.BalanceRequestItem{
			ID:            fmt.Sprintf("%s-%s-%s", walletAddress, network.Identifier, token.Address),
			Type:          entity.TokenBalanceRequest,
			WalletAddress: walletAddress,
			TokenAddress:  token.Address,
			TokenSymbol:   token.Symbol,
			TokenDecimals: token.Decimals,
		})
	}
	return requests
}

// fetchBalances runs the requests in chunks sized for the batch RPC and
// keeps the non-zero results. Chunk transport failures and per-item
// failures both land in the error slice.
func (s *portfolioServiceImpl) fetchBalances(
	ctx context.Context,
	chainClient port.ChainClient,
	network entity.NetworkConfig,
	walletAddress string,
	requests []entity.BalanceRequestItem,
) ([]entity.BalanceResultItem, []entity.SnapshotError) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	var balances []entity.BalanceResultItem
	var snapshotErrs []entity.SnapshotError

	for _, chunk := range utils.Batch(requests, s.maxPerBatch) {
		results, err := chainClient.Balances(fetchCtx, chunk)
		if err != nil {
			s.logger.Error("Batch balance call failed", "wallet", walletAddress, "network", network.Name, "error", err)
			snapshotErrs = append(snapshotErrs, entity.SnapshotError{
				WalletAddress: walletAddress, ChainID: network.ChainID,
				Message: fmt.Sprintf("batch balance fetch failed: %v", err)})
			continue
		}

		for _, item := range results {
			if item.Error != nil {
				s.logger.Warn("Error in batch balance sub-request",
					"wallet", item.WalletAddress, "network", network.Name,
					"token_symbol", item.TokenSymbol, "token_address", item.TokenAddress, "error", item.Error)
				snapshotErrs = append(snapshotErrs, entity.SnapshotError{
					WalletAddress: item.WalletAddress, ChainID: network.ChainID,
					TokenSymbol: item.TokenSymbol, TokenAddress: item.TokenAddress,
					Message: item.Error.Error()})
				continue
			}
			if item.Balance == nil || item.Balance.Sign() == 0 {
				continue
			}
			balances = append(balances, item)
		}
	}
	return balances, snapshotErrs
}

// priceBalances attaches USD prices and assembles the final snapshot.
// The native asset is priced through the wrapped-native token address.
func (s *portfolioServiceImpl) priceBalances(
	ctx context.Context,
	network entity.NetworkConfig,
	walletAddress string,
	balances []entity.BalanceResultItem,
	snapshotErrs *[]entity.SnapshotError,
) entity.WalletSnapshot {
	snapshot := entity.WalletSnapshot{
		WalletAddress: walletAddress,
		ChainID:       network.ChainID,
		Tokens:        make([]entity.TokenHolding, 0, len(balances)),
	}
	if len(balances) == 0 {
		return snapshot
	}

	priceAddresses := make([]string, 0, len(balances))
	haveNative := false
	for _, item := range balances {
		if item.IsNative {
			haveNative = true
			continue
		}
		priceAddresses = append(priceAddresses, item.TokenAddress)
	}
	if haveNative && network.WrappedNativeToken != "" {
		priceAddresses = append(priceAddresses, network.WrappedNativeToken)
	}

	prices := map[string]float64{}
	if len(priceAddresses) > 0 {
		fetched, err := s.marketData.TokenPrices(ctx, network.ChainID, priceAddresses)
		if err != nil {
			s.logger.Warn("Price lookup failed, values will be zero", "wallet", walletAddress, "network", network.Name, "error", err)
			*snapshotErrs = append(*snapshotErrs, entity.SnapshotError{
				WalletAddress: walletAddress, ChainID: network.ChainID,
				Message: fmt.Sprintf("price lookup failed: %v", err)})
		} else {
			prices = fetched
		}
	}

	for _, item := range balances {
		holding := entity.TokenHolding{
			TokenAddress:     item.TokenAddress,
			TokenSymbol:      item.TokenSymbol,
			Decimals:         item.Decimals,
			IsNative:         item.IsNative,
			Balance:          item.Balance.String(),
			FormattedBalance: item.FormattedBalance,
		}
		if item.IsNative {
			holding.TokenAddress = entity.ZeroAddress
		}

		priceAddress := item.TokenAddress
		if item.IsNative {
			priceAddress = network.WrappedNativeToken
		}
		if priceAddress != "" {
			if price, found := prices[strings.ToLower(priceAddress)]; found && price > 0 {
				holding.PriceUSD = price
				value, err := utils.CalculateValueUSD(item.Balance, item.Decimals, price)
				if err != nil {
					s.logger.Error("Failed to calculate USD value",
						"wallet", walletAddress, "token", item.TokenSymbol, "raw_amount", item.Balance.String(), "error", err)
				} else {
					holding.ValueUSD = value
				}
			} else {
				s.logger.Debug("No price for token, value stays zero",
					"wallet", walletAddress, "token", item.TokenSymbol, "price_address", priceAddress)
			}
		}

		snapshot.Tokens = append(snapshot.Tokens, holding)
		snapshot.TotalValueUSD += holding.ValueUSD
	}

	sort.Slice(snapshot.Tokens, func(i, j int) bool {
		if snapshot.Tokens[i].IsNative != snapshot.Tokens[j].IsNative {
			return snapshot.Tokens[i].IsNative
		}
		return snapshot.Tokens[i].TokenSymbol < snapshot.Tokens[j].TokenSymbol
	})

	return snapshot
}
