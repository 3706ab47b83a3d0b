package service

import (
	"context"
	"fmt"
	"math/big"

	"github.com/wearedood/BaseEcosystemTools/internal/app/port"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
)

// Test doubles shared by the service tests. Only the methods a test
// configures do anything; the rest return zero values.

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

type fakeChainClient struct {
	network entity.NetworkConfig

	balancesFn    func(ctx context.Context, requests []entity.BalanceRequestItem) ([]entity.BalanceResultItem, error)
	balancesCalls int

	submitFn    func(ctx context.Context, intent entity.TransactionIntent) (entity.TransactionResult, error)
	submitCalls int
}

func (f *fakeChainClient) Network() entity.NetworkConfig { return f.network }

func (f *fakeChainClient) BlockNumber(ctx context.Context) (uint64, error) { return 0, nil }

func (f *fakeChainClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeChainClient) NativeBalance(ctx context.Context, walletAddress string) (entity.Balance, error) {
	return entity.Balance{}, nil
}

func (f *fakeChainClient) TokenBalance(ctx context.Context, tokenAddress, walletAddress string) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeChainClient) TokenMetadata(ctx context.Context, tokenAddress string) (entity.TokenDescriptor, error) {
	return entity.TokenDescriptor{}, nil
}

func (f *fakeChainClient) Balances(ctx context.Context, requests []entity.BalanceRequestItem) ([]entity.BalanceResultItem, error) {
	f.balancesCalls++
	if f.balancesFn != nil {
		return f.balancesFn(ctx, requests)
	}
	return []entity.BalanceResultItem{}, nil
}

func (f *fakeChainClient) PoolInfo(ctx context.Context, factoryAddress, tokenA, tokenB string, feeTier uint32) (entity.PoolInfo, error) {
	return entity.PoolInfo{}, nil
}

func (f *fakeChainClient) Quote(ctx context.Context, quoterAddress, tokenIn, tokenOut string, feeTier uint32, amountIn *big.Int) (entity.QuoteResult, error) {
	return entity.QuoteResult{}, nil
}

func (f *fakeChainClient) LendingAccountData(ctx context.Context, poolAddress, ownerAddress string) (entity.LendingAccountData, error) {
	return entity.LendingAccountData{}, nil
}

func (f *fakeChainClient) SignerAddress() (string, bool) { return "", false }

func (f *fakeChainClient) Submit(ctx context.Context, intent entity.TransactionIntent) (entity.TransactionResult, error) {
	f.submitCalls++
	if f.submitFn != nil {
		return f.submitFn(ctx, intent)
	}
	return entity.TransactionResult{}, nil
}

func (f *fakeChainClient) Close() {}

type fakeClientProvider struct {
	client   port.ChainClient
	err      error
	getCalls int
}

func (f *fakeClientProvider) GetClient(chainID uint64) (port.ChainClient, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

func (f *fakeClientProvider) CloseAll() {}

type fakeMarketData struct {
	prices     map[string]float64
	pricesErr  error
	priceCalls int
}

func (f *fakeMarketData) ProtocolTVL(ctx context.Context, chainID uint64, protocolName string) (float64, error) {
	return 0, nil
}

func (f *fakeMarketData) TokenPrices(ctx context.Context, chainID uint64, tokenAddresses []string) (map[string]float64, error) {
	f.priceCalls++
	if f.pricesErr != nil {
		return nil, f.pricesErr
	}
	return f.prices, nil
}

func (f *fakeMarketData) EnrichedProtocols(ctx context.Context, chainID uint64) ([]entity.ProtocolDescriptor, error) {
	return nil, nil
}

type fakeLlamaClient struct {
	tvl        map[string]float64
	tvlErr     error
	tvlCalls   int
	prices     map[string]float64
	pricesErr  error
	priceCalls int
	lastKeys   []string
}

func (f *fakeLlamaClient) ProtocolTVL(ctx context.Context, slug string) (float64, error) {
	f.tvlCalls++
	if f.tvlErr != nil {
		return 0, f.tvlErr
	}
	tvl, ok := f.tvl[slug]
	if !ok {
		return 0, fmt.Errorf("no TVL for slug %s", slug)
	}
	return tvl, nil
}

func (f *fakeLlamaClient) TokenPrices(ctx context.Context, keys []string) (map[string]float64, error) {
	f.priceCalls++
	f.lastKeys = keys
	if f.pricesErr != nil {
		return nil, f.pricesErr
	}
	out := make(map[string]float64, len(keys))
	for _, key := range keys {
		if price, ok := f.prices[key]; ok {
			out[key] = price
		}
	}
	return out, nil
}
