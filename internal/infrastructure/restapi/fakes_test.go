package restapi

import (
	"context"
	"math/big"

	"github.com/wearedood/BaseEcosystemTools/internal/app/port"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
)

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// fakeChainClient answers only the calls a handler under test is expected to
// make. Reads without a configured function return zero values.
type fakeChainClient struct {
	network entity.NetworkConfig

	blockNumber uint64
	blockErr    error
	gasPrice    *big.Int
	signer      string

	metadataFn func(ctx context.Context, tokenAddress string) (entity.TokenDescriptor, error)
	poolFn     func(ctx context.Context, factoryAddress, tokenA, tokenB string, feeTier uint32) (entity.PoolInfo, error)
	quoteFn    func(ctx context.Context, quoterAddress, tokenIn, tokenOut string, feeTier uint32, amountIn *big.Int) (entity.QuoteResult, error)
	lendingFn  func(ctx context.Context, poolAddress, ownerAddress string) (entity.LendingAccountData, error)
}

var _ port.ChainClient = (*fakeChainClient)(nil)

func (f *fakeChainClient) Network() entity.NetworkConfig { return f.network }

func (f *fakeChainClient) BlockNumber(ctx context.Context) (uint64, error) {
	return f.blockNumber, f.blockErr
}

func (f *fakeChainClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if f.gasPrice == nil {
		return big.NewInt(0), nil
	}
	return f.gasPrice, nil
}

func (f *fakeChainClient) NativeBalance(ctx context.Context, walletAddress string) (entity.Balance, error) {
	return entity.Balance{}, nil
}

func (f *fakeChainClient) TokenBalance(ctx context.Context, tokenAddress, walletAddress string) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeChainClient) TokenMetadata(ctx context.Context, tokenAddress string) (entity.TokenDescriptor, error) {
	if f.metadataFn != nil {
		return f.metadataFn(ctx, tokenAddress)
	}
	return entity.TokenDescriptor{}, nil
}

func (f *fakeChainClient) Balances(ctx context.Context, requests []entity.BalanceRequestItem) ([]entity.BalanceResultItem, error) {
	return nil, nil
}

func (f *fakeChainClient) PoolInfo(ctx context.Context, factoryAddress, tokenA, tokenB string, feeTier uint32) (entity.PoolInfo, error) {
	if f.poolFn != nil {
		return f.poolFn(ctx, factoryAddress, tokenA, tokenB, feeTier)
	}
	return entity.PoolInfo{Liquidity: big.NewInt(0), SqrtPriceX96: big.NewInt(0)}, nil
}

func (f *fakeChainClient) Quote(ctx context.Context, quoterAddress, tokenIn, tokenOut string, feeTier uint32, amountIn *big.Int) (entity.QuoteResult, error) {
	if f.quoteFn != nil {
		return f.quoteFn(ctx, quoterAddress, tokenIn, tokenOut, feeTier, amountIn)
	}
	return entity.QuoteResult{}, nil
}

func (f *fakeChainClient) LendingAccountData(ctx context.Context, poolAddress, ownerAddress string) (entity.LendingAccountData, error) {
	if f.lendingFn != nil {
		return f.lendingFn(ctx, poolAddress, ownerAddress)
	}
	return entity.LendingAccountData{}, nil
}

func (f *fakeChainClient) SignerAddress() (string, bool) {
	return f.signer, f.signer != ""
}

func (f *fakeChainClient) Submit(ctx context.Context, intent entity.TransactionIntent) (entity.TransactionResult, error) {
	return entity.TransactionResult{}, nil
}

func (f *fakeChainClient) Close() {}

type fakeClientProvider struct {
	client port.ChainClient
	err    error
}

var _ port.ClientProvider = (*fakeClientProvider)(nil)

func (f *fakeClientProvider) GetClient(chainID uint64) (port.ChainClient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.client, nil
}

func (f *fakeClientProvider) CloseAll() {}

type fakePortfolio struct {
	snapshotFn  func(ctx context.Context, chainID uint64, walletAddress string) (entity.WalletSnapshot, []entity.SnapshotError, error)
	snapshotsFn func(ctx context.Context, chainID uint64, walletAddresses []string) ([]entity.WalletSnapshot, []entity.SnapshotError, error)
}

var _ port.PortfolioService = (*fakePortfolio)(nil)

func (f *fakePortfolio) WalletSnapshot(ctx context.Context, chainID uint64, walletAddress string) (entity.WalletSnapshot, []entity.SnapshotError, error) {
	if f.snapshotFn != nil {
		return f.snapshotFn(ctx, chainID, walletAddress)
	}
	return entity.WalletSnapshot{}, nil, nil
}

func (f *fakePortfolio) WalletSnapshots(ctx context.Context, chainID uint64, walletAddresses []string) ([]entity.WalletSnapshot, []entity.SnapshotError, error) {
	if f.snapshotsFn != nil {
		return f.snapshotsFn(ctx, chainID, walletAddresses)
	}
	return []entity.WalletSnapshot{}, nil, nil
}

type fakeMarketData struct {
	protocols    []entity.ProtocolDescriptor
	protocolsErr error
}

var _ port.MarketDataService = (*fakeMarketData)(nil)

func (f *fakeMarketData) ProtocolTVL(ctx context.Context, chainID uint64, protocolName string) (float64, error) {
	return 0, nil
}

func (f *fakeMarketData) TokenPrices(ctx context.Context, chainID uint64, tokenAddresses []string) (map[string]float64, error) {
	return map[string]float64{}, nil
}

func (f *fakeMarketData) EnrichedProtocols(ctx context.Context, chainID uint64) ([]entity.ProtocolDescriptor, error) {
	return f.protocols, f.protocolsErr
}

type fakeDispatcher struct {
	calls  int
	last   entity.TransactionIntent
	result entity.TransactionResult
	err    error
}

var _ port.Dispatcher = (*fakeDispatcher)(nil)

func (f *fakeDispatcher) Dispatch(ctx context.Context, intent entity.TransactionIntent) (entity.TransactionResult, error) {
	f.calls++
	f.last = intent
	return f.result, f.err
}
