package port

import (
	"context"
	"math/big"

	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
)

// ChainClient is the gateway to a single EVM network. Read methods take
// the contract addresses they need as parameters; resolving addresses
// from the registry is the caller's job. Submit signs and sends an
// intent and blocks until the transaction is mined or ctx expires.
type ChainClient interface {
	// Network returns the network this client is connected to.
	Network() entity.NetworkConfig

	// BlockNumber returns the latest block height.
	BlockNumber(ctx context.Context) (uint64, error)

	// SuggestGasPrice returns the node's current gas price suggestion.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)

	// NativeBalance fetches the native currency balance for a wallet.
	NativeBalance(ctx context.Context, walletAddress string) (entity.Balance, error)

	// TokenBalance fetches the raw smallest-unit balance of a token for a wallet.
	TokenBalance(ctx context.Context, tokenAddress, walletAddress string) (*big.Int, error)

	// TokenMetadata reads name, symbol and decimals from a token contract.
	TokenMetadata(ctx context.Context, tokenAddress string) (entity.TokenDescriptor, error)

	// Balances resolves a batch of balance requests in a single RPC round
	// trip. Failures are reported per item, never for the whole batch.
	Balances(ctx context.Context, requests []entity.BalanceRequestItem) ([]entity.BalanceResultItem, error)

	// PoolInfo resolves the pool for a token pair and fee tier through the
	// given factory and reads its current state.
	PoolInfo(ctx context.Context, factoryAddress, tokenA, tokenB string, feeTier uint32) (entity.PoolInfo, error)

	// Quote simulates an exact-input swap through the given quoter.
	Quote(ctx context.Context, quoterAddress, tokenIn, tokenOut string, feeTier uint32, amountIn *big.Int) (entity.QuoteResult, error)

	// LendingAccountData reads the aggregate lending position of an account.
	LendingAccountData(ctx context.Context, poolAddress, ownerAddress string) (entity.LendingAccountData, error)

	// SignerAddress returns the configured signing address, if any.
	SignerAddress() (string, bool)

	// Submit signs the intent, sends it and waits for the receipt.
	// Returns entity.ErrNoSigner without any RPC traffic when no signing
	// key is configured.
	Submit(ctx context.Context, intent entity.TransactionIntent) (entity.TransactionResult, error)

	// Close releases the underlying RPC connection.
	Close()
}

// ClientProvider hands out chain clients keyed by chain id, creating
// and caching them on first use.
type ClientProvider interface {
	GetClient(chainID uint64) (ChainClient, error)
	CloseAll()
}
