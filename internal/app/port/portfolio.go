package port

import (
	"context"

	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
)

// PortfolioService assembles priced wallet snapshots. Failures for
// individual tokens or wallets are returned as SnapshotErrors next to
// the partial results instead of failing the whole call.
type PortfolioService interface {
	// WalletSnapshot fetches and prices the holdings of a single wallet.
	WalletSnapshot(ctx context.Context, chainID uint64, walletAddress string) (entity.WalletSnapshot, []entity.SnapshotError, error)

	// WalletSnapshots fetches snapshots for several wallets concurrently.
	WalletSnapshots(ctx context.Context, chainID uint64, walletAddresses []string) ([]entity.WalletSnapshot, []entity.SnapshotError, error)
}
