package port

import "github.com/wearedood/BaseEcosystemTools/internal/domain/entity"

// IntentBuilder turns operation parameters into signed-ready transaction
// intents. Builders are pure: they validate, resolve the target contract
// from the registry and ABI-encode the calldata, but never touch the
// network. The same parameters always produce byte-identical intents.
type IntentBuilder interface {
	BuildSwapExactIn(chainID uint64, params entity.SwapExactInParams) (entity.TransactionIntent, error)
	BuildAddLiquidity(chainID uint64, params entity.AddLiquidityParams) (entity.TransactionIntent, error)
	BuildRemoveLiquidity(chainID uint64, params entity.RemoveLiquidityParams) (entity.TransactionIntent, error)
	BuildSupply(chainID uint64, params entity.SupplyParams) (entity.TransactionIntent, error)
	BuildWithdraw(chainID uint64, params entity.WithdrawParams) (entity.TransactionIntent, error)
	BuildBorrow(chainID uint64, params entity.BorrowParams) (entity.TransactionIntent, error)
	BuildRepay(chainID uint64, params entity.RepayParams) (entity.TransactionIntent, error)
	BuildStake(chainID uint64, params entity.StakeParams) (entity.TransactionIntent, error)
	BuildClaimRewards(chainID uint64, params entity.ClaimRewardsParams) (entity.TransactionIntent, error)
	BuildBridge(chainID uint64, params entity.BridgeParams) (entity.TransactionIntent, error)
	BuildBridgeNative(chainID uint64, params entity.BridgeNativeParams) (entity.TransactionIntent, error)
}
