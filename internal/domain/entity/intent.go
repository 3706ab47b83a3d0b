package entity

import "math/big"

// OperationKind identifies the class of on-chain action an intent performs.
// Each kind is bound to exactly one protocol per chain in the registry.
type OperationKind string

const (
	OpSwapExactIn     OperationKind = "swap-exact-in"
	OpAddLiquidity    OperationKind = "add-liquidity"
	OpRemoveLiquidity OperationKind = "remove-liquidity"
	OpSupply          OperationKind = "supply"
	OpWithdraw        OperationKind = "withdraw"
	OpBorrow          OperationKind = "borrow"
	OpRepay           OperationKind = "repay"
	OpStake           OperationKind = "stake"
	OpClaimRewards    OperationKind = "claim-rewards"
	OpBridge          OperationKind = "bridge"
	OpBridgeNative    OperationKind = "bridge-native"
)

// TransactionIntent is a fully-encoded, not-yet-submitted transaction.
// Destination is always the registered protocol address for the intent's kind,
// Value is the native amount attached to the call (zero for pure token operations)
// and Payload is the ABI-encoded calldata.
type TransactionIntent struct {
	ChainID     uint64        `json:"chainId"`
	Kind        OperationKind `json:"kind"`
	Protocol    string        `json:"protocol"`
	Destination string        `json:"destination"`
	Value       *big.Int      `json:"-"`
	Payload     []byte        `json:"-"`
}

// TxStatus is the terminal outcome of a submitted transaction.
type TxStatus string

const (
	TxStatusSuccess TxStatus = "success"
	TxStatusFailed  TxStatus = "failed"
)

// TransactionResult is the normalized outcome of dispatching an intent.
type TransactionResult struct {
	Hash        string        `json:"hash"`
	BlockNumber uint64        `json:"blockNumber"`
	GasUsed     uint64        `json:"gasUsed"`
	Status      TxStatus      `json:"status"`
	Protocol    string        `json:"protocol"`
	Kind        OperationKind `json:"kind"`
	ExplorerURL string        `json:"explorerUrl,omitempty"`
}
