package service

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/wearedood/BaseEcosystemTools/internal/app/port"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/registry"
	"github.com/wearedood/BaseEcosystemTools/internal/infrastructure/contracts"
	"github.com/wearedood/BaseEcosystemTools/internal/pkg/utils"
)

// Referral codes are unused on Base deployments.
const aaveReferralCode uint16 = 0

// defaultBridgeGasLimit is used when the caller leaves minGasLimit
// unset. It matches the finalization gas the standard bridge expects.
const defaultBridgeGasLimit uint32 = 200000

// intentBuilderImpl implements port.IntentBuilder. Building never
// touches the network: validation, registry resolution and ABI packing
// only, so identical parameters always yield identical intents.
type intentBuilderImpl struct {
	reg    *registry.Registry
	logger port.Logger
}

// NewIntentBuilder creates a new instance of intentBuilderImpl.
func NewIntentBuilder(reg *registry.Registry, logger port.Logger) port.IntentBuilder {
	return &intentBuilderImpl{reg: reg, logger: logger}
}

func requireAddress(value string) error {
	if !registry.IsHexAddress(value) {
		return &entity.InvalidAddressError{Address: value}
	}
	return nil
}

// parsePositiveAmount accepts base-10 integer strings greater than zero.
func parsePositiveAmount(field, value string) (*big.Int, error) {
	amount, ok := utils.ParseBigInt(value)
	if !ok {
		return nil, &entity.InvalidParameterError{Field: field, Reason: "must be a base-10 integer"}
	}
	if amount.Sign() <= 0 {
		return nil, &entity.InvalidParameterError{Field: field, Reason: "must be positive"}
	}
	return amount, nil
}

// parseAmount accepts base-10 integer strings, zero included.
func parseAmount(field, value string) (*big.Int, error) {
	amount, ok := utils.ParseBigInt(value)
	if !ok {
		return nil, &entity.InvalidParameterError{Field: field, Reason: "must be a base-10 integer"}
	}
	return amount, nil
}

func validateDeadline(deadline int64) error {
	if deadline <= time.Now().Unix() {
		return &entity.InvalidParameterError{Field: "deadline", Reason: "must be in the future"}
	}
	return nil
}

func validateFeeTier(feeTier uint32) error {
	switch feeTier {
	case 100, 500, 3000, 10000:
		return nil
	default:
		return &entity.InvalidParameterError{Field: "feeTier", Reason: "must be one of 100, 500, 3000, 10000"}
	}
}

func (b *intentBuilderImpl) intent(chainID uint64, kind entity.OperationKind, proto entity.ProtocolDescriptor, value *big.Int, payload []byte) entity.TransactionIntent {
	if value == nil {
		value = big.NewInt(0)
	}
	b.logger.Debug("Built transaction intent", "chain_id", chainID, "kind", string(kind), "protocol", proto.Name)
	return entity.TransactionIntent{
		ChainID:     chainID,
		Kind:        kind,
		Protocol:    proto.Name,
		Destination: proto.Address,
		Value:       value,
		Payload:     payload,
	}
}

// BuildSwapExactIn encodes an exact-input single-hop swap through the
// bound swap router. The deadline is checked here but not encoded: the
// second-generation router dropped the parameter.
func (b *intentBuilderImpl) BuildSwapExactIn(chainID uint64, params entity.SwapExactInParams) (entity.TransactionIntent, error) {
	if err := requireAddress(params.TokenIn); err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.TokenOut); err != nil {
		return entity.TransactionIntent{}, err
	}
	if strings.EqualFold(params.TokenIn, params.TokenOut) {
		return entity.TransactionIntent{}, &entity.InvalidParameterError{Field: "tokenOut", Reason: "must differ from tokenIn"}
	}
	if err := validateFeeTier(params.FeeTier); err != nil {
		return entity.TransactionIntent{}, err
	}
	amountIn, err := parsePositiveAmount("amountIn", params.AmountIn)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	minAmountOut, err := parseAmount("minAmountOut", params.MinAmountOut)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.Recipient); err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := validateDeadline(params.Deadline); err != nil {
		return entity.TransactionIntent{}, err
	}

	proto, err := b.reg.ProtocolFor(chainID, entity.OpSwapExactIn)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	payload, err := contracts.SwapRouter().Pack("exactInputSingle", contracts.ExactInputSingleParams{
		TokenIn:           common.HexToAddress(params.TokenIn),
		TokenOut:          common.HexToAddress(params.TokenOut),
		Fee:               big.NewInt(int64(params.FeeTier)),
		Recipient:         common.HexToAddress(params.Recipient),
		AmountIn:          amountIn,
		AmountOutMinimum:  minAmountOut,
		SqrtPriceLimitX96: big.NewInt(0),
	})
	if err != nil {
		return entity.TransactionIntent{}, fmt.Errorf("failed to pack exactInputSingle calldata: %w", err)
	}

	return b.intent(chainID, entity.OpSwapExactIn, proto, nil, payload), nil
}

// BuildAddLiquidity encodes a two-sided deposit through the bound
// liquidity router.
func (b *intentBuilderImpl) BuildAddLiquidity(chainID uint64, params entity.AddLiquidityParams) (entity.TransactionIntent, error) {
	if err := requireAddress(params.TokenA); err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.TokenB); err != nil {
		return entity.TransactionIntent{}, err
	}
	if strings.EqualFold(params.TokenA, params.TokenB) {
		return entity.TransactionIntent{}, &entity.InvalidParameterError{Field: "tokenB", Reason: "must differ from tokenA"}
	}
	amountA, err := parsePositiveAmount("amountA", params.AmountA)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	amountB, err := parsePositiveAmount("amountB", params.AmountB)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	minAmountA, err := parseAmount("minAmountA", params.MinAmountA)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	minAmountB, err := parseAmount("minAmountB", params.MinAmountB)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.Recipient); err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := validateDeadline(params.Deadline); err != nil {
		return entity.TransactionIntent{}, err
	}

	proto, err := b.reg.ProtocolFor(chainID, entity.OpAddLiquidity)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	payload, err := contracts.AerodromeRouter().Pack("addLiquidity",
		common.HexToAddress(params.TokenA),
		common.HexToAddress(params.TokenB),
		params.Stable,
		amountA,
		amountB,
		minAmountA,
		minAmountB,
		common.HexToAddress(params.Recipient),
		big.NewInt(params.Deadline),
	)
	if err != nil {
		return entity.TransactionIntent{}, fmt.Errorf("failed to pack addLiquidity calldata: %w", err)
	}

	return b.intent(chainID, entity.OpAddLiquidity, proto, nil, payload), nil
}

// BuildRemoveLiquidity encodes a liquidity withdrawal through the bound
// liquidity router.
func (b *intentBuilderImpl) BuildRemoveLiquidity(chainID uint64, params entity.RemoveLiquidityParams) (entity.TransactionIntent, error) {
	if err := requireAddress(params.TokenA); err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.TokenB); err != nil {
		return entity.TransactionIntent{}, err
	}
	if strings.EqualFold(params.TokenA, params.TokenB) {
		return entity.TransactionIntent{}, &entity.InvalidParameterError{Field: "tokenB", Reason: "must differ from tokenA"}
	}
	liquidity, err := parsePositiveAmount("liquidity", params.Liquidity)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	minAmountA, err := parseAmount("minAmountA", params.MinAmountA)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	minAmountB, err := parseAmount("minAmountB", params.MinAmountB)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.Recipient); err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := validateDeadline(params.Deadline); err != nil {
		return entity.TransactionIntent{}, err
	}

	proto, err := b.reg.ProtocolFor(chainID, entity.OpRemoveLiquidity)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	payload, err := contracts.AerodromeRouter().Pack("removeLiquidity",
		common.HexToAddress(params.TokenA),
		common.HexToAddress(params.TokenB),
		params.Stable,
		liquidity,
		minAmountA,
		minAmountB,
		common.HexToAddress(params.Recipient),
		big.NewInt(params.Deadline),
	)
	if err != nil {
		return entity.TransactionIntent{}, fmt.Errorf("failed to pack removeLiquidity calldata: %w", err)
	}

	return b.intent(chainID, entity.OpRemoveLiquidity, proto, nil, payload), nil
}

// BuildSupply encodes a collateral deposit into the bound lending pool.
func (b *intentBuilderImpl) BuildSupply(chainID uint64, params entity.SupplyParams) (entity.TransactionIntent, error) {
	if err := requireAddress(params.Asset); err != nil {
		return entity.TransactionIntent{}, err
	}
	amount, err := parsePositiveAmount("amount", params.Amount)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.OnBehalfOf); err != nil {
		return entity.TransactionIntent{}, err
	}

	proto, err := b.reg.ProtocolFor(chainID, entity.OpSupply)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	payload, err := contracts.AavePool().Pack("supply",
		common.HexToAddress(params.Asset),
		amount,
		common.HexToAddress(params.OnBehalfOf),
		aaveReferralCode,
	)
	if err != nil {
		return entity.TransactionIntent{}, fmt.Errorf("failed to pack supply calldata: %w", err)
	}

	return b.intent(chainID, entity.OpSupply, proto, nil, payload), nil
}

// BuildWithdraw encodes a collateral withdrawal from the bound lending pool.
func (b *intentBuilderImpl) BuildWithdraw(chainID uint64, params entity.WithdrawParams) (entity.TransactionIntent, error) {
	if err := requireAddress(params.Asset); err != nil {
		return entity.TransactionIntent{}, err
	}
	amount, err := parsePositiveAmount("amount", params.Amount)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.Recipient); err != nil {
		return entity.TransactionIntent{}, err
	}

	proto, err := b.reg.ProtocolFor(chainID, entity.OpWithdraw)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	payload, err := contracts.AavePool().Pack("withdraw",
		common.HexToAddress(params.Asset),
		amount,
		common.HexToAddress(params.Recipient),
	)
	if err != nil {
		return entity.TransactionIntent{}, fmt.Errorf("failed to pack withdraw calldata: %w", err)
	}

	return b.intent(chainID, entity.OpWithdraw, proto, nil, payload), nil
}

// BuildBorrow encodes a borrow against supplied collateral.
func (b *intentBuilderImpl) BuildBorrow(chainID uint64, params entity.BorrowParams) (entity.TransactionIntent, error) {
	if err := requireAddress(params.Asset); err != nil {
		return entity.TransactionIntent{}, err
	}
	amount, err := parsePositiveAmount("amount", params.Amount)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	if params.RateMode != entity.RateModeStable && params.RateMode != entity.RateModeVariable {
		return entity.TransactionIntent{}, &entity.InvalidParameterError{Field: "rateMode", Reason: "must be 1 (stable) or 2 (variable)"}
	}
	if err := requireAddress(params.OnBehalfOf); err != nil {
		return entity.TransactionIntent{}, err
	}

	proto, err := b.reg.ProtocolFor(chainID, entity.OpBorrow)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	payload, err := contracts.AavePool().Pack("borrow",
		common.HexToAddress(params.Asset),
		amount,
		big.NewInt(int64(params.RateMode)),
		aaveReferralCode,
		common.HexToAddress(params.OnBehalfOf),
	)
	if err != nil {
		return entity.TransactionIntent{}, fmt.Errorf("failed to pack borrow calldata: %w", err)
	}

	return b.intent(chainID, entity.OpBorrow, proto, nil, payload), nil
}

// BuildRepay encodes a repayment of outstanding debt.
func (b *intentBuilderImpl) BuildRepay(chainID uint64, params entity.RepayParams) (entity.TransactionIntent, error) {
	if err := requireAddress(params.Asset); err != nil {
		return entity.TransactionIntent{}, err
	}
	amount, err := parsePositiveAmount("amount", params.Amount)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	if params.RateMode != entity.RateModeStable && params.RateMode != entity.RateModeVariable {
		return entity.TransactionIntent{}, &entity.InvalidParameterError{Field: "rateMode", Reason: "must be 1 (stable) or 2 (variable)"}
	}
	if err := requireAddress(params.OnBehalfOf); err != nil {
		return entity.TransactionIntent{}, err
	}

	proto, err := b.reg.ProtocolFor(chainID, entity.OpRepay)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	payload, err := contracts.AavePool().Pack("repay",
		common.HexToAddress(params.Asset),
		amount,
		big.NewInt(int64(params.RateMode)),
		common.HexToAddress(params.OnBehalfOf),
	)
	if err != nil {
		return entity.TransactionIntent{}, fmt.Errorf("failed to pack repay calldata: %w", err)
	}

	return b.intent(chainID, entity.OpRepay, proto, nil, payload), nil
}

// BuildStake encodes a gauge deposit of LP tokens.
func (b *intentBuilderImpl) BuildStake(chainID uint64, params entity.StakeParams) (entity.TransactionIntent, error) {
	amount, err := parsePositiveAmount("amount", params.Amount)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	proto, err := b.reg.ProtocolFor(chainID, entity.OpStake)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	payload, err := contracts.Gauge().Pack("deposit", amount)
	if err != nil {
		return entity.TransactionIntent{}, fmt.Errorf("failed to pack deposit calldata: %w", err)
	}

	return b.intent(chainID, entity.OpStake, proto, nil, payload), nil
}

// BuildClaimRewards encodes an incentives claim for the given assets.
func (b *intentBuilderImpl) BuildClaimRewards(chainID uint64, params entity.ClaimRewardsParams) (entity.TransactionIntent, error) {
	if len(params.Assets) == 0 {
		return entity.TransactionIntent{}, &entity.InvalidParameterError{Field: "assets", Reason: "must not be empty"}
	}
	assets := make([]common.Address, len(params.Assets))
	for i, asset := range params.Assets {
		if err := requireAddress(asset); err != nil {
			return entity.TransactionIntent{}, err
		}
		assets[i] = common.HexToAddress(asset)
	}
	amount, err := parsePositiveAmount("amount", params.Amount)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.Recipient); err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.RewardToken); err != nil {
		return entity.TransactionIntent{}, err
	}

	proto, err := b.reg.ProtocolFor(chainID, entity.OpClaimRewards)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	payload, err := contracts.AaveRewards().Pack("claimRewards",
		assets,
		amount,
		common.HexToAddress(params.Recipient),
		common.HexToAddress(params.RewardToken),
	)
	if err != nil {
		return entity.TransactionIntent{}, fmt.Errorf("failed to pack claimRewards calldata: %w", err)
	}

	return b.intent(chainID, entity.OpClaimRewards, proto, nil, payload), nil
}

// BuildBridge encodes an ERC-20 withdrawal through the standard bridge.
func (b *intentBuilderImpl) BuildBridge(chainID uint64, params entity.BridgeParams) (entity.TransactionIntent, error) {
	if err := requireAddress(params.LocalToken); err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.RemoteToken); err != nil {
		return entity.TransactionIntent{}, err
	}
	if err := requireAddress(params.Recipient); err != nil {
		return entity.TransactionIntent{}, err
	}
	amount, err := parsePositiveAmount("amount", params.Amount)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	minGasLimit := params.MinGasLimit
	if minGasLimit == 0 {
		minGasLimit = defaultBridgeGasLimit
	}

	proto, err := b.reg.ProtocolFor(chainID, entity.OpBridge)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	payload, err := contracts.Bridge().Pack("bridgeERC20To",
		common.HexToAddress(params.LocalToken),
		common.HexToAddress(params.RemoteToken),
		common.HexToAddress(params.Recipient),
		amount,
		minGasLimit,
		[]byte{},
	)
	if err != nil {
		return entity.TransactionIntent{}, fmt.Errorf("failed to pack bridgeERC20To calldata: %w", err)
	}

	return b.intent(chainID, entity.OpBridge, proto, nil, payload), nil
}

// BuildBridgeNative encodes a native-asset withdrawal through the
// standard bridge. The amount travels as transaction value.
func (b *intentBuilderImpl) BuildBridgeNative(chainID uint64, params entity.BridgeNativeParams) (entity.TransactionIntent, error) {
	if err := requireAddress(params.Recipient); err != nil {
		return entity.TransactionIntent{}, err
	}
	amount, err := parsePositiveAmount("amount", params.Amount)
	if err != nil {
		return entity.TransactionIntent{}, err
	}
	minGasLimit := params.MinGasLimit
	if minGasLimit == 0 {
		minGasLimit = defaultBridgeGasLimit
	}

	proto, err := b.reg.ProtocolFor(chainID, entity.OpBridgeNative)
	if err != nil {
		return entity.TransactionIntent{}, err
	}

	payload, err := contracts.Bridge().Pack("bridgeETHTo",
		common.HexToAddress(params.Recipient),
		minGasLimit,
		[]byte{},
	)
	if err != nil {
		return entity.TransactionIntent{}, fmt.Errorf("failed to pack bridgeETHTo calldata: %w", err)
	}

	return b.intent(chainID, entity.OpBridgeNative, proto, amount, payload), nil
}
