package service

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/registry"
)

const (
	wethAddress      = "0x4200000000000000000000000000000000000006"
	usdcAddress      = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
	recipientAddress = "0x1111111111111111111111111111111111111111"
)

func newBuilder(t *testing.T) *intentBuilderImpl {
	t.Helper()
	reg, err := registry.New(registry.DefaultConfig())
	require.NoError(t, err)
	return NewIntentBuilder(reg, noopLogger{}).(*intentBuilderImpl)
}

func futureDeadline() int64 {
	return time.Now().Add(time.Hour).Unix()
}

func validSwapParams() entity.SwapExactInParams {
	return entity.SwapExactInParams{
		TokenIn:      wethAddress,
		TokenOut:     usdcAddress,
		FeeTier:      500,
		AmountIn:     "1000000000000000000",
		MinAmountOut: "0",
		Recipient:    recipientAddress,
		Deadline:     futureDeadline(),
	}
}

func assertInvalidParameter(t *testing.T, err error, field string) {
	t.Helper()
	var invalid *entity.InvalidParameterError
	require.True(t, errors.As(err, &invalid), "expected InvalidParameterError, got %v", err)
	assert.Equal(t, field, invalid.Field)
}

func assertInvalidAddress(t *testing.T, err error) {
	t.Helper()
	var invalid *entity.InvalidAddressError
	assert.True(t, errors.As(err, &invalid), "expected InvalidAddressError, got %v", err)
}

func TestBuildSwapExactIn(t *testing.T) {
	b := newBuilder(t)

	t.Run("TargetsBoundRouter", func(t *testing.T) {
		intent, err := b.BuildSwapExactIn(8453, validSwapParams())
		require.NoError(t, err)

		assert.Equal(t, uint64(8453), intent.ChainID)
		assert.Equal(t, entity.OpSwapExactIn, intent.Kind)
		assert.Equal(t, registry.ProtocolUniswapV3Router, intent.Protocol)
		assert.Equal(t, "0x2626664c2603336E57B271c5C0b26F421741e481", intent.Destination)
		assert.Zero(t, intent.Value.Sign())
		assert.NotEmpty(t, intent.Payload)
	})

	t.Run("Deterministic", func(t *testing.T) {
		params := validSwapParams()
		first, err := b.BuildSwapExactIn(8453, params)
		require.NoError(t, err)
		second, err := b.BuildSwapExactIn(8453, params)
		require.NoError(t, err)

		assert.Equal(t, first.Payload, second.Payload)
		assert.Equal(t, first.Destination, second.Destination)
	})

	t.Run("RejectsMalformedTokenIn", func(t *testing.T) {
		params := validSwapParams()
		params.TokenIn = "0xNOT"
		_, err := b.BuildSwapExactIn(8453, params)
		assertInvalidAddress(t, err)
	})

	t.Run("RejectsIdenticalTokens", func(t *testing.T) {
		params := validSwapParams()
		params.TokenOut = params.TokenIn
		_, err := b.BuildSwapExactIn(8453, params)
		assertInvalidParameter(t, err, "tokenOut")
	})

	t.Run("RejectsUnknownFeeTier", func(t *testing.T) {
		params := validSwapParams()
		params.FeeTier = 1234
		_, err := b.BuildSwapExactIn(8453, params)
		assertInvalidParameter(t, err, "feeTier")
	})

	t.Run("RejectsNonIntegerAmount", func(t *testing.T) {
		params := validSwapParams()
		params.AmountIn = "1.5"
		_, err := b.BuildSwapExactIn(8453, params)
		assertInvalidParameter(t, err, "amountIn")
	})

	t.Run("RejectsZeroAmount", func(t *testing.T) {
		params := validSwapParams()
		params.AmountIn = "0"
		_, err := b.BuildSwapExactIn(8453, params)
		assertInvalidParameter(t, err, "amountIn")
	})

	t.Run("RejectsPastDeadline", func(t *testing.T) {
		params := validSwapParams()
		params.Deadline = time.Now().Add(-time.Minute).Unix()
		_, err := b.BuildSwapExactIn(8453, params)
		assertInvalidParameter(t, err, "deadline")
	})

	t.Run("UnboundOnTestnet", func(t *testing.T) {
		_, err := b.BuildSwapExactIn(84532, validSwapParams())
		var unsupported *entity.UnsupportedProtocolError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, uint64(84532), unsupported.ChainID)
	})

	t.Run("ValidationRunsBeforeBinding", func(t *testing.T) {
		// A bad address on an unbound chain reports the address, proving
		// parameters are checked before the registry is consulted.
		params := validSwapParams()
		params.TokenIn = "garbage"
		_, err := b.BuildSwapExactIn(84532, params)
		assertInvalidAddress(t, err)
	})
}

func TestBuildLiquidityIntents(t *testing.T) {
	b := newBuilder(t)

	addParams := entity.AddLiquidityParams{
		TokenA:     wethAddress,
		TokenB:     usdcAddress,
		Stable:     false,
		AmountA:    "1000000000000000000",
		AmountB:    "3000000000",
		MinAmountA: "0",
		MinAmountB: "0",
		Recipient:  recipientAddress,
		Deadline:   futureDeadline(),
	}

	t.Run("AddTargetsAerodromeRouter", func(t *testing.T) {
		intent, err := b.BuildAddLiquidity(8453, addParams)
		require.NoError(t, err)
		assert.Equal(t, registry.ProtocolAerodromeRouter, intent.Protocol)
		assert.Equal(t, "0xcF77a3Ba9A5CA399B7c97c74d54e5b1Beb874E43", intent.Destination)
		assert.Zero(t, intent.Value.Sign())
	})

	t.Run("AddRejectsIdenticalTokens", func(t *testing.T) {
		params := addParams
		params.TokenB = params.TokenA
		_, err := b.BuildAddLiquidity(8453, params)
		assertInvalidParameter(t, err, "tokenB")
	})

	t.Run("AddRejectsZeroAmountA", func(t *testing.T) {
		params := addParams
		params.AmountA = "0"
		_, err := b.BuildAddLiquidity(8453, params)
		assertInvalidParameter(t, err, "amountA")
	})

	t.Run("RemoveDeterministic", func(t *testing.T) {
		params := entity.RemoveLiquidityParams{
			TokenA:     wethAddress,
			TokenB:     usdcAddress,
			Liquidity:  "5000",
			MinAmountA: "0",
			MinAmountB: "0",
			Recipient:  recipientAddress,
			Deadline:   futureDeadline(),
		}
		first, err := b.BuildRemoveLiquidity(8453, params)
		require.NoError(t, err)
		second, err := b.BuildRemoveLiquidity(8453, params)
		require.NoError(t, err)
		assert.Equal(t, first.Payload, second.Payload)
	})

	t.Run("RemoveRejectsZeroLiquidity", func(t *testing.T) {
		params := entity.RemoveLiquidityParams{
			TokenA: wethAddress, TokenB: usdcAddress, Liquidity: "0",
			MinAmountA: "0", MinAmountB: "0", Recipient: recipientAddress, Deadline: futureDeadline(),
		}
		_, err := b.BuildRemoveLiquidity(8453, params)
		assertInvalidParameter(t, err, "liquidity")
	})
}

func TestBuildLendingIntents(t *testing.T) {
	b := newBuilder(t)
	aavePool := "0xA238Dd80C259a72e81d7e4664a9801593F98d1c5"

	t.Run("SupplyTargetsPool", func(t *testing.T) {
		intent, err := b.BuildSupply(8453, entity.SupplyParams{
			Asset: usdcAddress, Amount: "1000000", OnBehalfOf: recipientAddress,
		})
		require.NoError(t, err)
		assert.Equal(t, aavePool, intent.Destination)
		assert.Equal(t, entity.OpSupply, intent.Kind)
	})

	t.Run("WithdrawRejectsBadRecipient", func(t *testing.T) {
		_, err := b.BuildWithdraw(8453, entity.WithdrawParams{
			Asset: usdcAddress, Amount: "1000000", Recipient: "nope",
		})
		assertInvalidAddress(t, err)
	})

	t.Run("BorrowRejectsUnknownRateMode", func(t *testing.T) {
		_, err := b.BuildBorrow(8453, entity.BorrowParams{
			Asset: usdcAddress, Amount: "1000000", RateMode: 3, OnBehalfOf: recipientAddress,
		})
		assertInvalidParameter(t, err, "rateMode")
	})

	t.Run("BorrowVariableRate", func(t *testing.T) {
		intent, err := b.BuildBorrow(8453, entity.BorrowParams{
			Asset: usdcAddress, Amount: "1000000", RateMode: entity.RateModeVariable, OnBehalfOf: recipientAddress,
		})
		require.NoError(t, err)
		assert.Equal(t, aavePool, intent.Destination)
	})

	t.Run("RepayStableRate", func(t *testing.T) {
		intent, err := b.BuildRepay(8453, entity.RepayParams{
			Asset: usdcAddress, Amount: "500000", RateMode: entity.RateModeStable, OnBehalfOf: recipientAddress,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.OpRepay, intent.Kind)
	})

	t.Run("RepayDiffersFromBorrow", func(t *testing.T) {
		borrow, err := b.BuildBorrow(8453, entity.BorrowParams{
			Asset: usdcAddress, Amount: "1000000", RateMode: entity.RateModeVariable, OnBehalfOf: recipientAddress,
		})
		require.NoError(t, err)
		repay, err := b.BuildRepay(8453, entity.RepayParams{
			Asset: usdcAddress, Amount: "1000000", RateMode: entity.RateModeVariable, OnBehalfOf: recipientAddress,
		})
		require.NoError(t, err)
		assert.NotEqual(t, borrow.Payload[:4], repay.Payload[:4], "selectors must differ")
	})
}

func TestBuildStakeAndClaim(t *testing.T) {
	b := newBuilder(t)

	t.Run("StakeTargetsGauge", func(t *testing.T) {
		intent, err := b.BuildStake(8453, entity.StakeParams{Amount: "1000"})
		require.NoError(t, err)
		assert.Equal(t, registry.ProtocolAerodromeGauge, intent.Protocol)
		assert.Equal(t, "0x519BBD1Dd8C6A94C46080E24f316c14Ee758C025", intent.Destination)
	})

	t.Run("StakeRejectsZeroAmount", func(t *testing.T) {
		_, err := b.BuildStake(8453, entity.StakeParams{Amount: "0"})
		assertInvalidParameter(t, err, "amount")
	})

	t.Run("ClaimTargetsRewardsController", func(t *testing.T) {
		intent, err := b.BuildClaimRewards(8453, entity.ClaimRewardsParams{
			Assets:      []string{usdcAddress, wethAddress},
			Amount:      "115792089237316195423570985008687907853269984665640564039457584007913129639935",
			Recipient:   recipientAddress,
			RewardToken: wethAddress,
		})
		require.NoError(t, err)
		assert.Equal(t, "0xf9cc4F0D883F1a1eb2c253bdb46c254Ca51E1F44", intent.Destination)
	})

	t.Run("ClaimRejectsEmptyAssets", func(t *testing.T) {
		_, err := b.BuildClaimRewards(8453, entity.ClaimRewardsParams{
			Assets: nil, Amount: "1", Recipient: recipientAddress, RewardToken: wethAddress,
		})
		assertInvalidParameter(t, err, "assets")
	})

	t.Run("ClaimRejectsBadAssetEntry", func(t *testing.T) {
		_, err := b.BuildClaimRewards(8453, entity.ClaimRewardsParams{
			Assets: []string{usdcAddress, "bad"}, Amount: "1", Recipient: recipientAddress, RewardToken: wethAddress,
		})
		assertInvalidAddress(t, err)
	})
}

func TestBuildBridgeIntents(t *testing.T) {
	b := newBuilder(t)
	bridgeAddress := "0x4200000000000000000000000000000000000010"

	erc20Params := entity.BridgeParams{
		LocalToken:  wethAddress,
		RemoteToken: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		Recipient:   recipientAddress,
		Amount:      "1000000000000000000",
	}

	t.Run("ERC20BridgeZeroValue", func(t *testing.T) {
		intent, err := b.BuildBridge(8453, erc20Params)
		require.NoError(t, err)
		assert.Equal(t, bridgeAddress, intent.Destination)
		assert.Zero(t, intent.Value.Sign())
	})

	t.Run("NativeBridgeCarriesValue", func(t *testing.T) {
		intent, err := b.BuildBridgeNative(8453, entity.BridgeNativeParams{
			Recipient: recipientAddress,
			Amount:    "2000000000000000000",
		})
		require.NoError(t, err)
		assert.Equal(t, bridgeAddress, intent.Destination)
		assert.Equal(t, big.NewInt(2000000000000000000), intent.Value)
	})

	t.Run("BridgingBoundOnTestnet", func(t *testing.T) {
		intent, err := b.BuildBridgeNative(84532, entity.BridgeNativeParams{
			Recipient: recipientAddress,
			Amount:    "1",
		})
		require.NoError(t, err)
		assert.Equal(t, bridgeAddress, intent.Destination)
		assert.Equal(t, uint64(84532), intent.ChainID)
	})

	t.Run("ZeroGasLimitGetsDefault", func(t *testing.T) {
		implicit, err := b.BuildBridge(8453, erc20Params)
		require.NoError(t, err)

		explicit := erc20Params
		explicit.MinGasLimit = 200000
		withDefault, err := b.BuildBridge(8453, explicit)
		require.NoError(t, err)

		assert.Equal(t, withDefault.Payload, implicit.Payload)
	})

	t.Run("RejectsBadRemoteToken", func(t *testing.T) {
		params := erc20Params
		params.RemoteToken = "0x123"
		_, err := b.BuildBridge(8453, params)
		assertInvalidAddress(t, err)
	})
}
