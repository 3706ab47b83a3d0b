package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"

	"github.com/wearedood/BaseEcosystemTools/internal/app/port"
	"github.com/wearedood/BaseEcosystemTools/internal/config"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/registry"
	"github.com/wearedood/BaseEcosystemTools/internal/pkg/analytics"
	"github.com/wearedood/BaseEcosystemTools/internal/pkg/utils"
)

// APIResponse is the envelope for every endpoint. Exactly one of Data and
// Error is set; ServiceErrors carries partial failures next to usable data.
type APIResponse struct {
	Data          any                    `json:"data,omitempty"`
	ServiceErrors []entity.SnapshotError `json:"service_errors,omitempty"`
	StatusMessage string                 `json:"status_message,omitempty"`
	Error         string                 `json:"error,omitempty"`
}

// Handler serves the HTTP API on top of the application services.
type Handler struct {
	reg        *registry.Registry
	clients    port.ClientProvider
	intents    port.IntentBuilder
	dispatcher port.Dispatcher
	portfolio  port.PortfolioService
	marketData port.MarketDataService
	cfg        *config.Config
	logger     port.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(
	reg *registry.Registry,
	clients port.ClientProvider,
	intents port.IntentBuilder,
	dispatcher port.Dispatcher,
	portfolio port.PortfolioService,
	marketData port.MarketDataService,
	cfg *config.Config,
	logger port.Logger,
) *Handler {
	return &Handler{
		reg:        reg,
		clients:    clients,
		intents:    intents,
		dispatcher: dispatcher,
		portfolio:  portfolio,
		marketData: marketData,
		cfg:        cfg,
		logger:     logger,
	}
}

// statusForError maps the error taxonomy onto HTTP status codes. Unknown
// errors fall through to 500 so nothing leaks as an accidental success.
func statusForError(err error) int {
	var invalidParam *entity.InvalidParameterError
	var invalidAddr *entity.InvalidAddressError
	var unsupported *entity.UnsupportedProtocolError
	var connectivity *entity.ConnectivityError
	var contractCall *entity.ContractCallError

	switch {
	case errors.As(err, &invalidParam), errors.As(err, &invalidAddr):
		return http.StatusBadRequest
	case errors.As(err, &unsupported):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrNoSigner):
		return http.StatusConflict
	case errors.As(err, &connectivity), errors.As(err, &contractCall):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), APIResponse{Error: err.Error()})
}

// chainID reads the chainId query parameter, defaulting to Base mainnet.
// On a malformed or unknown chain it writes the error response itself.
func (h *Handler) chainID(c *gin.Context) (uint64, bool) {
	raw := c.DefaultQuery("chainId", strconv.FormatUint(registry.BaseMainnet.ChainID, 10))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(c, &entity.InvalidParameterError{Field: "chainId", Reason: "must be a decimal chain id"})
		return 0, false
	}
	if _, ok := h.reg.Network(id); !ok {
		c.JSON(http.StatusNotFound, APIResponse{Error: fmt.Sprintf("unknown chain id %d", id)})
		return 0, false
	}
	return id, true
}

type statusResponse struct {
	Network         string `json:"network"`
	ChainID         uint64 `json:"chainId"`
	BlockNumber     uint64 `json:"blockNumber"`
	GasPriceWei     string `json:"gasPriceWei"`
	SignerAddress   string `json:"signerAddress,omitempty"`
	DispatchEnabled bool   `json:"dispatchEnabled"`
}

// GetStatusHandler reports chain connectivity and submission readiness.
func (h *Handler) GetStatusHandler(c *gin.Context) {
	chainID, ok := h.chainID(c)
	if !ok {
		return
	}
	client, err := h.clients.GetClient(chainID)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	block, err := client.BlockNumber(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	signer, hasSigner := client.SignerAddress()
	c.JSON(http.StatusOK, APIResponse{Data: statusResponse{
		Network:         client.Network().Name,
		ChainID:         chainID,
		BlockNumber:     block,
		GasPriceWei:     gasPrice.String(),
		SignerAddress:   signer,
		DispatchEnabled: h.cfg.Dispatch.Enabled && hasSigner,
	}})
}

// GetNetworksHandler lists every configured network.
func (h *Handler) GetNetworksHandler(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{Data: h.reg.Networks()})
}

// GetTokensHandler lists the registered tokens for the chain.
func (h *Handler) GetTokensHandler(c *gin.Context) {
	chainID, ok := h.chainID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, APIResponse{Data: h.reg.Tokens(chainID)})
}

// GetTokenMetadataHandler reads name, symbol and decimals from the token
// contract itself, registry or not.
func (h *Handler) GetTokenMetadataHandler(c *gin.Context) {
	chainID, ok := h.chainID(c)
	if !ok {
		return
	}
	client, err := h.clients.GetClient(chainID)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := client.TokenMetadata(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Data: token})
}

// GetProtocolsHandler lists the registered protocols, enriched with TVL
// where a market data source is configured.
func (h *Handler) GetProtocolsHandler(c *gin.Context) {
	chainID, ok := h.chainID(c)
	if !ok {
		return
	}
	protocols, err := h.marketData.EnrichedProtocols(c.Request.Context(), chainID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Data: protocols})
}

// GetPortfolioHandler assembles the priced snapshot for a single wallet.
func (h *Handler) GetPortfolioHandler(c *gin.Context) {
	chainID, ok := h.chainID(c)
	if !ok {
		return
	}
	snapshot, serviceErrors, err := h.portfolio.WalletSnapshot(c.Request.Context(), chainID, c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := APIResponse{Data: snapshot, ServiceErrors: serviceErrors}
	switch {
	case len(serviceErrors) > 0 && len(snapshot.Tokens) == 0:
		response.StatusMessage = "Failed to retrieve any holdings due to service errors."
	case len(serviceErrors) > 0:
		response.StatusMessage = "Snapshot retrieved. Some tokens may have encountered errors."
	case len(snapshot.Tokens) == 0:
		response.StatusMessage = "No holdings found. Check the registry token list for this network."
	default:
		response.StatusMessage = "Snapshot retrieved successfully."
	}
	c.JSON(http.StatusOK, response)
}

// GetPortfoliosHandler assembles snapshots for a comma-separated address list.
func (h *Handler) GetPortfoliosHandler(c *gin.Context) {
	chainID, ok := h.chainID(c)
	if !ok {
		return
	}

	var addresses []string
	for _, raw := range strings.Split(c.Query("addresses"), ",") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			addresses = append(addresses, trimmed)
		}
	}
	if len(addresses) == 0 {
		respondError(c, &entity.InvalidParameterError{Field: "addresses", Reason: "at least one address is required"})
		return
	}

	snapshots, serviceErrors, err := h.portfolio.WalletSnapshots(c.Request.Context(), chainID, addresses)
	if err != nil {
		respondError(c, err)
		return
	}

	response := APIResponse{Data: snapshots, ServiceErrors: serviceErrors}
	switch {
	case len(serviceErrors) > 0 && len(snapshots) == 0:
		response.StatusMessage = "Failed to retrieve any snapshots due to service errors."
	case len(serviceErrors) > 0:
		response.StatusMessage = "Snapshots retrieved. Some wallets or tokens may have encountered errors."
	default:
		response.StatusMessage = "Snapshots retrieved successfully."
	}
	c.JSON(http.StatusOK, response)
}

type poolResponse struct {
	entity.PoolInfo
	Liquidity    string `json:"liquidity"`
	SqrtPriceX96 string `json:"sqrtPriceX96"`
}

// GetPoolHandler resolves a pool through the exchange factory and reads its
// current state.
func (h *Handler) GetPoolHandler(c *gin.Context) {
	chainID, ok := h.chainID(c)
	if !ok {
		return
	}
	feeTier, err := strconv.ParseUint(c.Param("fee"), 10, 32)
	if err != nil {
		respondError(c, &entity.InvalidParameterError{Field: "fee", Reason: "must be a decimal fee tier"})
		return
	}
	factory, ok := h.reg.ProtocolByName(chainID, registry.ProtocolUniswapV3Factory)
	if !ok {
		respondError(c, &entity.UnsupportedProtocolError{ChainID: chainID, Key: registry.ProtocolUniswapV3Factory})
		return
	}
	client, err := h.clients.GetClient(chainID)
	if err != nil {
		respondError(c, err)
		return
	}

	pool, err := client.PoolInfo(c.Request.Context(), factory.Address, c.Param("tokenA"), c.Param("tokenB"), uint32(feeTier))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Data: poolResponse{
		PoolInfo:     pool,
		Liquidity:    pool.Liquidity.String(),
		SqrtPriceX96: pool.SqrtPriceX96.String(),
	}})
}

// GetQuoteHandler simulates an exact-input swap through the quoter contract.
func (h *Handler) GetQuoteHandler(c *gin.Context) {
	chainID, ok := h.chainID(c)
	if !ok {
		return
	}
	feeTier, err := strconv.ParseUint(c.Query("feeTier"), 10, 32)
	if err != nil {
		respondError(c, &entity.InvalidParameterError{Field: "feeTier", Reason: "must be a decimal fee tier"})
		return
	}
	amountIn, okAmount := utils.ParseBigInt(c.Query("amountIn"))
	if !okAmount || amountIn.Sign() <= 0 {
		respondError(c, &entity.InvalidParameterError{Field: "amountIn", Reason: "must be a positive base-10 integer"})
		return
	}
	quoter, ok := h.reg.ProtocolByName(chainID, registry.ProtocolUniswapV3Quoter)
	if !ok {
		respondError(c, &entity.UnsupportedProtocolError{ChainID: chainID, Key: registry.ProtocolUniswapV3Quoter})
		return
	}
	client, err := h.clients.GetClient(chainID)
	if err != nil {
		respondError(c, err)
		return
	}

	quote, err := client.Quote(c.Request.Context(), quoter.Address, c.Query("tokenIn"), c.Query("tokenOut"), uint32(feeTier), amountIn)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Data: quote})
}

type lendingResponse struct {
	TotalCollateralBase  string  `json:"totalCollateralBase"`
	TotalDebtBase        string  `json:"totalDebtBase"`
	AvailableBorrowsBase string  `json:"availableBorrowsBase"`
	LiquidationThreshold float64 `json:"liquidationThreshold"`
	LTV                  float64 `json:"ltv"`
	HealthFactor         float64 `json:"healthFactor"`
	AtLiquidationRisk    bool    `json:"atLiquidationRisk"`
}

// GetLendingHandler reads the aggregate lending position of an account.
func (h *Handler) GetLendingHandler(c *gin.Context) {
	chainID, ok := h.chainID(c)
	if !ok {
		return
	}
	pool, err := h.reg.ProtocolFor(chainID, entity.OpSupply)
	if err != nil {
		respondError(c, err)
		return
	}
	client, err := h.clients.GetClient(chainID)
	if err != nil {
		respondError(c, err)
		return
	}

	account, err := client.LendingAccountData(c.Request.Context(), pool.Address, c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Data: lendingResponse{
		TotalCollateralBase:  account.TotalCollateralBase.String(),
		TotalDebtBase:        account.TotalDebtBase.String(),
		AvailableBorrowsBase: account.AvailableBorrowsBase.String(),
		LiquidationThreshold: account.LiquidationThreshold,
		LTV:                  account.LTV,
		HealthFactor:         account.HealthFactor,
		AtLiquidationRisk:    analytics.AtLiquidationRisk(account),
	}})
}

type analyticsRequest struct {
	Positions []entity.Position `json:"positions"`
}

type analyticsResponse struct {
	Snapshot    entity.PortfolioSnapshot      `json:"snapshot"`
	RiskScore   float64                       `json:"riskScore"`
	Suggestions entity.RebalancingSuggestions `json:"suggestions"`
}

// PostAnalyticsHandler runs the pure portfolio helpers over caller-supplied
// positions.
func (h *Handler) PostAnalyticsHandler(c *gin.Context) {
	var req analyticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &entity.InvalidParameterError{Field: "positions", Reason: err.Error()})
		return
	}

	snapshot := analytics.AggregateValue(req.Positions)
	c.JSON(http.StatusOK, APIResponse{Data: analyticsResponse{
		Snapshot:    snapshot,
		RiskScore:   analytics.RiskScore(req.Positions),
		Suggestions: analytics.Rebalancing(snapshot),
	}})
}

type intentRequest struct {
	ChainID uint64               `json:"chainId"`
	Kind    entity.OperationKind `json:"kind"`
	Params  json.RawMessage      `json:"params"`
}

type intentResponse struct {
	ChainID     uint64               `json:"chainId"`
	Kind        entity.OperationKind `json:"kind"`
	Protocol    string               `json:"protocol"`
	Destination string               `json:"destination"`
	Value       string               `json:"value"`
	Payload     string               `json:"payload"`
}

// PostIntentHandler builds and returns an intent without submitting it.
func (h *Handler) PostIntentHandler(c *gin.Context) {
	var req intentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &entity.InvalidParameterError{Field: "body", Reason: err.Error()})
		return
	}

	intent, err := h.buildIntent(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Data: intentResponse{
		ChainID:     intent.ChainID,
		Kind:        intent.Kind,
		Protocol:    intent.Protocol,
		Destination: intent.Destination,
		Value:       intent.Value.String(),
		Payload:     hexutil.Encode(intent.Payload),
	}})
}

// PostDispatchHandler builds an intent and submits it on-chain. Refused
// outright when dispatch is disabled in the configuration.
func (h *Handler) PostDispatchHandler(c *gin.Context) {
	if !h.cfg.Dispatch.Enabled {
		c.JSON(http.StatusForbidden, APIResponse{Error: "transaction dispatch is disabled"})
		return
	}

	var req intentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &entity.InvalidParameterError{Field: "body", Reason: err.Error()})
		return
	}

	intent, err := h.buildIntent(req)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), intent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Data: result})
}

// buildIntent routes the request to the builder method for its kind.
func (h *Handler) buildIntent(req intentRequest) (entity.TransactionIntent, error) {
	switch req.Kind {
	case entity.OpSwapExactIn:
		return buildWith(h.intents.BuildSwapExactIn, req)
	case entity.OpAddLiquidity:
		return buildWith(h.intents.BuildAddLiquidity, req)
	case entity.OpRemoveLiquidity:
		return buildWith(h.intents.BuildRemoveLiquidity, req)
	case entity.OpSupply:
		return buildWith(h.intents.BuildSupply, req)
	case entity.OpWithdraw:
		return buildWith(h.intents.BuildWithdraw, req)
	case entity.OpBorrow:
		return buildWith(h.intents.BuildBorrow, req)
	case entity.OpRepay:
		return buildWith(h.intents.BuildRepay, req)
	case entity.OpStake:
		return buildWith(h.intents.BuildStake, req)
	case entity.OpClaimRewards:
		return buildWith(h.intents.BuildClaimRewards, req)
	case entity.OpBridge:
		return buildWith(h.intents.BuildBridge, req)
	case entity.OpBridgeNative:
		return buildWith(h.intents.BuildBridgeNative, req)
	default:
		return entity.TransactionIntent{}, &entity.InvalidParameterError{
			Field: "kind", Reason: fmt.Sprintf("unknown operation kind %q", req.Kind)}
	}
}

// buildWith decodes the raw params into the builder's parameter type and
// invokes it.
func buildWith[P any](build func(uint64, P) (entity.TransactionIntent, error), req intentRequest) (entity.TransactionIntent, error) {
	var params P
	if len(req.Params) == 0 {
		return entity.TransactionIntent{}, &entity.InvalidParameterError{Field: "params", Reason: "required"}
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return entity.TransactionIntent{}, &entity.InvalidParameterError{Field: "params", Reason: err.Error()}
	}
	return build(req.ChainID, params)
}
