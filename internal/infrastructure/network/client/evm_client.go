package client

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"

	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/registry"
	"github.com/wearedood/BaseEcosystemTools/internal/infrastructure/contracts"
	"github.com/wearedood/BaseEcosystemTools/internal/pkg/metrics"
	"github.com/wearedood/BaseEcosystemTools/internal/pkg/utils"
)

// Backend is the subset of the go-ethereum client the EVM client needs.
// *ethclient.Client satisfies it; tests substitute fakes.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// BatchCaller issues raw JSON-RPC batches. *rpc.Client satisfies it.
type BatchCaller interface {
	BatchCallContext(ctx context.Context, b []rpc.BatchElem) error
}

// Options tunes a client. Zero values fall back to safe defaults.
type Options struct {
	DialTimeout    time.Duration
	CallTimeout    time.Duration
	RateLimit      int
	RateBurst      int
	ReceiptTimeout time.Duration
	ReceiptPoll    time.Duration
	SignerKey      *ecdsa.PrivateKey
}

const (
	defaultDialTimeout    = 10 * time.Second
	defaultCallTimeout    = 15 * time.Second
	defaultReceiptTimeout = 2 * time.Minute
	defaultReceiptPoll    = 2 * time.Second
)

// EVMClient talks to one EVM network over JSON-RPC. All public methods
// pass through a rate limiter and honour the configured call timeout.
type EVMClient struct {
	backend        Backend
	batch          BatchCaller
	network        entity.NetworkConfig
	signerKey      *ecdsa.PrivateKey
	limiter        *rate.Limiter
	callTimeout    time.Duration
	receiptTimeout time.Duration
	receiptPoll    time.Duration
	closeFn        func()
}

// NewEVMClient dials the network's primary RPC endpoint, falling back
// through the configured alternates. Each candidate connection is
// verified against the expected chain id before it is accepted.
func NewEVMClient(network entity.NetworkConfig, opts Options) (*EVMClient, error) {
	dialTimeout := opts.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = defaultDialTimeout
	}

	rpcURLs := append([]string{network.PrimaryRPCURL}, network.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)

		ethCl, err := ethclient.DialContext(ctx, rpcURL)
		if err != nil {
			cancel()
			lastErr = &entity.ConnectivityError{Endpoint: rpcURL, Err: err}
			continue
		}

		gotID, err := ethCl.ChainID(ctx)
		cancel()
		if err != nil {
			ethCl.Close()
			lastErr = &entity.ConnectivityError{Endpoint: rpcURL, Err: err}
			continue
		}
		if gotID.Uint64() != network.ChainID {
			ethCl.Close()
			lastErr = fmt.Errorf("chain id mismatch for %s: expected %d, got %s", rpcURL, network.ChainID, gotID)
			continue
		}

		c := newWithBackend(network, ethCl, ethCl.Client(), opts)
		c.closeFn = ethCl.Close
		return c, nil
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", network.Name, lastErr)
}

// NewEVMClientWithBackend wires a client over an existing backend.
// Used by tests and by anything embedding its own connection handling.
func NewEVMClientWithBackend(network entity.NetworkConfig, backend Backend, batch BatchCaller, opts Options) *EVMClient {
	return newWithBackend(network, backend, batch, opts)
}

func newWithBackend(network entity.NetworkConfig, backend Backend, batch BatchCaller, opts Options) *EVMClient {
	callTimeout := opts.CallTimeout
	if callTimeout == 0 {
		callTimeout = defaultCallTimeout
	}
	receiptTimeout := opts.ReceiptTimeout
	if receiptTimeout == 0 {
		receiptTimeout = defaultReceiptTimeout
	}
	receiptPoll := opts.ReceiptPoll
	if receiptPoll == 0 {
		receiptPoll = defaultReceiptPoll
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = opts.RateLimit
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &EVMClient{
		backend:        backend,
		batch:          batch,
		network:        network,
		signerKey:      opts.SignerKey,
		limiter:        limiter,
		callTimeout:    callTimeout,
		receiptTimeout: receiptTimeout,
		receiptPoll:    receiptPoll,
	}
}

// Network returns the network this client is connected to.
func (c *EVMClient) Network() entity.NetworkConfig {
	return c.network
}

// Close releases the underlying RPC connection, if the client owns one.
func (c *EVMClient) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// SignerAddress returns the address of the configured signing key.
func (c *EVMClient) SignerAddress() (string, bool) {
	if c.signerKey == nil {
		return "", false
	}
	return crypto.PubkeyToAddress(c.signerKey.PublicKey).Hex(), true
}

func (c *EVMClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.callTimeout)
}

func (c *EVMClient) observe(method string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.RPCRequestsTotal.WithLabelValues(method, outcome).Inc()
	metrics.RPCRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (c *EVMClient) connErr(err error) error {
	return &entity.ConnectivityError{Endpoint: c.network.PrimaryRPCURL, Err: err}
}

// BlockNumber returns the latest block height.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	start := time.Now()
	n, err := c.backend.BlockNumber(callCtx)
	c.observe("eth_blockNumber", start, err)
	if err != nil {
		return 0, c.connErr(err)
	}
	return n, nil
}

// SuggestGasPrice returns the node's current gas price suggestion.
func (c *EVMClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	start := time.Now()
	price, err := c.backend.SuggestGasPrice(callCtx)
	c.observe("eth_gasPrice", start, err)
	if err != nil {
		return nil, c.connErr(err)
	}
	return price, nil
}

// NativeBalance fetches the native currency balance for a wallet.
func (c *EVMClient) NativeBalance(ctx context.Context, walletAddress string) (entity.Balance, error) {
	if !registry.IsHexAddress(walletAddress) {
		return entity.Balance{}, &entity.InvalidAddressError{Address: walletAddress}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.Balance{}, err
	}
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	start := time.Now()
	amount, err := c.backend.BalanceAt(callCtx, common.HexToAddress(walletAddress), nil)
	c.observe("eth_getBalance", start, err)
	if err != nil {
		return entity.Balance{}, c.connErr(err)
	}

	formatted, err := utils.FormatBigInt(amount, c.network.NativeDecimals)
	if err != nil {
		return entity.Balance{}, fmt.Errorf("failed to format native balance: %w", err)
	}

	return entity.Balance{
		WalletAddress:    walletAddress,
		ChainID:          c.network.ChainID,
		TokenAddress:     entity.ZeroAddress,
		TokenSymbol:      c.network.NativeSymbol,
		Decimals:         c.network.NativeDecimals,
		IsNative:         true,
		Amount:           amount,
		FormattedBalance: formatted,
	}, nil
}

// TokenBalance fetches the raw smallest-unit balance of a token for a wallet.
func (c *EVMClient) TokenBalance(ctx context.Context, tokenAddress, walletAddress string) (*big.Int, error) {
	if !registry.IsHexAddress(tokenAddress) {
		return nil, &entity.InvalidAddressError{Address: tokenAddress}
	}
	if !registry.IsHexAddress(walletAddress) {
		return nil, &entity.InvalidAddressError{Address: walletAddress}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callData, err := contracts.ERC20().Pack("balanceOf", common.HexToAddress(walletAddress))
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	token := common.HexToAddress(tokenAddress)
	start := time.Now()
	raw, err := c.backend.CallContract(callCtx, ethereum.CallMsg{To: &token, Data: callData}, nil)
	c.observe("eth_call", start, err)
	if err != nil {
		return nil, &entity.ContractCallError{Contract: tokenAddress, Method: "balanceOf", Err: err}
	}
	if len(raw) == 0 {
		return big.NewInt(0), nil
	}

	unpacked, err := contracts.ERC20().Unpack("balanceOf", raw)
	if err != nil {
		return nil, &entity.ContractCallError{Contract: tokenAddress, Method: "balanceOf", Err: err}
	}
	balance, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, &entity.ContractCallError{Contract: tokenAddress, Method: "balanceOf",
			Err: fmt.Errorf("unexpected balanceOf result type %T", unpacked[0])}
	}
	return balance, nil
}

// TokenMetadata reads name, symbol and decimals from a token contract in
// a single batch round trip.
func (c *EVMClient) TokenMetadata(ctx context.Context, tokenAddress string) (entity.TokenDescriptor, error) {
	if !registry.IsHexAddress(tokenAddress) {
		return entity.TokenDescriptor{}, &entity.InvalidAddressError{Address: tokenAddress}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.TokenDescriptor{}, err
	}

	token := common.HexToAddress(tokenAddress)
	methods := []string{"name", "symbol", "decimals"}
	batchElems := make([]rpc.BatchElem, len(methods))
	for i, method := range methods {
		callData, err := contracts.ERC20().Pack(method)
		if err != nil {
			return entity.TokenDescriptor{}, fmt.Errorf("failed to pack %s call: %w", method, err)
		}
		batchElems[i] = rpc.BatchElem{
			Method: "eth_call",
			Args: []interface{}{map[string]interface{}{
				"to":   token,
				"data": hexutil.Bytes(callData),
			}, "latest"},
			Result: new(hexutil.Bytes),
		}
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	start := time.Now()
	err := c.batch.BatchCallContext(callCtx, batchElems)
	c.observe("eth_call_batch", start, err)
	if err != nil {
		return entity.TokenDescriptor{}, c.connErr(err)
	}

	desc := entity.TokenDescriptor{ChainID: c.network.ChainID, Address: tokenAddress}
	for i, method := range methods {
		if batchElems[i].Error != nil {
			return entity.TokenDescriptor{}, &entity.ContractCallError{Contract: tokenAddress, Method: method, Err: batchElems[i].Error}
		}
		raw, ok := batchElems[i].Result.(*hexutil.Bytes)
		if !ok || raw == nil {
			return entity.TokenDescriptor{}, &entity.ContractCallError{Contract: tokenAddress, Method: method,
				Err: errors.New("unexpected batch result type")}
		}
		unpacked, err := contracts.ERC20().Unpack(method, *raw)
		if err != nil {
			return entity.TokenDescriptor{}, &entity.ContractCallError{Contract: tokenAddress, Method: method, Err: err}
		}
		switch method {
		case "name":
			desc.Name, _ = unpacked[0].(string)
		case "symbol":
			desc.Symbol, _ = unpacked[0].(string)
		case "decimals":
			decimals, ok := unpacked[0].(uint8)
			if !ok {
				return entity.TokenDescriptor{}, &entity.ContractCallError{Contract: tokenAddress, Method: method,
					Err: fmt.Errorf("unexpected decimals result type %T", unpacked[0])}
			}
			desc.Decimals = decimals
		}
	}
	return desc, nil
}

// Balances resolves a batch of balance requests in a single JSON-RPC
// batch. Invalid items and per-call failures are reported on the item;
// only a transport-level failure errors the whole call.
func (c *EVMClient) Balances(ctx context.Context, requests []entity.BalanceRequestItem) ([]entity.BalanceResultItem, error) {
	if len(requests) == 0 {
		return []entity.BalanceResultItem{}, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	results := make([]entity.BalanceResultItem, len(requests))
	batchElems := make([]rpc.BatchElem, 0, len(requests))
	elemIdx := make([]int, 0, len(requests))

	for i, reqItem := range requests {
		results[i] = entity.BalanceResultItem{
			RequestID:     reqItem.ID,
			WalletAddress: reqItem.WalletAddress,
			ChainID:       c.network.ChainID,
			TokenAddress:  reqItem.TokenAddress,
			TokenSymbol:   reqItem.TokenSymbol,
			Decimals:      reqItem.TokenDecimals,
			IsNative:      reqItem.Type == entity.NativeBalanceRequest,
		}

		if !registry.IsHexAddress(reqItem.WalletAddress) {
			results[i].Error = &entity.InvalidAddressError{Address: reqItem.WalletAddress}
			continue
		}

		switch reqItem.Type {
		case entity.NativeBalanceRequest:
			batchElems = append(batchElems, rpc.BatchElem{
				Method: "eth_getBalance",
				Args:   []interface{}{common.HexToAddress(reqItem.WalletAddress), "latest"},
				Result: new(hexutil.Big),
			})
			elemIdx = append(elemIdx, i)
		case entity.TokenBalanceRequest:
			if !registry.IsHexAddress(reqItem.TokenAddress) {
				results[i].Error = &entity.InvalidAddressError{Address: reqItem.TokenAddress}
				continue
			}
			callData, err := contracts.ERC20().Pack("balanceOf", common.HexToAddress(reqItem.WalletAddress))
			if err != nil {
				results[i].Error = fmt.Errorf("failed to pack balanceOf call for %s: %w", reqItem.TokenSymbol, err)
				continue
			}
			batchElems = append(batchElems, rpc.BatchElem{
				Method: "eth_call",
				Args: []interface{}{map[string]interface{}{
					"to":   common.HexToAddress(reqItem.TokenAddress),
					"data": hexutil.Bytes(callData),
				}, "latest"},
				Result: new(hexutil.Bytes),
			})
			elemIdx = append(elemIdx, i)
		default:
			results[i].Error = fmt.Errorf("unknown balance request type: %v for %s", reqItem.Type, reqItem.TokenSymbol)
		}
	}

	if len(batchElems) == 0 {
		return results, nil
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	start := time.Now()
	err := c.batch.BatchCallContext(callCtx, batchElems)
	c.observe("eth_call_batch", start, err)
	if err != nil {
		return results, c.connErr(fmt.Errorf("RPC batch call failed: %w", err))
	}

	for pos, elem := range batchElems {
		i := elemIdx[pos]
		if elem.Error != nil {
			results[i].Error = fmt.Errorf("failed to fetch %s for wallet %s: %w",
				requests[i].TokenSymbol, requests[i].WalletAddress, elem.Error)
			continue
		}

		switch requests[i].Type {
		case entity.NativeBalanceRequest:
			if result, ok := elem.Result.(*hexutil.Big); ok && result != nil {
				results[i].Balance = (*big.Int)(result)
			} else {
				results[i].Error = fmt.Errorf("failed to decode native balance for %s: unexpected result", requests[i].WalletAddress)
			}
		case entity.TokenBalanceRequest:
			raw, ok := elem.Result.(*hexutil.Bytes)
			if !ok || raw == nil {
				results[i].Error = fmt.Errorf("failed to decode token balance for %s: unexpected result", requests[i].TokenSymbol)
				continue
			}
			if len(*raw) == 0 {
				results[i].Balance = big.NewInt(0)
				break
			}
			unpacked, err := contracts.ERC20().Unpack("balanceOf", *raw)
			if err != nil {
				results[i].Error = fmt.Errorf("failed to unpack balanceOf result for %s: %w", requests[i].TokenSymbol, err)
				continue
			}
			balance, ok := unpacked[0].(*big.Int)
			if !ok {
				results[i].Error = fmt.Errorf("unexpected balanceOf result type %T for %s", unpacked[0], requests[i].TokenSymbol)
				continue
			}
			results[i].Balance = balance
		}

		if results[i].Error == nil && results[i].Balance != nil {
			formatted, err := utils.FormatBigInt(results[i].Balance, results[i].Decimals)
			if err != nil {
				results[i].Error = fmt.Errorf("failed to format balance for %s: %w", requests[i].TokenSymbol, err)
			} else {
				results[i].FormattedBalance = formatted
			}
		} else if results[i].Error == nil && results[i].Balance == nil {
			results[i].Balance = big.NewInt(0)
			results[i].FormattedBalance = "0"
		}
	}
	return results, nil
}

// PoolInfo resolves the pool for a token pair and fee tier through the
// factory, then reads its liquidity and price state in one batch.
// Token0/Token1 in the result echo the request order.
func (c *EVMClient) PoolInfo(ctx context.Context, factoryAddress, tokenA, tokenB string, feeTier uint32) (entity.PoolInfo, error) {
	for _, addr := range []string{factoryAddress, tokenA, tokenB} {
		if !registry.IsHexAddress(addr) {
			return entity.PoolInfo{}, &entity.InvalidAddressError{Address: addr}
		}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.PoolInfo{}, err
	}

	callData, err := contracts.PoolFactory().Pack("getPool",
		common.HexToAddress(tokenA), common.HexToAddress(tokenB), big.NewInt(int64(feeTier)))
	if err != nil {
		return entity.PoolInfo{}, fmt.Errorf("failed to pack getPool call: %w", err)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	factory := common.HexToAddress(factoryAddress)
	start := time.Now()
	raw, err := c.backend.CallContract(callCtx, ethereum.CallMsg{To: &factory, Data: callData}, nil)
	c.observe("eth_call", start, err)
	if err != nil {
		return entity.PoolInfo{}, &entity.ContractCallError{Contract: factoryAddress, Method: "getPool", Err: err}
	}

	unpacked, err := contracts.PoolFactory().Unpack("getPool", raw)
	if err != nil {
		return entity.PoolInfo{}, &entity.ContractCallError{Contract: factoryAddress, Method: "getPool", Err: err}
	}
	poolAddr, ok := unpacked[0].(common.Address)
	if !ok {
		return entity.PoolInfo{}, &entity.ContractCallError{Contract: factoryAddress, Method: "getPool",
			Err: fmt.Errorf("unexpected getPool result type %T", unpacked[0])}
	}
	if poolAddr == (common.Address{}) {
		return entity.PoolInfo{}, &entity.ContractCallError{Contract: factoryAddress, Method: "getPool",
			Err: errors.New("pool does not exist for pair and fee tier")}
	}

	slot0Data, err := contracts.UniswapPool().Pack("slot0")
	if err != nil {
		return entity.PoolInfo{}, fmt.Errorf("failed to pack slot0 call: %w", err)
	}
	liquidityData, err := contracts.UniswapPool().Pack("liquidity")
	if err != nil {
		return entity.PoolInfo{}, fmt.Errorf("failed to pack liquidity call: %w", err)
	}

	batchElems := []rpc.BatchElem{
		{
			Method: "eth_call",
			Args: []interface{}{map[string]interface{}{
				"to":   poolAddr,
				"data": hexutil.Bytes(slot0Data),
			}, "latest"},
			Result: new(hexutil.Bytes),
		},
		{
			Method: "eth_call",
			Args: []interface{}{map[string]interface{}{
				"to":   poolAddr,
				"data": hexutil.Bytes(liquidityData),
			}, "latest"},
			Result: new(hexutil.Bytes),
		},
	}

	start = time.Now()
	err = c.batch.BatchCallContext(callCtx, batchElems)
	c.observe("eth_call_batch", start, err)
	if err != nil {
		return entity.PoolInfo{}, c.connErr(err)
	}
	for i, method := range []string{"slot0", "liquidity"} {
		if batchElems[i].Error != nil {
			return entity.PoolInfo{}, &entity.ContractCallError{Contract: poolAddr.Hex(), Method: method, Err: batchElems[i].Error}
		}
	}

	info := entity.PoolInfo{
		Token0:      tokenA,
		Token1:      tokenB,
		FeeTier:     feeTier,
		PoolAddress: poolAddr.Hex(),
	}

	slot0Raw := batchElems[0].Result.(*hexutil.Bytes)
	slot0Vals, err := contracts.UniswapPool().Unpack("slot0", *slot0Raw)
	if err != nil {
		return entity.PoolInfo{}, &entity.ContractCallError{Contract: poolAddr.Hex(), Method: "slot0", Err: err}
	}
	sqrtPrice, ok := slot0Vals[0].(*big.Int)
	if !ok {
		return entity.PoolInfo{}, &entity.ContractCallError{Contract: poolAddr.Hex(), Method: "slot0",
			Err: fmt.Errorf("unexpected sqrtPriceX96 type %T", slot0Vals[0])}
	}
	tick, ok := slot0Vals[1].(*big.Int)
	if !ok {
		return entity.PoolInfo{}, &entity.ContractCallError{Contract: poolAddr.Hex(), Method: "slot0",
			Err: fmt.Errorf("unexpected tick type %T", slot0Vals[1])}
	}
	info.SqrtPriceX96 = sqrtPrice
	info.Tick = int32(tick.Int64())

	liquidityRaw := batchElems[1].Result.(*hexutil.Bytes)
	liquidityVals, err := contracts.UniswapPool().Unpack("liquidity", *liquidityRaw)
	if err != nil {
		return entity.PoolInfo{}, &entity.ContractCallError{Contract: poolAddr.Hex(), Method: "liquidity", Err: err}
	}
	liquidity, ok := liquidityVals[0].(*big.Int)
	if !ok {
		return entity.PoolInfo{}, &entity.ContractCallError{Contract: poolAddr.Hex(), Method: "liquidity",
			Err: fmt.Errorf("unexpected liquidity type %T", liquidityVals[0])}
	}
	info.Liquidity = liquidity

	return info, nil
}

// Quote simulates an exact-input swap through the quoter contract.
func (c *EVMClient) Quote(ctx context.Context, quoterAddress, tokenIn, tokenOut string, feeTier uint32, amountIn *big.Int) (entity.QuoteResult, error) {
	for _, addr := range []string{quoterAddress, tokenIn, tokenOut} {
		if !registry.IsHexAddress(addr) {
			return entity.QuoteResult{}, &entity.InvalidAddressError{Address: addr}
		}
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return entity.QuoteResult{}, &entity.InvalidParameterError{Field: "amountIn", Reason: "must be a positive integer"}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.QuoteResult{}, err
	}

	callData, err := contracts.Quoter().Pack("quoteExactInputSingle", contracts.QuoteExactInputSingleParams{
		TokenIn:           common.HexToAddress(tokenIn),
		TokenOut:          common.HexToAddress(tokenOut),
		AmountIn:          amountIn,
		Fee:               big.NewInt(int64(feeTier)),
		SqrtPriceLimitX96: big.NewInt(0),
	})
	if err != nil {
		return entity.QuoteResult{}, fmt.Errorf("failed to pack quoteExactInputSingle call: %w", err)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	quoter := common.HexToAddress(quoterAddress)
	start := time.Now()
	raw, err := c.backend.CallContract(callCtx, ethereum.CallMsg{To: &quoter, Data: callData}, nil)
	c.observe("eth_call", start, err)
	if err != nil {
		return entity.QuoteResult{}, &entity.ContractCallError{Contract: quoterAddress, Method: "quoteExactInputSingle", Err: err}
	}

	unpacked, err := contracts.Quoter().Unpack("quoteExactInputSingle", raw)
	if err != nil {
		return entity.QuoteResult{}, &entity.ContractCallError{Contract: quoterAddress, Method: "quoteExactInputSingle", Err: err}
	}
	amountOut, ok := unpacked[0].(*big.Int)
	if !ok {
		return entity.QuoteResult{}, &entity.ContractCallError{Contract: quoterAddress, Method: "quoteExactInputSingle",
			Err: fmt.Errorf("unexpected amountOut type %T", unpacked[0])}
	}
	gasEstimate, ok := unpacked[3].(*big.Int)
	if !ok {
		return entity.QuoteResult{}, &entity.ContractCallError{Contract: quoterAddress, Method: "quoteExactInputSingle",
			Err: fmt.Errorf("unexpected gasEstimate type %T", unpacked[3])}
	}

	return entity.QuoteResult{
		AmountOut:   amountOut.String(),
		GasEstimate: gasEstimate.Uint64(),
	}, nil
}

// wadScale converts Aave's 1e18-scaled ratios to floats.
var wadScale = new(big.Float).SetFloat64(1e18)

// LendingAccountData reads the aggregate lending position of an account.
// Threshold and LTV come back in basis points and are converted to
// percentages; the health factor is wad-scaled and converted to a float.
func (c *EVMClient) LendingAccountData(ctx context.Context, poolAddress, ownerAddress string) (entity.LendingAccountData, error) {
	if !registry.IsHexAddress(poolAddress) {
		return entity.LendingAccountData{}, &entity.InvalidAddressError{Address: poolAddress}
	}
	if !registry.IsHexAddress(ownerAddress) {
		return entity.LendingAccountData{}, &entity.InvalidAddressError{Address: ownerAddress}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.LendingAccountData{}, err
	}

	callData, err := contracts.AavePool().Pack("getUserAccountData", common.HexToAddress(ownerAddress))
	if err != nil {
		return entity.LendingAccountData{}, fmt.Errorf("failed to pack getUserAccountData call: %w", err)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	pool := common.HexToAddress(poolAddress)
	start := time.Now()
	raw, err := c.backend.CallContract(callCtx, ethereum.CallMsg{To: &pool, Data: callData}, nil)
	c.observe("eth_call", start, err)
	if err != nil {
		return entity.LendingAccountData{}, &entity.ContractCallError{Contract: poolAddress, Method: "getUserAccountData", Err: err}
	}

	unpacked, err := contracts.AavePool().Unpack("getUserAccountData", raw)
	if err != nil {
		return entity.LendingAccountData{}, &entity.ContractCallError{Contract: poolAddress, Method: "getUserAccountData", Err: err}
	}
	vals := make([]*big.Int, len(unpacked))
	for i, v := range unpacked {
		n, ok := v.(*big.Int)
		if !ok {
			return entity.LendingAccountData{}, &entity.ContractCallError{Contract: poolAddress, Method: "getUserAccountData",
				Err: fmt.Errorf("unexpected result type %T at index %d", v, i)}
		}
		vals[i] = n
	}

	healthFactor, _ := new(big.Float).Quo(new(big.Float).SetInt(vals[5]), wadScale).Float64()

	return entity.LendingAccountData{
		TotalCollateralBase:  vals[0],
		TotalDebtBase:        vals[1],
		AvailableBorrowsBase: vals[2],
		LiquidationThreshold: float64(vals[3].Int64()) / 100,
		LTV:                  float64(vals[4].Int64()) / 100,
		HealthFactor:         healthFactor,
	}, nil
}

// Submit signs the intent, sends the transaction and waits for it to be
// mined. Without a configured signing key it fails immediately and
// never touches the network.
func (c *EVMClient) Submit(ctx context.Context, intent entity.TransactionIntent) (entity.TransactionResult, error) {
	if c.signerKey == nil {
		return entity.TransactionResult{}, entity.ErrNoSigner
	}
	if intent.ChainID != c.network.ChainID {
		return entity.TransactionResult{}, &entity.InvalidParameterError{Field: "chainId",
			Reason: fmt.Sprintf("intent targets chain %d, client is connected to %d", intent.ChainID, c.network.ChainID)}
	}
	if !registry.IsHexAddress(intent.Destination) {
		return entity.TransactionResult{}, &entity.InvalidAddressError{Address: intent.Destination}
	}
	if len(intent.Payload) == 0 {
		return entity.TransactionResult{}, &entity.InvalidParameterError{Field: "payload", Reason: "must not be empty"}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.TransactionResult{}, err
	}

	from := crypto.PubkeyToAddress(c.signerKey.PublicKey)
	to := common.HexToAddress(intent.Destination)
	value := intent.Value
	if value == nil {
		value = big.NewInt(0)
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	start := time.Now()
	nonce, err := c.backend.PendingNonceAt(callCtx, from)
	c.observe("eth_getTransactionCount", start, err)
	if err != nil {
		return entity.TransactionResult{}, c.connErr(err)
	}

	start = time.Now()
	gasPrice, err := c.backend.SuggestGasPrice(callCtx)
	c.observe("eth_gasPrice", start, err)
	if err != nil {
		return entity.TransactionResult{}, c.connErr(err)
	}

	start = time.Now()
	gasLimit, err := c.backend.EstimateGas(callCtx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  intent.Payload,
	})
	c.observe("eth_estimateGas", start, err)
	if err != nil {
		return entity.TransactionResult{}, &entity.ContractCallError{Contract: intent.Destination, Method: string(intent.Kind), Err: err}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     intent.Payload,
	})
	chainID := new(big.Int).SetUint64(c.network.ChainID)
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.signerKey)
	if err != nil {
		return entity.TransactionResult{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	start = time.Now()
	err = c.backend.SendTransaction(callCtx, signedTx)
	c.observe("eth_sendRawTransaction", start, err)
	if err != nil {
		return entity.TransactionResult{}, c.connErr(err)
	}

	receipt, err := c.waitMined(ctx, signedTx.Hash())
	if err != nil {
		return entity.TransactionResult{}, err
	}

	status := entity.TxStatusFailed
	if receipt.Status == types.ReceiptStatusSuccessful {
		status = entity.TxStatusSuccess
	}

	result := entity.TransactionResult{
		Hash:        signedTx.Hash().Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		Status:      status,
		Kind:        intent.Kind,
		Protocol:    intent.Protocol,
	}
	if c.network.ExplorerURL != "" {
		result.ExplorerURL = fmt.Sprintf("%s/tx/%s", c.network.ExplorerURL, result.Hash)
	}
	return result, nil
}

// waitMined polls for the transaction receipt until it lands or the
// receipt timeout expires.
func (c *EVMClient) waitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()

	ticker := time.NewTicker(c.receiptPoll)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(waitCtx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, c.connErr(err)
		}

		select {
		case <-waitCtx.Done():
			return nil, c.connErr(fmt.Errorf("timed out waiting for receipt of %s: %w", txHash.Hex(), waitCtx.Err()))
		case <-ticker.C:
		}
	}
}
