package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wearedood/BaseEcosystemTools/internal/config"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/registry"
)

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// rpcChainIDServer answers eth_chainId with a fixed value and counts dials.
func rpcChainIDServer(t *testing.T, hexChainID string, hits *int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, "eth_chainId", req.Method)
		*hits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"%s"}`, req.ID, hexChainID)
	}))
	t.Cleanup(server.Close)
	return server
}

func providerRegistry(t *testing.T, primary string, fallbacks ...string) *registry.Registry {
	t.Helper()
	reg, err := registry.New(registry.Config{Chains: []registry.ChainConfig{{
		Network: entity.NetworkConfig{
			ChainID:         8453,
			Name:            "Base Mainnet",
			Identifier:      "base",
			NativeSymbol:    "ETH",
			NativeDecimals:  18,
			PrimaryRPCURL:   primary,
			FallbackRPCURLs: fallbacks,
		},
	}}})
	require.NoError(t, err)
	return reg
}

func TestClientProvider(t *testing.T) {
	t.Run("DialsOnceAndCaches", func(t *testing.T) {
		hits := 0
		server := rpcChainIDServer(t, "0x2105", &hits)
		provider := NewEVMClientProvider(providerRegistry(t, server.URL), config.Default(), nil, noopLogger{})
		defer provider.CloseAll()

		first, err := provider.GetClient(8453)
		require.NoError(t, err)
		second, err := provider.GetClient(8453)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, hits, "the cached client must not redial")
	})

	t.Run("UnknownChainRejected", func(t *testing.T) {
		hits := 0
		server := rpcChainIDServer(t, "0x2105", &hits)
		provider := NewEVMClientProvider(providerRegistry(t, server.URL), config.Default(), nil, noopLogger{})
		defer provider.CloseAll()

		_, err := provider.GetClient(1)

		require.ErrorContains(t, err, "unknown chain id 1")
		assert.Zero(t, hits)
	})

	t.Run("VerifiesReportedChainID", func(t *testing.T) {
		hits := 0
		server := rpcChainIDServer(t, "0x1", &hits)
		provider := NewEVMClientProvider(providerRegistry(t, server.URL), config.Default(), nil, noopLogger{})
		defer provider.CloseAll()

		_, err := provider.GetClient(8453)

		require.ErrorContains(t, err, "failed to create EVM client")
		assert.ErrorContains(t, err, "chain id mismatch")
	})

	t.Run("FallbackEndpointUsed", func(t *testing.T) {
		hits := 0
		server := rpcChainIDServer(t, "0x2105", &hits)
		reg := providerRegistry(t, "http://127.0.0.1:1", server.URL)
		provider := NewEVMClientProvider(reg, config.Default(), nil, noopLogger{})
		defer provider.CloseAll()

		client, err := provider.GetClient(8453)

		require.NoError(t, err)
		assert.Equal(t, uint64(8453), client.Network().ChainID)
		assert.Equal(t, 1, hits)
	})

	t.Run("CloseAllDropsCache", func(t *testing.T) {
		hits := 0
		server := rpcChainIDServer(t, "0x2105", &hits)
		provider := NewEVMClientProvider(providerRegistry(t, server.URL), config.Default(), nil, noopLogger{})

		first, err := provider.GetClient(8453)
		require.NoError(t, err)
		provider.CloseAll()
		second, err := provider.GetClient(8453)
		require.NoError(t, err)
		defer provider.CloseAll()

		assert.NotSame(t, first, second)
		assert.Equal(t, 2, hits)
	})
}
