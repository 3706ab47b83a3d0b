package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	wethKey = "base:0x4200000000000000000000000000000000000006"
	usdcKey = "base:0x833589fcd6edb6e08f4c7c32d4f71b54bda02913"
)

func newTestClient(t *testing.T, handler http.Handler) LlamaClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewLlamaClient(server.URL, server.URL, 2*time.Second, zap.NewNop())
}

func TestProtocolTVL(t *testing.T) {
	t.Run("FetchesBareNumber", func(t *testing.T) {
		var gotPath string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte("5012345678.9"))
		}))

		tvl, err := client.ProtocolTVL(context.Background(), "uniswap-v3")

		require.NoError(t, err)
		assert.Equal(t, "/tvl/uniswap-v3", gotPath)
		assert.InDelta(t, 5_012_345_678.9, tvl, 0.01)
	})

	t.Run("EmptySlugRejectedLocally", func(t *testing.T) {
		hits := 0
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
		}))

		_, err := client.ProtocolTVL(context.Background(), "")

		require.ErrorContains(t, err, "slug cannot be empty")
		assert.Zero(t, hits)
	})

	t.Run("UpstreamStatusSurfaces", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("backend unavailable"))
		}))

		_, err := client.ProtocolTVL(context.Background(), "uniswap-v3")

		require.ErrorContains(t, err, "status 500")
		assert.ErrorContains(t, err, "backend unavailable")
	})

	t.Run("MalformedBodyIsError", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not-a-number"))
		}))

		_, err := client.ProtocolTVL(context.Background(), "uniswap-v3")

		require.ErrorContains(t, err, "failed to unmarshal TVL response")
	})
}

func TestTokenPrices(t *testing.T) {
	t.Run("ParsesCoinsEnvelope", func(t *testing.T) {
		var gotPath string
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"coins":{` +
				`"` + wethKey + `":{"decimals":18,"symbol":"WETH","price":3000.5,"timestamp":1717000000,"confidence":0.99},` +
				`"` + usdcKey + `":{"decimals":6,"symbol":"USDC","price":1.0,"timestamp":1717000000,"confidence":0.99}}}`))
		}))

		prices, err := client.TokenPrices(context.Background(), []string{wethKey, usdcKey})

		require.NoError(t, err)
		assert.Equal(t, "/prices/current/"+wethKey+","+usdcKey, gotPath)
		require.Len(t, prices, 2)
		assert.InDelta(t, 3000.5, prices[wethKey], 0.0001)
		assert.InDelta(t, 1.0, prices[usdcKey], 0.0001)
	})

	t.Run("EmptyKeysRejectedLocally", func(t *testing.T) {
		hits := 0
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
		}))

		_, err := client.TokenPrices(context.Background(), nil)

		require.ErrorContains(t, err, "keys cannot be empty")
		assert.Zero(t, hits)
	})

	t.Run("UnknownKeysAbsentFromResult", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"coins":{"` + wethKey + `":{"decimals":18,"symbol":"WETH","price":3000.5}}}`))
		}))

		prices, err := client.TokenPrices(context.Background(), []string{wethKey, usdcKey})

		require.NoError(t, err)
		require.Len(t, prices, 1)
		assert.Contains(t, prices, wethKey)
		assert.NotContains(t, prices, usdcKey)
	})

	t.Run("RateLimitStatusSurfaces", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("rate limited"))
		}))

		_, err := client.TokenPrices(context.Background(), []string{wethKey})

		require.ErrorContains(t, err, "status 429")
	})

	t.Run("ContextDeadlineHonored", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.TokenPrices(ctx, []string{wethKey})

		require.ErrorContains(t, err, "failed to execute request")
	})
}
