package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/wearedood/BaseEcosystemTools/internal/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LlamaClient defines the interface for the DefiLlama TVL and price APIs.
type LlamaClient interface {
	// ProtocolTVL returns the total value locked of a protocol in USD.
	ProtocolTVL(ctx context.Context, slug string) (float64, error)

	// TokenPrices returns current USD prices for "chain:address" keys.
	// Keys the API does not know are absent from the result map.
	TokenPrices(ctx context.Context, keys []string) (map[string]float64, error)
}

// llamaClientImpl is the fasthttp-backed implementation of LlamaClient.
type llamaClientImpl struct {
	client        *fasthttp.Client
	tvlBaseURL    string
	pricesBaseURL string
	timeout       time.Duration
	logger        *zap.Logger
}

// NewLlamaClient creates a new instance of llamaClientImpl.
func NewLlamaClient(tvlBaseURL, pricesBaseURL string, timeout time.Duration, logger *zap.Logger) LlamaClient {
	return &llamaClientImpl{
		client:        &fasthttp.Client{},
		tvlBaseURL:    strings.TrimRight(tvlBaseURL, "/"),
		pricesBaseURL: strings.TrimRight(pricesBaseURL, "/"),
		timeout:       timeout,
		logger:        logger.Named("LlamaClient"),
	}
}

// doGet executes a GET request and returns a copy of the response body.
// The copy matters: fasthttp reuses response buffers after release.
func (c *llamaClientImpl) doGet(ctx context.Context, requestURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request to DefiLlama", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request to DefiLlama (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("DefiLlama API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()),
		)
		return nil, fmt.Errorf("DefiLlama API request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(resp.Body()))
	}

	return append([]byte(nil), resp.Body()...), nil
}

// ProtocolTVL implements the LlamaClient interface. The endpoint
// answers with a bare JSON number.
func (c *llamaClientImpl) ProtocolTVL(ctx context.Context, slug string) (float64, error) {
	if slug == "" {
		return 0, fmt.Errorf("slug cannot be empty")
	}

	requestURL := fmt.Sprintf("%s/tvl/%s", c.tvlBaseURL, slug)
	c.logger.Debug("Requesting protocol TVL from DefiLlama", zap.String("url", requestURL))

	body, err := c.doGet(ctx, requestURL)
	if err != nil {
		metrics.MarketDataRequestsTotal.WithLabelValues("tvl", metrics.OutcomeError).Inc()
		return 0, err
	}

	var tvl float64
	if err := json.Unmarshal(body, &tvl); err != nil {
		metrics.MarketDataRequestsTotal.WithLabelValues("tvl", metrics.OutcomeError).Inc()
		c.logger.Error("Failed to unmarshal DefiLlama TVL response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", body),
			zap.Error(err),
		)
		return 0, fmt.Errorf("failed to unmarshal TVL response from %s: %w", requestURL, err)
	}

	metrics.MarketDataRequestsTotal.WithLabelValues("tvl", metrics.OutcomeOK).Inc()
	c.logger.Debug("Successfully fetched protocol TVL", zap.String("slug", slug), zap.Float64("tvl", tvl))
	return tvl, nil
}

// TokenPrices implements the LlamaClient interface.
func (c *llamaClientImpl) TokenPrices(ctx context.Context, keys []string) (map[string]float64, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("keys cannot be empty")
	}

	requestURL := fmt.Sprintf("%s/prices/current/%s", c.pricesBaseURL, strings.Join(keys, ","))
	c.logger.Debug("Requesting token prices from DefiLlama", zap.String("url", requestURL), zap.Int("keyCount", len(keys)))

	body, err := c.doGet(ctx, requestURL)
	if err != nil {
		metrics.MarketDataRequestsTotal.WithLabelValues("prices", metrics.OutcomeError).Inc()
		return nil, err
	}

	var parsed priceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.MarketDataRequestsTotal.WithLabelValues("prices", metrics.OutcomeError).Inc()
		c.logger.Error("Failed to unmarshal DefiLlama prices response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", body),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to unmarshal prices response from %s: %w", requestURL, err)
	}

	prices := make(map[string]float64, len(parsed.Coins))
	for key, coin := range parsed.Coins {
		prices[key] = coin.Price
	}

	if len(prices) == 0 {
		c.logger.Warn("DefiLlama returned 200 OK with no prices. Check the requested keys.",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", body))
	}

	metrics.MarketDataRequestsTotal.WithLabelValues("prices", metrics.OutcomeOK).Inc()
	c.logger.Debug("Successfully fetched token prices", zap.Int("priceCount", len(prices)))
	return prices, nil
}
