package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Logging    LoggingConfig     `yaml:"logging"`
	Networks   []NetworkOverride `yaml:"networks"`
	Registry   RegistryConfig    `yaml:"registry"`
	RPCClient  RPCClientConfig   `yaml:"rpcClient"`
	MarketData MarketDataConfig  `yaml:"marketData"`
	Portfolio  PortfolioConfig   `yaml:"portfolio"`
	Signer     SignerConfig      `yaml:"signer"`
	Dispatch   DispatchConfig    `yaml:"dispatch"`
	Swagger    SwaggerConfig     `yaml:"swagger"`
	Cache      CacheConfig       `yaml:"cache"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g. "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// NetworkOverride replaces the endpoints of a built-in network. The
// chain id must match one of the registered networks.
type NetworkOverride struct {
	ChainID           uint64   `yaml:"chainID"`
	Endpoint          string   `yaml:"endpoint"`
	FallbackEndpoints []string `yaml:"fallbackEndpoints"`
}

// RegistryConfig points at extra token list files, keyed by network
// identifier (e.g. "base-mainnet").
type RegistryConfig struct {
	TokenFiles map[string]string `yaml:"tokenFiles"`
}

// RPCClientConfig holds configuration for the chain RPC clients.
type RPCClientConfig struct {
	DialTimeoutMs int64 `yaml:"dialTimeoutMs"`
	CallTimeoutMs int64 `yaml:"callTimeoutMs"`
	RateLimit     int   `yaml:"rateLimit"`
	BurstLimit    int   `yaml:"burstLimit"`
}

// MarketDataConfig holds configuration for the DefiLlama clients.
type MarketDataConfig struct {
	TVLBaseURL           string `yaml:"tvlBaseURL"`
	PricesBaseURL        string `yaml:"pricesBaseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	CacheTTLMinutes      int    `yaml:"cacheTTLMinutes"`
}

// PortfolioConfig holds configuration for the portfolio service.
type PortfolioConfig struct {
	BalanceFetchTimeoutMs    int `yaml:"balanceFetchTimeoutMs"`
	MaxConcurrentRequests    int `yaml:"maxConcurrentRequests"`
	MaxAddressesPerBatchCall int `yaml:"maxAddressesPerBatchCall"`
}

// SignerConfig tells the key loader where to look for the submission
// key. Both sources are optional; with neither set the toolkit runs
// read-only.
type SignerConfig struct {
	PrivateKeyEnv  string `yaml:"privateKeyEnv"`
	PrivateKeyFile string `yaml:"privateKeyFile"`
}

// DispatchConfig holds configuration for transaction submission.
type DispatchConfig struct {
	Enabled          bool  `yaml:"enabled"`
	ReceiptTimeoutMs int64 `yaml:"receiptTimeoutMs"`
	ReceiptPollMs    int64 `yaml:"receiptPollMs"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// CacheConfig holds configuration for caching.
type CacheConfig struct {
	DefaultExpirationMinutes int `yaml:"defaultExpirationMinutes"`
	CleanupIntervalMinutes   int `yaml:"cleanupIntervalMinutes"`
}

// LoadConfig loads configuration from a YAML file and fills in
// defaults for anything the file leaves unset.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.RPCClient.DialTimeoutMs == 0 {
		cfg.RPCClient.DialTimeoutMs = 10000
		logrus.Infof("RPCClient.DialTimeoutMs not set, defaulting to %d ms", cfg.RPCClient.DialTimeoutMs)
	}
	if cfg.RPCClient.CallTimeoutMs == 0 {
		cfg.RPCClient.CallTimeoutMs = 15000
		logrus.Infof("RPCClient.CallTimeoutMs not set, defaulting to %d ms", cfg.RPCClient.CallTimeoutMs)
	}
	if cfg.RPCClient.RateLimit == 0 {
		cfg.RPCClient.RateLimit = 20
	}
	if cfg.RPCClient.BurstLimit == 0 {
		cfg.RPCClient.BurstLimit = 40
	}

	if cfg.MarketData.TVLBaseURL == "" {
		cfg.MarketData.TVLBaseURL = "https://api.llama.fi"
		logrus.Infof("MarketData.TVLBaseURL not set, defaulting to %s", cfg.MarketData.TVLBaseURL)
	}
	if cfg.MarketData.PricesBaseURL == "" {
		cfg.MarketData.PricesBaseURL = "https://coins.llama.fi"
		logrus.Infof("MarketData.PricesBaseURL not set, defaulting to %s", cfg.MarketData.PricesBaseURL)
	}
	if cfg.MarketData.RequestTimeoutMillis == 0 {
		cfg.MarketData.RequestTimeoutMillis = 10000
		logrus.Infof("MarketData.RequestTimeoutMillis not set, defaulting to %d ms", cfg.MarketData.RequestTimeoutMillis)
	}
	if cfg.MarketData.CacheTTLMinutes == 0 {
		cfg.MarketData.CacheTTLMinutes = 5
		logrus.Infof("MarketData.CacheTTLMinutes not set, defaulting to %d minutes", cfg.MarketData.CacheTTLMinutes)
	}

	if cfg.Portfolio.BalanceFetchTimeoutMs == 0 {
		cfg.Portfolio.BalanceFetchTimeoutMs = 20000
	}
	if cfg.Portfolio.MaxConcurrentRequests == 0 {
		cfg.Portfolio.MaxConcurrentRequests = 5
	}
	if cfg.Portfolio.MaxAddressesPerBatchCall == 0 {
		cfg.Portfolio.MaxAddressesPerBatchCall = 20
		logrus.Infof("Portfolio.MaxAddressesPerBatchCall not set, defaulting to %d", cfg.Portfolio.MaxAddressesPerBatchCall)
	}

	if cfg.Signer.PrivateKeyEnv == "" {
		cfg.Signer.PrivateKeyEnv = "BASETOOLS_PRIVATE_KEY"
	}

	if cfg.Dispatch.ReceiptTimeoutMs == 0 {
		cfg.Dispatch.ReceiptTimeoutMs = 120000
	}
	if cfg.Dispatch.ReceiptPollMs == 0 {
		cfg.Dispatch.ReceiptPollMs = 2000
	}

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}

	if cfg.Cache.DefaultExpirationMinutes == 0 {
		cfg.Cache.DefaultExpirationMinutes = 5
	}
	if cfg.Cache.CleanupIntervalMinutes == 0 {
		cfg.Cache.CleanupIntervalMinutes = 10
	}
}
