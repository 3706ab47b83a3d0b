package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/wearedood/BaseEcosystemTools/internal/app/service"
	"github.com/wearedood/BaseEcosystemTools/internal/config"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/entity"
	"github.com/wearedood/BaseEcosystemTools/internal/domain/registry"
	"github.com/wearedood/BaseEcosystemTools/internal/infrastructure/httpclient"
	"github.com/wearedood/BaseEcosystemTools/internal/infrastructure/keyloader"
	clientprovider "github.com/wearedood/BaseEcosystemTools/internal/infrastructure/network/client"
	"github.com/wearedood/BaseEcosystemTools/internal/infrastructure/registryloader"
	"github.com/wearedood/BaseEcosystemTools/internal/infrastructure/restapi"
	"github.com/wearedood/BaseEcosystemTools/internal/pkg/logger"
	"github.com/wearedood/BaseEcosystemTools/internal/pkg/metrics"
	"github.com/wearedood/BaseEcosystemTools/internal/pkg/utils"
)

func main() {
	// Logrus covers the window before the config names a log level; zap takes
	// over for everything after.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Route slog through the zap core so service code and library code share
	// one sink.
	logger.InitFromZap(zapLogger)

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.SetOutput(file)
		} else {
			log.Infof("Failed to log to file, using default stdout: %v", err)
		}
	}

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	appLogger := logger.NewSlogAdapter()

	regCfg := registry.DefaultConfig()
	for _, override := range cfg.Networks {
		regCfg.OverrideEndpoints(override.ChainID, override.Endpoint, override.FallbackEndpoints)
	}
	networks := make([]entity.NetworkConfig, 0, len(regCfg.Chains))
	for _, chain := range regCfg.Chains {
		networks = append(networks, chain.Network)
	}
	regCfg.AddTokens(registryloader.LoadTokens(cfg.Registry.TokenFiles, networks, appLogger)...)

	reg, err := registry.New(regCfg)
	if err != nil {
		zapLogger.Fatal("Failed to build address registry", zap.Error(err))
	}
	zapLogger.Info("Address registry initialized", zap.Int("networks", len(reg.Networks())))

	signerKey, err := keyloader.Load(cfg.Signer, appLogger)
	if err != nil {
		zapLogger.Fatal("Failed to load signing key", zap.Error(err))
	}

	provider := clientprovider.NewEVMClientProvider(reg, cfg, signerKey, appLogger)

	llamaTimeout := time.Duration(cfg.MarketData.RequestTimeoutMillis) * time.Millisecond
	llamaClient := httpclient.NewLlamaClient(cfg.MarketData.TVLBaseURL, cfg.MarketData.PricesBaseURL, llamaTimeout, zapLogger)
	zapLogger.Info("DefiLlama client initialized")

	marketDataService := service.NewMarketDataService(reg, llamaClient, appLogger, cfg)
	portfolioService := service.NewPortfolioService(reg, provider, marketDataService, appLogger, cfg)
	intentBuilder := service.NewIntentBuilder(reg, appLogger)
	dispatcher := service.NewDispatcher(provider, appLogger)
	zapLogger.Info("Application services initialized")

	handler := restapi.NewHandler(reg, provider, intentBuilder, dispatcher, portfolioService, marketDataService, cfg, appLogger)
	router := restapi.NewRouter(handler, cfg, zapLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	provider.CloseAll()
	zapLogger.Info("Server exiting")
}
