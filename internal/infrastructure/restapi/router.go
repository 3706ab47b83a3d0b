package restapi

import (
	"net/http/pprof"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/wearedood/BaseEcosystemTools/internal/config"
)

// NewRouter wires the middleware stack and every API route onto a fresh
// gin engine.
func NewRouter(handler *Handler, cfg *config.Config, zapLogger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(requestLogger(zapLogger))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", handler.GetStatusHandler)
		v1.GET("/networks", handler.GetNetworksHandler)
		v1.GET("/tokens", handler.GetTokensHandler)
		v1.GET("/tokens/:address", handler.GetTokenMetadataHandler)
		v1.GET("/protocols", handler.GetProtocolsHandler)
		v1.GET("/portfolio/:address", handler.GetPortfolioHandler)
		v1.GET("/portfolios", handler.GetPortfoliosHandler)
		v1.GET("/pools/:tokenA/:tokenB/:fee", handler.GetPoolHandler)
		v1.GET("/quote", handler.GetQuoteHandler)
		v1.GET("/lending/:address", handler.GetLendingHandler)
		v1.POST("/analytics/portfolio", handler.PostAnalyticsHandler)
		v1.POST("/intents", handler.PostIntentHandler)
		v1.POST("/dispatch", handler.PostDispatchHandler)
	}

	if cfg.Swagger.Enabled {
		router.StaticFile("/docs/openapi.yaml", "./docs/openapi.yaml")
		swaggerURL := ginSwagger.URL("/docs/openapi.yaml")
		router.GET(cfg.Swagger.Path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Pprof endpoints for live profiling. Protect these behind the reverse
	// proxy in production.
	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		pprofRouter.GET("/block", gin.WrapH(pprof.Handler("block")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		pprofRouter.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
		pprofRouter.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
	}

	return router
}

// requestLogger logs each request through zap after the handler chain ran.
func requestLogger(zapLogger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		zapLogger.Info("HTTP request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
