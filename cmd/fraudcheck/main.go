package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/richxcame/order-fraud-guard/internal/fraud"
	"github.com/richxcame/order-fraud-guard/internal/geo"
	"github.com/richxcame/order-fraud-guard/internal/hub"
	"github.com/richxcame/order-fraud-guard/internal/ingestion"
	"github.com/richxcame/order-fraud-guard/internal/magento"
	"github.com/richxcame/order-fraud-guard/internal/orders"
	"github.com/richxcame/order-fraud-guard/internal/scheduler"
	"github.com/richxcame/order-fraud-guard/internal/shopify"
	"github.com/richxcame/order-fraud-guard/pkg/common"
	"github.com/richxcame/order-fraud-guard/pkg/config"
	"github.com/richxcame/order-fraud-guard/pkg/database"
	"github.com/richxcame/order-fraud-guard/pkg/eventbus"
	"github.com/richxcame/order-fraud-guard/pkg/health"
	"github.com/richxcame/order-fraud-guard/pkg/httpclient"
	"github.com/richxcame/order-fraud-guard/pkg/logger"
	"github.com/richxcame/order-fraud-guard/pkg/middleware"
	"github.com/richxcame/order-fraud-guard/pkg/redis"
	"github.com/richxcame/order-fraud-guard/pkg/resilience"
	"github.com/richxcame/order-fraud-guard/pkg/tracing"
	"go.uber.org/zap"
)

const (
	serviceName    = "fraudcheck"
	serviceVersion = "1.0.0"
	maxBodyBytes   = 1 << 20
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("Starting fraud check service",
		zap.String("environment", cfg.Server.Environment),
		zap.String("version", serviceVersion),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Error reporting
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Server.Environment,
			Release:          serviceName + "@" + serviceVersion,
			AttachStacktrace: true,
		}); err != nil {
			logger.Warn("Failed to initialize Sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Tracing
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, serviceName, cfg.Server.Environment)
	if err != nil {
		logger.Warn("Failed to initialize tracing, continuing without it", zap.Error(err))
	}

	// Storage
	if cfg.Database.RunMigrations {
		if err := database.Migrate(&cfg.Database); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Database migrations applied")
	}

	pool, err := database.NewPostgresPool(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)
	logger.Info("Connected to PostgreSQL database")

	healthChecks := map[string]common.HealthCheck{
		"database": {Run: health.DatabaseChecker(pool)},
	}

	// Geolocation cache is optional
	var geoCache goredis.Cmdable
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, geolocation cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			geoCache = redisClient.Client
			healthChecks["redis"] = common.HealthCheck{Run: health.RedisChecker(redisClient.Client), Optional: true}
			logger.Info("Connected to Redis")
		}
	}

	// Held-order events are optional
	var events eventbus.Publisher = eventbus.NoopPublisher{}
	if cfg.NATS.URL != "" {
		publisher, err := eventbus.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, serviceName)
		if err != nil {
			logger.Warn("NATS unavailable, held-order events disabled", zap.Error(err))
		} else {
			events = publisher
			logger.Info("Connected to NATS", zap.String("subject", cfg.NATS.Subject))
		}
	}
	defer events.Close()

	// Upstream clients
	clientTimeout := time.Duration(cfg.Server.HTTPClientTimeout) * time.Second

	hubHTTP := httpclient.NewClient(cfg.Hub.BaseURL, clientTimeout)
	magentoHTTP := httpclient.NewClient(cfg.Magento.BaseURL, clientTimeout)
	geoHTTP := httpclient.NewClient(cfg.Geo.BaseURL, clientTimeout)

	hubClient := hub.NewClient(
		hubHTTP,
		cfg.Hub.Username,
		cfg.Hub.Password,
	)

	storeRows := make([]shopify.Store, 0, len(cfg.Shopify.Stores))
	for _, s := range cfg.Shopify.Stores {
		storeRows = append(storeRows, shopify.Store{Prefix: s.Prefix, URL: s.URL, Token: s.Token})
	}
	stores, err := shopify.NewStoreTable(storeRows)
	if err != nil {
		logger.Fatal("Invalid Shopify store table", zap.Error(err))
	}

	registry := orders.NewRegistry(
		magento.NewFetcher(magentoHTTP, cfg.Magento.Token),
		shopify.NewFetcher(stores, shopify.Options{
			APIVersion:        cfg.Shopify.APIVersion,
			RequestsPerSecond: cfg.Shopify.RequestsPerSecond,
			Burst:             cfg.Shopify.Burst,
			Timeout:           clientTimeout,
		}),
	)
	logger.Info("Upstream clients configured",
		zap.String("hub_url", hubHTTP.BaseURL()),
		zap.String("magento_url", magentoHTTP.BaseURL()),
		zap.String("geo_url", geoHTTP.BaseURL()),
		zap.Any("platforms", registry.Platforms()),
		zap.Int("shopify_stores", len(storeRows)),
	)

	geoBreaker := resilience.NewCircuitBreaker(
		resilience.BuildSettings("geolocation", 0, cfg.Geo.BreakerTimeoutSeconds, cfg.Geo.BreakerFailureThreshold, 1),
		resilience.GracefulDegradation("geolocation"),
	)
	geoService := geo.NewService(
		geo.NewIPAPIProvider(geoHTTP),
		geoCache,
		cfg.Geo.CacheTTL,
		geoBreaker,
	)

	// Domain services
	engine := fraud.NewEngine(geoService)
	repo := fraud.NewRepository(pool)
	reviewService := fraud.NewService(repo, hubClient)
	ingestionService := ingestion.NewService(hubClient, registry, engine, repo, events, cfg.Hub.WindowMinutes)

	// HTTP
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(middleware.CorrelationID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger("/healthz", "/metrics"))
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.MaxBodySize(maxBodyBytes))
	router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	router.GET("/healthz", common.HealthCheckWithDeps(serviceName, serviceVersion, healthChecks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	ingestion.NewHandler(ingestionService).RegisterRoutes(api, batchTimeout(time.Duration(cfg.Server.BatchTimeout)*time.Second))
	fraud.NewHandler(reviewService).RegisterRoutes(api)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Scheduled batches
	var worker *scheduler.Worker
	if cfg.Scheduler.Enabled {
		worker = scheduler.NewWorker(ingestionService, logger.Get().Named("scheduler"), cfg.Scheduler.Interval)
		go worker.Start(ctx)
	}

	<-ctx.Done()
	logger.Info("Shutting down fraud check service")

	if worker != nil {
		worker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}

	logger.Info("Fraud check service stopped")
}

func corsConfig(origins string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = splitOrigins(origins)
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", middleware.CorrelationIDHeader}
	cfg.ExposeHeaders = []string{middleware.CorrelationIDHeader}
	return cfg
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}

// batchTimeout bounds a manually triggered batch
func batchTimeout(d time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(d),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusGatewayTimeout, "batch timed out")
		}),
	)
}
