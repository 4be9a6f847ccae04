package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Hub       HubConfig
	Magento   MagentoConfig
	Shopify   ShopifyConfig
	Geo       GeoConfig
	Scheduler SchedulerConfig
	Tracing   TracingConfig
	Sentry    SentryConfig
	NATS      NATSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port              string
	Environment       string
	ServiceName       string
	ReadTimeout       int
	WriteTimeout      int
	CORSOrigins       string // Comma-separated list of allowed origins
	BatchTimeout      int    // seconds, ceiling for the batch endpoint
	HTTPClientTimeout int    // seconds, ceiling for every outbound call
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConns      int
	MinConns      int
	RunMigrations bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// HubConfig holds credentials for the order-aggregation hub
type HubConfig struct {
	BaseURL       string
	Username      string
	Password      string
	WindowMinutes int
}

// MagentoConfig holds credentials for the Magento storefront
type MagentoConfig struct {
	BaseURL string
	Token   string
}

// ShopifyStoreConfig is one row of the order-prefix to storefront table
type ShopifyStoreConfig struct {
	Prefix string
	URL    string
	Token  string
}

// ShopifyConfig holds the Shopify storefront table
type ShopifyConfig struct {
	APIVersion        string
	Stores            []ShopifyStoreConfig
	RequestsPerSecond float64
	Burst             int
}

// GeoConfig holds geolocation provider configuration
type GeoConfig struct {
	BaseURL                 string
	CacheTTL                time.Duration
	BreakerFailureThreshold int
	BreakerTimeoutSeconds   int
}

// SchedulerConfig holds the batch cadence
type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration
}

// TracingConfig holds OpenTelemetry exporter configuration
type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN string
}

// NATSConfig holds event bus configuration
type NATSConfig struct {
	URL     string
	Subject string
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnv("PORT", "8080"),
			Environment:       getEnv("ENVIRONMENT", "development"),
			ServiceName:       serviceName,
			ReadTimeout:       getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:      getEnvAsInt("WRITE_TIMEOUT", 120),
			CORSOrigins:       getEnv("CORS_ORIGINS", "http://localhost:3000"),
			BatchTimeout:      getEnvAsInt("BATCH_TIMEOUT", 110),
			HTTPClientTimeout: getEnvAsInt("HTTP_CLIENT_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", "5432"),
			User:          getEnv("DB_USER", "postgres"),
			Password:      getEnv("DB_PASSWORD", "postgres"),
			DBName:        getEnv("DB_NAME", "fraudcheck"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MaxConns:      getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:      getEnvAsInt("DB_MIN_CONNS", 2),
			RunMigrations: getEnvAsBool("DB_RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},
		Hub: HubConfig{
			BaseURL:       getEnv("HUB_API_URL", ""),
			Username:      getEnv("HUB_USERNAME", ""),
			Password:      getEnv("HUB_PASSWORD", ""),
			WindowMinutes: getEnvAsInt("HUB_WINDOW_MINUTES", 5),
		},
		Magento: MagentoConfig{
			BaseURL: getEnv("MAGENTO_API_URL", ""),
			Token:   getEnv("MAGENTO_API_TOKEN", ""),
		},
		Shopify: ShopifyConfig{
			APIVersion:        getEnv("SHOPIFY_API_VERSION", "2024-01"),
			Stores:            loadShopifyStores(getEnv("SHOPIFY_STORES", "")),
			RequestsPerSecond: getEnvAsFloat("SHOPIFY_REQUESTS_PER_SECOND", 2),
			Burst:             getEnvAsInt("SHOPIFY_BURST", 4),
		},
		Geo: GeoConfig{
			BaseURL:                 getEnv("GEO_API_URL", "http://ip-api.com"),
			CacheTTL:                time.Duration(getEnvAsInt("GEO_CACHE_TTL_HOURS", 24)) * time.Hour,
			BreakerFailureThreshold: getEnvAsInt("GEO_BREAKER_FAILURES", 5),
			BreakerTimeoutSeconds:   getEnvAsInt("GEO_BREAKER_TIMEOUT", 60),
		},
		Scheduler: SchedulerConfig{
			Enabled:  getEnvAsBool("SCHEDULER_ENABLED", true),
			Interval: time.Duration(getEnvAsInt("SCHEDULER_INTERVAL_MINUTES", 5)) * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("TRACING_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		},
		Sentry: SentryConfig{
			DSN: getEnv("SENTRY_DSN", ""),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", ""),
			Subject: getEnv("NATS_FRAUD_SUBJECT", "fraud.order.held"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Hub.BaseURL == "" {
		return fmt.Errorf("HUB_API_URL is required")
	}
	if c.Hub.WindowMinutes <= 0 {
		return fmt.Errorf("HUB_WINDOW_MINUTES must be positive")
	}
	for _, store := range c.Shopify.Stores {
		if store.URL == "" || store.Token == "" {
			return fmt.Errorf("shopify store %s: SHOPIFY_STORE_%s_URL and SHOPIFY_STORE_%s_TOKEN are required",
				store.Prefix, store.Prefix, store.Prefix)
		}
	}
	return nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL returns the database connection string in URL form, as golang-migrate expects
func (c *DatabaseConfig) URL(scheme string) string {
	return fmt.Sprintf("%s://%s:%s@%s:%s/%s?sslmode=%s",
		scheme, c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// loadShopifyStores expands SHOPIFY_STORES=EJC,MH into per-prefix URL/token rows.
func loadShopifyStores(prefixes string) []ShopifyStoreConfig {
	var stores []ShopifyStoreConfig
	for _, raw := range strings.Split(prefixes, ",") {
		prefix := strings.ToUpper(strings.TrimSpace(raw))
		if prefix == "" {
			continue
		}
		stores = append(stores, ShopifyStoreConfig{
			Prefix: prefix,
			URL:    strings.TrimRight(getEnv("SHOPIFY_STORE_"+prefix+"_URL", ""), "/"),
			Token:  getEnv("SHOPIFY_STORE_"+prefix+"_TOKEN", ""),
		})
	}
	return stores
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
