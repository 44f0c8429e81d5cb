package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/config"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/database"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/tracing"
)

// Catalog source identifiers accepted by CATALOG_SOURCE.
const (
	CatalogPostgres      = "postgres"
	CatalogRedis         = "redis"
	CatalogProductAPI    = "product_api"
	CatalogElasticsearch = "elasticsearch"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the dashboard service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"DASHBOARD_HTTP_PORT" envDefault:"8013" validate:"min=1,max=65535"`

	// PostgreSQL
	PostgresHost    string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort    int    `env:"POSTGRES_PORT" envDefault:"5432" validate:"min=1,max=65535"`
	PostgresUser    string `env:"POSTGRES_USER" envDefault:"ecommerce"`
	PostgresPass    string `env:"POSTGRES_PASSWORD" envDefault:"ecommerce_secret"`
	PostgresDB      string `env:"DASHBOARD_DB_NAME" envDefault:"dashboard_db"`
	PostgresSSL     string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	DBMaxConns      int32  `env:"DB_MAX_CONNS" envDefault:"20" validate:"gte=1"`
	DBMinConns      int32  `env:"DB_MIN_CONNS" envDefault:"2" validate:"gte=0"`
	SlowQueryMillis int    `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200" validate:"gte=0"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379" validate:"min=1,max=65535"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Catalog
	CatalogSource      string `env:"CATALOG_SOURCE" envDefault:"postgres" validate:"oneof=postgres redis product_api elasticsearch"`
	ProductServiceURL  string `env:"PRODUCT_SERVICE_URL" envDefault:"http://localhost:8001" validate:"required,url"`
	ElasticsearchURL   string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200" validate:"required,url"`
	ElasticsearchIndex string `env:"ELASTICSEARCH_INDEX" envDefault:"ecommerce_products" validate:"required"`

	// Auth
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`

	// HTTP edge
	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	SearchRateLimitRPS   float64  `env:"SEARCH_RATE_LIMIT_RPS" envDefault:"10" validate:"gt=0"`
	SearchRateLimitBurst int      `env:"SEARCH_RATE_LIMIT_BURST" envDefault:"20" validate:"gte=1"`
	PprofAllowedCIDRs    []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`
	TrustedProxyCIDRs    []string `env:"TRUSTED_PROXY_CIDRS" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0" validate:"gte=0,lte=1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load dashboard config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.Environment != "development" {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
	}
	return nil
}

// Postgres returns the pool settings.
func (c *Config) Postgres() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

// Redis returns the client settings.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// Tracing returns the tracer settings.
func (c *Config) Tracing(version string) tracing.Config {
	return tracing.Config{
		ServiceName:    "dashboard",
		ServiceVersion: version,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTELEndpoint,
		SampleRate:     c.OTELSampleRate,
		Enabled:        c.OTELEnabled,
	}
}

// SlowQueryThreshold is zero when slow query logging is off.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryMillis) * time.Millisecond
}

// UsesRedis reports whether the catalog snapshot lives in Redis.
func (c *Config) UsesRedis() bool {
	return c.CatalogSource == CatalogRedis
}
