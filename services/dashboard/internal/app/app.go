package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/database"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/health"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/httpclient"
	pkgkafka "github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/kafka"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/middleware"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/tracing"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/auth"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/config"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/event"
	handler "github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/handler/http"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/repository"
	esrepo "github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/repository/elasticsearch"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/repository/postgres"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/repository/productapi"
	redisrepo "github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/repository/redis"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/service"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/migrations"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

const (
	serviceName       = "dashboard"
	projectorGroup    = "dashboard-catalog-projector"
	processedEventTTL = 24 * time.Hour
)

// App wires together all dependencies and runs the dashboard service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	rdb            *goredis.Client
	consumers      []*pkgkafka.Consumer
	dlq            *pkgkafka.DLQProducer
	httpServer     *http.Server
	shutdownTracer tracing.ShutdownFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	if err := a.init(ctx); err != nil {
		a.release()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing(Version))
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	a.shutdownTracer = shutdownTracer

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
		return fmt.Errorf("register pool metrics: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		return err
	}
	database.SetSlowQueryLogging(cfg.SlowQueryThreshold(), logger)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	catalog, err := a.catalogSource(ctx, healthHandler)
	if err != nil {
		return err
	}

	svc := service.NewDashboardService(
		catalog,
		postgres.NewOrderRepository(pool),
		postgres.NewWishlistRepository(pool),
		prometheus.DefaultRegisterer,
		logger,
	)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, serviceName, time.Hour)
	router := handler.NewRouter(handler.RouterConfig{
		Service:   svc,
		Health:    healthHandler,
		Validator: jwtManager.Validator(),
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		RateLimiter: middleware.NewRateLimiter(cfg.SearchRateLimitRPS, cfg.SearchRateLimitBurst, logger).
			TrustProxies(cfg.TrustedProxyCIDRs),
		Registerer:  prometheus.DefaultRegisterer,
		Gatherer:    prometheus.DefaultGatherer,
		PprofCIDRs:  cfg.PprofAllowedCIDRs,
		Logger:      logger,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return nil
}

// catalogSource builds the configured CatalogSource and registers its
// health check. The redis source also starts the projector that feeds it.
func (a *App) catalogSource(ctx context.Context, h *health.Handler) (repository.CatalogSource, error) {
	cfg, logger := a.cfg, a.logger

	switch cfg.CatalogSource {
	case config.CatalogRedis:
		rdb, err := database.NewRedisClient(ctx, cfg.Redis(), logger)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		h.RegisterNonCritical("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		h.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
		})

		snapshot := redisrepo.NewCatalogRepository(rdb)
		a.startProjector(snapshot, redisrepo.NewIdempotencyStore(rdb, processedEventTTL))
		return snapshot, nil

	case config.CatalogProductAPI:
		client := httpclient.New("product-service", httpclient.DefaultConfig(), logger)
		h.RegisterNonCritical("product-service", func(ctx context.Context) error {
			var body map[string]any
			return client.GetJSON(ctx, cfg.ProductServiceURL+"/health/live", &body)
		})
		logger.Info("catalog source: product service", slog.String("url", cfg.ProductServiceURL))
		return productapi.NewCatalogRepository(client, cfg.ProductServiceURL), nil

	case config.CatalogElasticsearch:
		es, err := esrepo.New(cfg.ElasticsearchURL, cfg.ElasticsearchIndex)
		if err != nil {
			return nil, err
		}
		h.RegisterNonCritical("elasticsearch", es.Ping)
		logger.Info("catalog source: elasticsearch",
			slog.String("url", cfg.ElasticsearchURL),
			slog.String("index", cfg.ElasticsearchIndex),
		)
		return es, nil

	default:
		return postgres.NewCatalogRepository(a.pool), nil
	}
}

func (a *App) startProjector(snapshot repository.CatalogWriter, store pkgkafka.IdempotencyStore) {
	projector := event.NewProjector(snapshot, a.logger)
	handle := pkgkafka.IdempotentHandler(store, projector.Handle, a.logger)

	a.dlq = pkgkafka.NewDLQProducer(a.cfg.KafkaBrokers, a.logger)
	for _, topic := range event.ProductTopics() {
		a.consumers = append(a.consumers, pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
			Brokers: a.cfg.KafkaBrokers,
			GroupID: projectorGroup,
			Topic:   topic,
		}, handle, a.dlq, a.logger))
	}
	a.logger.Info("catalog projector configured",
		slog.Any("brokers", a.cfg.KafkaBrokers),
		slog.Any("topics", event.ProductTopics()),
	)
}

// Run starts the HTTP server and projector consumers, and blocks until the
// context is canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	consumerCtx, stopConsumers := context.WithCancel(ctx)
	var wg sync.WaitGroup
	for _, c := range a.consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Start(consumerCtx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		a.logger.Error("component failed", slog.String("error", runErr.Error()))
	}

	a.shutdown(stopConsumers, &wg)
	return runErr
}

// shutdown stops intake first, then drains consumers, then closes stores.
func (a *App) shutdown(stopConsumers context.CancelFunc, wg *sync.WaitGroup) {
	a.logger.Info("shutting down application...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	stopConsumers()
	wg.Wait()

	a.release()
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}
	a.logger.Info("application shutdown complete")
}

// release closes whatever init managed to open.
func (a *App) release() {
	if a.dlq != nil {
		if err := a.dlq.Close(); err != nil {
			a.logger.Error("dlq producer close error", slog.String("error", err.Error()))
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
