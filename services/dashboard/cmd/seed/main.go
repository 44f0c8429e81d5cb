// Command seed loads deterministic demo data into the dashboard database and
// optionally announces the catalog on Kafka and prints a demo access token.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/database"
	pkgkafka "github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/kafka"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/pkg/logger"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/auth"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/config"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/internal/event"
	"github.com/IlkomUNJ/webhw2b-Saccharin-e/services/dashboard/migrations"
)

func main() {
	publish := flag.Bool("publish", false, "publish product.created events for every seeded product")
	printToken := flag.Bool("token", true, "print an access token for the demo user")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the printed token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("dashboard-seed", cfg.LogLevel)

	if err := run(cfg, log, *publish, *printToken, *tokenTTL); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger, publish, printToken bool, tokenTTL time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	products := demoProducts(now.Add(-90 * 24 * time.Hour))
	ds := dataset{
		userID:   demoUserID(),
		products: products,
		orders:   demoOrders(now, products),
	}
	for _, idx := range wishlistProducts {
		ds.wishlist = append(ds.wishlist, products[idx].ID)
	}

	if err := write(ctx, pool, ds); err != nil {
		return err
	}
	log.Info("demo data seeded",
		slog.String("user_id", ds.userID),
		slog.Int("products", len(ds.products)),
		slog.Int("orders", len(ds.orders)),
		slog.Int("wishlist", len(ds.wishlist)),
	)

	if publish {
		if err := publishCatalog(ctx, cfg, log, ds); err != nil {
			return err
		}
	}

	if printToken {
		token, err := auth.NewJWTManager(cfg.JWTSecret, "dashboard-seed", tokenTTL).
			IssueToken(ds.userID, demoEmail, demoRole)
		if err != nil {
			return err
		}
		fmt.Println(token)
	}
	return nil
}

func publishCatalog(ctx context.Context, cfg *config.Config, log *slog.Logger, ds dataset) error {
	kp := pkgkafka.NewProducer(cfg.KafkaBrokers, log)
	defer func() {
		if err := kp.Close(); err != nil {
			log.Warn("kafka producer close failed", slog.String("error", err.Error()))
		}
	}()

	producer := event.NewProducer(kp)
	for _, p := range ds.products {
		if err := producer.PublishProductCreated(ctx, p); err != nil {
			return err
		}
	}
	log.Info("catalog published", slog.Int("events", len(ds.products)))
	return nil
}
