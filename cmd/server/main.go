// @title        Duty Status API
// @version      1.0
// @description  Operator duty-status tracking and identity resolution.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fleetlog/duty-status/internal/api"
	"github.com/fleetlog/duty-status/internal/core/ports"
	"github.com/fleetlog/duty-status/internal/core/service"
	"github.com/fleetlog/duty-status/internal/infrastructure/anomaly"
	badgerstore "github.com/fleetlog/duty-status/internal/infrastructure/db/badger"
	mongostore "github.com/fleetlog/duty-status/internal/infrastructure/db/mongo"
	pgstore "github.com/fleetlog/duty-status/internal/infrastructure/db/postgres"
	redisstore "github.com/fleetlog/duty-status/internal/infrastructure/db/redis"
	"github.com/fleetlog/duty-status/internal/infrastructure/messaging/rabbitmq"
	"github.com/fleetlog/duty-status/internal/infrastructure/queue"
	"github.com/fleetlog/duty-status/internal/pkg/config"
	"github.com/fleetlog/duty-status/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// operatorStore is what every storage backend provides.
type operatorStore interface {
	ports.OperatorStore
	ports.HealthChecker
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "duty-status",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	dedup := redisstore.NewDedupChecker(rdb, cfg.Redis.DedupTTL)

	// --- Messaging (optional) ---
	var (
		conn      *amqp.Connection
		publisher anomaly.Publisher
	)
	amqpCfg := rabbitmq.Config{
		URL:             cfg.AMQP.URL,
		StatusQueue:     cfg.AMQP.StatusQueue,
		AnomalyExchange: cfg.AMQP.AnomalyExchange,
		Prefetch:        cfg.AMQP.Prefetch,
	}
	if cfg.AMQP.URL != "" {
		conn, err = rabbitmq.Connect(amqpCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		pub, err := rabbitmq.NewAnomalyPublisher(conn, amqpCfg)
		if err != nil {
			return err
		}
		defer pub.Close()
		publisher = pub
	}

	// --- Services ---
	anomalies := anomaly.NewReporter(logger.Component("anomaly"), publisher)
	duty := service.NewDutyService(store, anomalies, logger.Component("duty"))
	operators := service.NewOperatorService(store, logger.Component("operators"))
	identity := service.NewIdentityService(store, anomalies, logger.Component("identity"))
	processor := service.NewReportProcessor(duty, identity, dedup, cfg.AutoCreateOperators, logger.Component("reports"))

	dispatcher := queue.NewDispatcher(cfg.DispatchWorkers, processor, logger.Component("dispatcher"))

	var consumer *rabbitmq.Consumer
	if conn != nil {
		consumer, err = rabbitmq.NewConsumer(conn, amqpCfg, processor, logger.Component("amqp"))
		if err != nil {
			return err
		}
		defer consumer.Close()
	}

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		JWTSecret:  cfg.JWTSecret,
		Log:        logger.Component("http"),
		Operators:  operators,
		Duty:       duty,
		Identity:   identity,
		Dispatcher: dispatcher,
		HealthChecks: map[string]ports.HealthChecker{
			cfg.StoreDriver: store,
			"redis":         dedup,
		},
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	dispatcher.Start(gctx)
	g.Go(func() error {
		dispatcher.Wait()
		log.Info().Msg("report dispatcher drained")
		return nil
	})
	g.Go(func() error { return anomalies.Run(gctx) })
	if consumer != nil {
		g.Go(func() error { return consumer.Run(gctx) })
	}
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore connects the backend named by STORE_DRIVER and prepares its
// indexes or schema.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (operatorStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, nil, err
		}
		store := pgstore.NewOperatorStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	case config.StoreBadger:
		db, err := badgerstore.Open(badgerstore.Config{Path: cfg.Badger.Path, InMemory: cfg.Badger.InMemory}, logger.Component("badger"))
		if err != nil {
			return nil, nil, err
		}
		return badgerstore.NewOperatorStore(db), func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("badger close")
			}
		}, nil

	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, nil, err
		}
		store := mongostore.NewOperatorStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return store, func() { _ = client.Disconnect(context.Background()) }, nil
	}
}
