package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"stableford/internal/audit"
	coursestore "stableford/internal/course/store"
	handicapmetrics "stableford/internal/handicap/metrics"
	handicapservice "stableford/internal/handicap/service"
	"stableford/internal/handicap/store/cache"
	"stableford/internal/handicap/store/record"
	"stableford/internal/platform/config"
	"stableford/internal/platform/httpserver"
	"stableford/internal/platform/kafka"
	"stableford/internal/platform/logger"
	"stableford/internal/platform/otel"
	"stableford/internal/platform/postgres"
	"stableford/internal/platform/redis"
	playerstore "stableford/internal/player/store"
	roundmetrics "stableford/internal/round/metrics"
	roundservice "stableford/internal/round/service"
	roundstore "stableford/internal/round/store"
	id "stableford/pkg/domain"
)

// main wires the scoring core to its backing services and serves the ops
// endpoints until a shutdown signal arrives.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

type courseCatalog interface {
	roundservice.CourseCatalog
	roundservice.TeeSetProvider
}

type core struct {
	handicap *handicapservice.Service
	rounds   *roundservice.Service
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	shutdownTracing, err := otel.Setup(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checks := map[string]httpserver.HealthCheck{}

	g, gctx := errgroup.WithContext(ctx)

	auditStore, closeAudit, err := buildAuditStore(gctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeAudit()
	if w, ok := auditStore.(*audit.Worker); ok {
		g.Go(func() error {
			if err := w.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	publisher := audit.NewPublisher(auditStore)

	var db *sql.DB
	if cfg.Database.URL != "" {
		db, err = postgres.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		checks["postgres"] = db.PingContext
	}

	var currentCache handicapservice.CurrentCache
	if rc, err := redis.New(ctx, cfg.Redis); err != nil {
		return err
	} else if rc != nil {
		defer rc.Close()
		checks["redis"] = rc.Health
		currentCache = cache.NewRedis(rc, log, cache.WithTTL(cfg.Redis.CacheTTL))
	}

	svc, err := buildCore(cfg, db, log, reg, publisher, currentCache)
	if err != nil {
		return err
	}
	checks["handicap"] = func(ctx context.Context) error {
		_, err := svc.handicap.History(ctx, id.PlayerID{})
		return err
	}
	checks["rounds"] = func(ctx context.Context) error {
		_, err := svc.rounds.ListRounds(ctx, id.PlayerID{})
		return err
	}
	log.Info("scoring core ready",
		"persistence", persistence(db),
		"cache", currentCache != nil,
		"audit_stream", len(cfg.Kafka.Brokers) > 0,
	)

	srv := httpserver.New(cfg.Addr, httpserver.NewOpsRouter(log, reg, checks))
	g.Go(func() error {
		log.Info("starting ops server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildAuditStore returns the Kafka sink behind a buffering worker when
// brokers are configured, else an in-memory store.
func buildAuditStore(ctx context.Context, cfg config.Server, log *slog.Logger, checks map[string]httpserver.HealthCheck) (audit.Store, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return audit.NewInMemoryStore(), func() {}, nil
	}
	client, err := kafka.NewClient(ctx, cfg.Kafka)
	if err != nil {
		return nil, nil, err
	}
	if err := kafka.EnsureTopic(ctx, client, cfg.Kafka); err != nil {
		client.Close()
		return nil, nil, err
	}
	checks["kafka"] = client.Ping
	sink := kafka.NewAuditSink(client, cfg.Kafka.AuditTopic)
	return audit.NewWorker(sink, cfg.Kafka.AuditBuffer, log), client.Close, nil
}

func buildCore(cfg config.Server, db *sql.DB, log *slog.Logger, reg prometheus.Registerer, publisher *audit.Publisher, currentCache handicapservice.CurrentCache) (*core, error) {
	var (
		handicapTx    handicapservice.StoreTx
		handicapStore handicapservice.Store
		roundTx       roundservice.StoreTx
		roundStore    roundservice.Store
		players       handicapservice.PlayerDirectory
		courses       courseCatalog
	)
	if db != nil {
		runner := postgres.NewRunner(db, cfg.TxTimeout)
		records := record.NewPostgres(db)
		rounds := roundstore.NewPostgres(db)
		handicapTx, handicapStore = handicapservice.NewRunnerTx(runner, records), records
		roundTx, roundStore = roundservice.NewRunnerTx(runner, rounds), rounds
		players = playerstore.NewPostgres(db)
		courses = coursestore.NewPostgres(db)
	} else {
		records := record.NewInMemoryStore()
		rounds := roundstore.NewInMemoryStore()
		handicapTx, handicapStore = handicapservice.NewShardedTx(records, cfg.TxTimeout), records
		roundTx, roundStore = roundservice.NewShardedTx(rounds, cfg.TxTimeout), rounds
		players = playerstore.NewInMemory()
		courses = coursestore.NewInMemory()
	}

	opts := []handicapservice.Option{
		handicapservice.WithLogger(log),
		handicapservice.WithAuditPublisher(publisher),
		handicapservice.WithMetrics(handicapmetrics.New(reg)),
	}
	if currentCache != nil {
		opts = append(opts, handicapservice.WithCurrentCache(currentCache))
	}
	handicap, err := handicapservice.New(handicapTx, handicapStore, players, opts...)
	if err != nil {
		return nil, fmt.Errorf("build handicap service: %w", err)
	}

	rounds, err := roundservice.New(roundservice.Dependencies{
		Tx:       roundTx,
		Store:    roundStore,
		Courses:  courses,
		TeeSets:  courses,
		Players:  players,
		Handicap: handicap,
	},
		roundservice.WithLogger(log),
		roundservice.WithAuditPublisher(publisher),
		roundservice.WithMetrics(roundmetrics.New(reg)),
	)
	if err != nil {
		return nil, fmt.Errorf("build round service: %w", err)
	}
	return &core{handicap: handicap, rounds: rounds}, nil
}

func persistence(db *sql.DB) string {
	if db == nil {
		return "memory"
	}
	return "postgres"
}
