// Command server runs the sharebite API: donation CRUD, the claim lifecycle,
// event fan-out, and the background expiry sweeper. Wiring lives here; all
// behavior lives in internal packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sharebite/internal/audit"
	claimengine "sharebite/internal/claim/engine"
	claimstore "sharebite/internal/claim/store"
	"sharebite/internal/db"
	donationservice "sharebite/internal/donation/service"
	donationstore "sharebite/internal/donation/store"
	"sharebite/internal/events"
	jwttoken "sharebite/internal/jwt_token"
	"sharebite/internal/otp"
	"sharebite/internal/platform/config"
	"sharebite/internal/platform/httpserver"
	"sharebite/internal/platform/kafka"
	"sharebite/internal/platform/logger"
	"sharebite/internal/platform/metrics"
	platformredis "sharebite/internal/platform/redis"
	"sharebite/internal/sweeper"
	httptransport "sharebite/internal/transport/http"
	userstore "sharebite/internal/user/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Stores: PostgreSQL when configured, in-memory for local development.
	var (
		donations donationstore.Store
		claims    claimstore.Store
		users     userstore.Store
		auditSink audit.Store
		health    []httptransport.HealthCheck
	)
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("database connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer conn.Close()
		if err := db.Migrate(ctx, conn); err != nil {
			log.Error("schema migration failed", "error", err.Error())
			os.Exit(1)
		}
		donations = donationstore.NewPostgres(conn)
		claims = claimstore.NewPostgres(conn)
		users = userstore.NewPostgres(conn)
		auditSink = audit.NewPostgres(conn)
		health = append(health, httptransport.HealthCheck{
			Name:  "postgres",
			Check: conn.PingContext,
		})
	} else {
		log.Warn("no database configured, using in-memory stores")
		donations = donationstore.NewInMemoryStore()
		claims = claimstore.NewInMemoryStore()
		users = userstore.NewInMemoryStore()
		auditSink = audit.NewInMemoryStore()
	}

	// Fan-out: Redis pub/sub when configured so all instances share rooms.
	var broker events.Broker
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		redisBroker := events.NewRedisBroker(redisClient, m)
		broker = redisBroker
		health = append(health, httptransport.HealthCheck{
			Name:  "redis",
			Check: redisBroker.Health,
		})
	} else {
		log.Warn("no redis configured, event fan-out is per-instance only")
		broker = events.NewInMemoryBroker(m)
	}

	// Audit trail, with an optional Kafka mirror for downstream consumers.
	auditOpts := []audit.Option{audit.WithAsyncBuffer(cfg.AuditBuffer)}
	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Error("kafka connection failed", "error", err.Error())
		os.Exit(1)
	}
	if producer != nil {
		defer producer.Close()
		auditOpts = append(auditOpts, audit.WithKafkaSink(producer))
	}
	auditPub := audit.NewPublisher(auditSink, log, auditOpts...)
	defer auditPub.Close()

	engine := claimengine.New(donations, claims, users, otp.NewGenerator(),
		broker, auditPub, m, log, cfg.ClaimTTL)
	donationSvc := donationservice.New(donations, broker, auditPub, m, log)
	sweep := sweeper.New(engine, m, log, cfg.ClaimSweepInterval, cfg.DonationSweepInterval)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Metrics:   m,
		Validator: jwttoken.New(cfg.JWTSigningKey),
		Donations: donationSvc,
		Claims:    engine,
		Sweeper:   sweep,
		Health:    health,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting sharebite", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := sweep.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
