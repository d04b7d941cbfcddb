package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kgo"

	"accredit/internal/audit"
	auditkafka "accredit/internal/audit/kafka"
	"accredit/internal/certification/catalog"
	certhandler "accredit/internal/certification/handler"
	"accredit/internal/certification/issuance"
	certmetrics "accredit/internal/certification/metrics"
	"accredit/internal/certification/progress"
	"accredit/internal/certification/store/activity"
	"accredit/internal/certification/store/credential"
	"accredit/internal/certification/store/sequence"
	"accredit/internal/certification/verification"
	jwttoken "accredit/internal/jwt_token"
	"accredit/internal/platform/config"
	"accredit/internal/platform/httpserver"
	"accredit/internal/platform/logger"
	platformmetrics "accredit/internal/platform/metrics"
	"accredit/internal/platform/postgres"
	platformredis "accredit/internal/platform/redis"
	"accredit/internal/ratelimit"
	httptransport "accredit/internal/transport/http"
	"accredit/pkg/platform/circuit"
	"accredit/pkg/platform/tx"
)

// activityStore is what the progress pipeline reads from one backend.
type activityStore interface {
	progress.ActivityReader
	progress.ProfileReader
}

type credentialStore interface {
	issuance.CredentialStore
	verification.CredentialReader
}

func serveCommand() *cobra.Command {
	var (
		addr    string
		devMode bool
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("dev") {
				cfg.DevMode = devMode
			}
			if cmd.Flags().Changed("migrate") {
				cfg.Migrate = migrate
			}
			if globalFlags.logLevel != "" {
				cfg.LogLevel = globalFlags.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveRun(ctx, cfg, logger.New(os.Stdout, cfg.LogLevel))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&devMode, "dev", false, "use in-memory stores seeded with a demo advocate")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the database schema before serving")
	return cmd
}

func serveRun(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("starting "+programName, "addr", cfg.Addr, "dev_mode", cfg.DevMode, "counter", cfg.CounterBackend)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	certMetrics := certmetrics.New(reg)
	health := map[string]httptransport.HealthCheck{}

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if cfg.Migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("database schema applied")
		}
		health["postgres"] = db.PingContext
	}

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		health["redis"] = redisClient.Health
	}

	var (
		activities  activityStore
		credentials credentialStore
	)
	if db != nil {
		pg := activity.NewPostgres(db)
		if cfg.DevMode {
			err := tx.Run(ctx, db, func(ctx context.Context) error {
				demo, err := seedDemoAdvocate(ctx, pg)
				if err == nil {
					log.Info("seeded demo advocate", "user_id", demo.String())
				}
				return err
			})
			if err != nil {
				return err
			}
		}
		activities = pg
		credentials = credential.NewPostgres(db)
	} else {
		mem := activity.NewInMemoryStore()
		demo, err := seedDemoAdvocate(ctx, mem)
		if err != nil {
			return err
		}
		log.Info("seeded demo advocate", "user_id", demo.String())
		activities = mem
		credentials = credential.NewInMemoryStore()
	}

	var counter issuance.SequenceAllocator
	switch cfg.CounterBackend {
	case config.CounterRedis:
		counter = sequence.NewRedisCounter(redisClient)
	case config.CounterPostgres:
		counter = sequence.NewPostgresCounter(db)
	default:
		counter = sequence.NewInMemoryCounter()
	}

	auditStore, closeAudit, err := newAuditStore(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer closeAudit()

	cat := catalog.Default()
	progressSvc := progress.New(activities, activities, credentials, cat,
		progress.WithLogger(log),
		progress.WithMetrics(certMetrics),
	)
	issuanceSvc, err := issuance.New(cat, activities, progressSvc, credentials, counter,
		issuance.WithLogger(log),
		issuance.WithMetrics(certMetrics),
		issuance.WithAuditPublisher(audit.NewPublisher(auditStore, audit.WithLogger(log))),
		issuance.WithNumberPrefix(cfg.CredentialPrefix),
	)
	if err != nil {
		return fmt.Errorf("build issuance service: %w", err)
	}
	verificationSvc := verification.New(credentials, activities, cat,
		verification.WithLogger(log),
		verification.WithMetrics(certMetrics),
	)

	jwt := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	router := httptransport.NewRouter(httptransport.Deps{
		Certification: certhandler.New(progressSvc, issuanceSvc, verificationSvc, cat, log),
		Validator:     jwttoken.NewJWTServiceAdapter(jwt),
		AdminToken:    cfg.AdminToken,
		Logger:        log,
		Metrics:       platformmetrics.NewHTTP(reg),
		Gatherer:      reg,
		Health:        health,
		PublicLimit:   newPublicLimit(cfg, redisClient, log),
	})
	if cfg.AdminToken == "" {
		log.Warn("ACCREDIT_ADMIN_TOKEN not set; staff routes are disabled")
	}

	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router), cfg.ShutdownTimeout, log)
}

// newPublicLimit counts in Redis when it is configured so every replica
// shares the budget, and in process memory otherwise.
func newPublicLimit(cfg config.Server, redisClient *platformredis.Client, log *slog.Logger) func(http.Handler) http.Handler {
	if cfg.PublicRateLimit == 0 {
		return nil
	}
	var checker ratelimit.Checker = ratelimit.NewInMemoryStore()
	if redisClient != nil {
		checker = ratelimit.NewLimiter(
			ratelimit.NewRedisStore(redisClient),
			ratelimit.NewInMemoryStore(),
			circuit.New("redis-ratelimit", circuit.WithCooldown(rateLimitBreakerCooldown)),
			log,
		)
	}
	return ratelimit.PerIP(checker, cfg.PublicRateLimit, cfg.PublicRateWindow, log)
}

// newAuditStore picks Kafka when brokers are configured, diverting to the
// structured log while the broker is unhealthy, and uses the log otherwise.
func newAuditStore(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (audit.Store, func(), error) {
	if len(cfg.Brokers) == 0 {
		return audit.NewLogStore(log), func() {}, nil
	}
	client, err := auditkafka.NewClient(cfg.Brokers, cfg.Topic)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka client: %w", err)
	}
	if err := auditkafka.EnsureTopic(ctx, client, cfg.Topic, 1, 1); err != nil {
		log.Warn("could not ensure audit topic", "topic", cfg.Topic, "error", err)
	}
	log.Info("audit events published to kafka", "topic", cfg.Topic)
	breaker := circuit.New("kafka-audit", circuit.WithCooldown(auditBreakerCooldown))
	store := audit.NewFallbackStore(auditkafka.New(client, cfg.Topic), audit.NewLogStore(log), breaker, log)
	return store, func() { closeKafka(client) }, nil
}

const (
	kafkaFlushTimeout    = 5 * time.Second
	auditBreakerCooldown = 30 * time.Second

	rateLimitBreakerCooldown = 10 * time.Second
)

func closeKafka(client *kgo.Client) {
	flushCtx, cancel := context.WithTimeout(context.Background(), kafkaFlushTimeout)
	defer cancel()
	_ = client.Flush(flushCtx)
	client.Close()
}
