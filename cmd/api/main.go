package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"jobguinee_backend/internal/adapters/storage"
	"jobguinee_backend/internal/email"
	"jobguinee_backend/internal/events"
	apphttp "jobguinee_backend/internal/http"
	"jobguinee_backend/internal/http/router"
	"jobguinee_backend/internal/leads"
	"jobguinee_backend/internal/missions"
	"jobguinee_backend/internal/notification"
	"jobguinee_backend/internal/notification/sse"
	"jobguinee_backend/internal/pageconfig"
	"jobguinee_backend/internal/pipeline"
	pipelinecache "jobguinee_backend/internal/pipeline/cache"
	"jobguinee_backend/internal/pipeline/pipelinetx"
	pipelinesvc "jobguinee_backend/internal/pipeline/service"
	"jobguinee_backend/internal/quotes"
	quotessvc "jobguinee_backend/internal/quotes/service"
	"jobguinee_backend/internal/scheduler"
	"jobguinee_backend/platform/config"
	"jobguinee_backend/platform/db"
	"jobguinee_backend/platform/logger"
	"jobguinee_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)

	statsCache := initStatsCache(cfg, log)

	followUpScheduler, closeScheduler := initFollowUpScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	val := validator.New()

	pdfStorage := initPDFStorage(ctx, cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	pipelineModule := pipeline.New(pool, eventBus, statsCache, followUpScheduler, val, log.Logger)
	forcer := pipelinetx.New(pipelineModule.Repository, log.Logger)

	leadsModule := leads.New(pool, pipelineModule.Service, eventBus, val, log.Logger)
	quotesModule := quotes.New(pool, forcer, pdfStorage, eventBus, val, log.Logger)
	missionsModule := missions.New(pool, forcer, eventBus, val, log.Logger)
	pageconfigModule := pageconfig.New(pool, val, log.Logger)

	hub := sse.NewHub(log.Logger)
	emailNotifier := notification.NewEmailNotifier(sender, cfg.SalesInboxAddress)
	notificationModule := notification.New(eventBus, hub, emailNotifier, log.Logger)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			pipelineModule,
			quotesModule,
			missionsModule,
			pageconfigModule,
			notificationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initStatsCache builds the Redis-backed statistics cache. Without Redis the
// dashboard recomputes on every request, which is acceptable at this volume.
func initStatsCache(cfg *config.Config, log *logger.Logger) pipelinesvc.StatsCache {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; pipeline statistics cache disabled")
		return nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL; pipeline statistics cache disabled", "error", err)
		return nil
	}
	if cfg.GetRedisTLSInsecure() && opt.TLSConfig != nil {
		opt.TLSConfig.InsecureSkipVerify = true
	} else if cfg.GetRedisTLSInsecure() {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return pipelinecache.NewRedisStatsCache(redis.NewClient(opt), cfg.GetStatsCacheTTL())
}

func initFollowUpScheduler(cfg config.SchedulerConfig, log *logger.Logger) (pipelinesvc.FollowUpScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-up reminders disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize follow-up scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

// initPDFStorage builds the MinIO adapter when storage is configured. A nil
// result disables the quote PDF URL endpoint rather than blocking startup.
func initPDFStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) quotessvc.PDFStorage {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MinIO not configured; quote PDF downloads disabled")
		return nil
	}

	svc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	if err := withRetry(ctx, log, "ensure quote-pdfs bucket", 5, 2*time.Second, func() error {
		return svc.EnsureBucketExists(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketQuotePDFs())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}

	log.Info("storage service initialized", "quotePDFsBucket", cfg.GetMinioBucketQuotePDFs())
	return svc
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
