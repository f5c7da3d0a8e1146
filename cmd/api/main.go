package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simplyskin/internal/adapters"
	"simplyskin/internal/adapters/storage"
	apphttp "simplyskin/internal/http"
	"simplyskin/internal/http/router"
	"simplyskin/internal/profiles"
	profilerepo "simplyskin/internal/profiles/repository"
	"simplyskin/internal/scans"
	"simplyskin/internal/scans/agent"
	"simplyskin/internal/scans/ports"
	scanrepo "simplyskin/internal/scans/repository"
	"simplyskin/internal/scans/service"
	"simplyskin/internal/upc"
	"simplyskin/platform/ai/openai"
	"simplyskin/platform/config"
	"simplyskin/platform/db"
	"simplyskin/platform/logger"
	"simplyskin/platform/retry"
	"simplyskin/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

// startupPolicy retries infrastructure that may still be booting next to us.
var startupPolicy = retry.Policy{
	MaxAttempts:   5,
	BaseDelay:     2 * time.Second,
	MaxDelay:      10 * time.Second,
	JitterPercent: 10,
	Retryable:     func(error) bool { return true },
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := startupPolicy.Do(ctx, log, "database connection", func(ctx context.Context) error {
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

	if cfg.GetRunMigrations() {
		if err := startupPolicy.Do(ctx, log, "database migrations", func(ctx context.Context) error {
			return db.RunMigrations(ctx, pool, log)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	}

	// Shared validator instance for dependency injection
	val := validator.New()
	policy := retry.FromConfig(cfg)

	faceSigner, historySigner, closeCache := initImageSigners(ctx, cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	var analyzer ports.Analyzer
	if cfg.IsLLMEnabled() {
		a, err := agent.NewAnalyzer(openai.NewModel(openai.ConfigFrom(cfg)), val, policy, log)
		if err != nil {
			log.Error("failed to initialize analyzer", "error", err)
			panic("failed to initialize analyzer: " + err.Error())
		}
		analyzer = a
		log.Info("llm analyzer initialized", "model", cfg.GetLLMModel())
	} else {
		log.Warn("LLM_API_KEY not configured; scans will answer CONFIG_ERROR")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	profilesModule := profiles.NewModule(profilerepo.New(pool), val, log)

	scansModule := scans.NewModule(service.Deps{
		Repo:          scanrepo.New(pool),
		Profiles:      adapters.NewScansProfileReader(profilesModule.Repository()),
		Lookup:        adapters.NewUPCProductLookup(upc.New(cfg, policy, log)),
		Analyzer:      analyzer,
		FaceSigner:    faceSigner,
		HistorySigner: historySigner,
		Log:           log,
	}, val)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: pool,
		Modules: []apphttp.Module{
			profilesModule,
			scansModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initImageSigners builds the face image signers. The history signer caches
// URLs in Redis when REDIS_URL is set, otherwise in memory. Both are nil when
// storage is not configured.
func initImageSigners(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.ImageSigner, ports.ImageSigner, func()) {
	if !cfg.IsStorageEnabled() {
		log.Warn("object storage not configured; face scans disabled")
		return nil, nil, nil
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	bucket := cfg.GetStorageFaceBucket()
	if ok, err := storageSvc.BucketExists(ctx, bucket); err != nil || !ok {
		log.Warn("face bucket not reachable", "bucket", bucket, "error", err)
	}
	log.Info("storage service initialized", "faceBucket", bucket)

	faceSigner := adapters.NewFaceImageSigner(storageSvc, bucket, cfg.GetSignedURLTTL())

	var cache storage.URLCache
	var closeCache func()
	if redisURL := cfg.GetRedisURL(); redisURL != "" {
		client, err := storage.NewRedisClient(ctx, redisURL)
		if err != nil {
			log.Warn("redis unavailable; using in-memory URL cache", "error", err)
		} else {
			cache = storage.NewRedisURLCache(client, "", cfg.GetURLCacheTTL())
			closeCache = func() { _ = client.Close() }
		}
	}
	if cache == nil {
		cache = storage.NewMemoryURLCache(cfg.GetURLCacheCapacity(), cfg.GetURLCacheTTL())
	}

	return faceSigner, adapters.NewCachedFaceImageSigner(faceSigner, cache, cfg.GetURLCacheTTL()), closeCache
}
