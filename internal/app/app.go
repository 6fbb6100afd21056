package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ingenieras/internal/archive"
	"github.com/gokatarajesh/ingenieras/internal/auth"
	"github.com/gokatarajesh/ingenieras/internal/auth/jwt"
	"github.com/gokatarajesh/ingenieras/internal/challenge"
	"github.com/gokatarajesh/ingenieras/internal/config"
	"github.com/gokatarajesh/ingenieras/internal/db/repository"
	"github.com/gokatarajesh/ingenieras/internal/feed"
	"github.com/gokatarajesh/ingenieras/internal/gallery"
	"github.com/gokatarajesh/ingenieras/internal/logging"
	"github.com/gokatarajesh/ingenieras/internal/metrics"
	"github.com/gokatarajesh/ingenieras/internal/report"
	"github.com/gokatarajesh/ingenieras/internal/server"
	"github.com/gokatarajesh/ingenieras/pkg/http/binding"
	ws "github.com/gokatarajesh/ingenieras/pkg/http/ws"
)

// Application aggregates shared infrastructure (file stores, optional Redis and Postgres, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	hub   *ws.Hub
	http  *http.Server

	broadcaster   *feed.Broadcaster
	archiveWorker *archive.Worker
	bgCancels     []context.CancelFunc
}

// New bootstraps configs, logger, stores, optional backends and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(registry)
	binder := binding.New(cfg.HTTP.MaxBodyBytes)

	// File-backed stores
	meta, err := challenge.NewMetadataStore(cfg.Data.ChallengesFile, logger)
	if err != nil {
		return nil, fmt.Errorf("open challenge metadata: %w", err)
	}
	repo, err := challenge.NewRepository(cfg.Data.ChallengesDir)
	if err != nil {
		return nil, fmt.Errorf("open challenge repository: %w", err)
	}
	reportStore, err := report.NewStore(cfg.Data.ReportsDir, report.StoreOptions{})
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}
	reportQuery := report.NewQuery(cfg.Data.ReportsDir, collector, logger)

	// Live feed: Redis Pub/Sub when configured, in-process otherwise
	hub := ws.NewHub(logger)
	var (
		redisClient *redis.Client
		publisher   report.Publisher
		broadcaster *feed.Broadcaster
	)
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable at startup; feed will retry")
		}
		publisher = feed.NewRedisPublisher(redisClient, cfg.Redis.FeedChannel)
		broadcaster = feed.NewBroadcaster(redisClient, hub, cfg.Redis.FeedChannel, logger)
		logger.Info().Str("channel", cfg.Redis.FeedChannel).Msg("report feed uses redis pub/sub")
	} else {
		publisher = feed.NewLocalPublisher(hub)
		logger.Info().Msg("REDIS_ADDR not set; report feed is in-process")
	}

	// Optional Postgres archive
	var (
		pool          *pgxpool.Pool
		archiveWorker *archive.Worker
	)
	if cfg.Postgres.Enabled() {
		pool, err = pgxpool.New(ctx, cfg.Postgres.DSN()+" pool_max_conns=4")
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		archiveWorker = archive.NewWorker(reportQuery, repository.NewArchiveRepository(pool), cfg.Archive.Interval, logger)
		logger.Info().Dur("interval", cfg.Archive.Interval).Msg("submission archive enabled")
	} else {
		logger.Info().Msg("PG_HOST not set; submission archive disabled")
	}

	// Admin credentials
	var sessions *jwt.Manager
	if cfg.Admin.JWTSecret != "" {
		sessions = jwt.NewManager(jwt.TokenConfig{
			Secret: []byte(cfg.Admin.JWTSecret),
			TTL:    cfg.Admin.SessionTTL,
			Issuer: cfg.Name,
		})
	} else {
		logger.Warn().Msg("ADMIN_JWT_SECRET not set; admin sessions disabled, pwd query only")
	}
	guard, err := auth.NewGuard(auth.GuardConfig{
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
		Sessions:     sessions,
	}, logger)
	if err != nil {
		return nil, err
	}

	// Domain services
	challengeSvc := challenge.NewService(meta, repo, logger, challenge.ServiceOptions{Metrics: collector})
	reportSvc := report.NewService(reportStore, reportQuery, logger, report.ServiceOptions{
		Publisher: publisher,
		Metrics:   collector,
	})
	images := gallery.New(cfg.Data.StaticDir, cfg.Data.GalleryPrefix, logger, gallery.Options{})

	pages, err := server.NewPages(server.PagesConfig{
		GuardPublish: cfg.Admin.GuardPublish,
		Challenges:   challengeSvc,
		Reports:      reportSvc,
		Images:       images,
		Guard:        guard,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := server.NewRouter(server.Handlers{
		Pages:      pages,
		Challenges: challenge.NewHTTPHandler(challengeSvc, binder, logger),
		Reports:    report.NewHTTPHandler(reportSvc, binder, logger),
		Images:     images,
		Auth:       auth.NewHTTPHandlers(guard, binder, logger),
		Guard:      guard,
		Feed:       feed.NewHandler(hub, logger),
		Metrics:    collector,
		MetricsAPI: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		StaticDir:  filepath.Clean(cfg.Data.StaticDir),
	}, server.RouterOptions{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		GuardPublish:   cfg.Admin.GuardPublish,
	}, logger)

	return &Application{
		cfg:           cfg,
		logger:        logger,
		pool:          pool,
		redis:         redisClient,
		hub:           hub,
		http:          server.NewHTTPServer(cfg, router),
		broadcaster:   broadcaster,
		archiveWorker: archiveWorker,
		bgCancels:     make([]context.CancelFunc, 0, 2),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown.
	a.hub.CloseAll()
	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.broadcaster != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.broadcaster.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Msg("report feed broadcaster stopped")
			}
		}()
	}

	if a.archiveWorker != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.archiveWorker.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Msg("archive worker stopped")
			}
		}()
	}
}
