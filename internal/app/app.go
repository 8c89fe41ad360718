package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/formrush/formrush/internal/config"
	"github.com/formrush/formrush/internal/db/repository"
	"github.com/formrush/formrush/internal/fill"
	"github.com/formrush/formrush/internal/gforms"
	"github.com/formrush/formrush/internal/logging"
	"github.com/formrush/formrush/internal/metrics"
	"github.com/formrush/formrush/internal/server"
	ws "github.com/formrush/formrush/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	retentionWorker *repository.RetentionWorker
	bgCancels       []context.CancelFunc
}

// New bootstraps configs, logger, Postgres, Redis and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	m := metrics.New()

	// Form retrieval pipeline
	httpClient := &http.Client{Timeout: cfg.Forms.FetchTimeout}
	fetcher := gforms.NewFetcher(httpClient, logger)
	submitClient := &http.Client{
		Timeout: cfg.Forms.FetchTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	submitter := gforms.NewSubmitter(submitClient, logger)
	formCache := gforms.NewCache(redisClient, cfg.Forms.CacheTTL)

	formLogRepo := repository.NewFormLogRepository(pool)
	formHandlers := gforms.NewHTTPHandlers(fetcher, formCache, formLogRepo, formLogRepo, m, logger)

	// Fill pipeline
	wsHub := ws.NewHub(logger)
	jobStore := fill.NewJobStore(redisClient, logger)
	fillSvc := fill.NewService(fetcher, submitter, formCache, jobStore, wsHub, m, logger, fill.Options{
		MinDelay:      cfg.Fill.MinDelay,
		MaxDelay:      cfg.Fill.MaxDelay,
		MaxCount:      cfg.Fill.MaxResponses,
		SubmitTimeout: cfg.Fill.SubmitTimeout,
	})
	fillHandlers := fill.NewHTTPHandlers(fillSvc, wsHub, logger)

	retentionWorker := repository.NewRetentionWorker(
		formLogRepo,
		cfg.AccessLog.PurgeInterval,
		cfg.AccessLog.Retention,
		logger,
	)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, formHandlers,
		fillHandlers.SubmitResponse, fillHandlers.CreateJob, fillHandlers.GetJob, fillHandlers.HandleWebSocket)

	return &Application{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redis:           redisClient,
		http:            apiServer,
		retentionWorker: retentionWorker,
		bgCancels:       make([]context.CancelFunc, 0, 1),
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

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.retentionWorker != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.retentionWorker.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("access log retention worker stopped")
			}
		}()
	}
}
