package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	botpkg "github.com/NastyaGoryachaya/block-aggregator/internal/bot"
	"github.com/NastyaGoryachaya/block-aggregator/internal/bot/adapter"
	"github.com/NastyaGoryachaya/block-aggregator/internal/config"
	"github.com/NastyaGoryachaya/block-aggregator/internal/infra/db"
	"github.com/NastyaGoryachaya/block-aggregator/internal/infra/explorer"
	"github.com/NastyaGoryachaya/block-aggregator/internal/infra/lock"
	"github.com/NastyaGoryachaya/block-aggregator/internal/metrics"
	repopg "github.com/NastyaGoryachaya/block-aggregator/internal/repository/postgres"
	"github.com/NastyaGoryachaya/block-aggregator/internal/scheduler"
	authsvc "github.com/NastyaGoryachaya/block-aggregator/internal/service/auth"
	blocksvc "github.com/NastyaGoryachaya/block-aggregator/internal/service/blocks"
	ingestsvc "github.com/NastyaGoryachaya/block-aggregator/internal/service/ingest"
	"github.com/NastyaGoryachaya/block-aggregator/internal/transport/httptransport"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg *config.Config
	log *slog.Logger

	db    *pgxpool.Pool
	redis *redis.Client

	blockRepo    *repopg.BlockRepo
	registryRepo *repopg.RegistryRepo
	userRepo     *repopg.UserRepo

	blocks blocksvc.Service
	auth   authsvc.Service
	ingest ingestsvc.Service

	updater *scheduler.Scheduler
}

// NewApp - соединения и сервисы. HTTP-сервер и бот поднимаются только в Run
func NewApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	pool, err := db.NewPool(ctx, &cfg.Postgres)
	if err != nil {
		return nil, err
	}
	app := &App{cfg: cfg, log: log, db: pool}

	app.blockRepo = repopg.NewBlockRepository(pool)
	app.registryRepo = repopg.NewRegistryRepository(pool)
	app.userRepo = repopg.NewUserRepository(pool)

	app.blocks = blocksvc.NewService(app.registryRepo, app.blockRepo, log)
	app.auth, err = authsvc.NewService(app.userRepo, cfg.Security, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.ingest = ingestsvc.NewService(
		explorer.NewClient(cfg.Explorer),
		app.registryRepo,
		app.blockRepo,
		metrics.NewIngester(),
		log,
	)

	var locker scheduler.Locker = lock.NoopLocker{}
	if cfg.Redis.Enabled {
		app.redis, err = lock.NewRedisClient(ctx, cfg.Redis.Addr())
		if err != nil {
			app.Close()
			return nil, err
		}
		locker = lock.NewRedisLocker(app.redis, cfg.Redis.LockKey, cfg.Redis.LockTTL)
	}
	app.updater = scheduler.NewScheduler(app.ingest, cfg.Task.Every.Duration(), locker, log)

	log.Info("app initialized",
		slog.Bool("redis_lock", cfg.Redis.Enabled),
		slog.Bool("task_enabled", cfg.Task.Enabled),
		slog.Duration("task_every", cfg.Task.Every.Duration()),
	)
	return app, nil
}

func (a *App) Auth() authsvc.Service { return a.auth }

func (a *App) Registry() *repopg.RegistryRepo { return a.registryRepo }

// IngestOnce - один цикл загрузки под той же блокировкой, что и у планировщика
func (a *App) IngestOnce(ctx context.Context) error {
	return a.updater.RunOnce(ctx)
}

// Run - HTTP API, планировщик и бот до отмены ctx
func (a *App) Run(ctx context.Context) error {
	timeout := a.cfg.Server.RequestTimeout
	e := httptransport.NewRouter(a.log,
		httptransport.NewBlocksHandler(a.log, a.blocks, timeout),
		httptransport.NewAuthHandler(a.log, a.auth, timeout),
	)
	serv := httptransport.NewServer(a.cfg.Server, e)

	var bot *botpkg.Bot
	if a.cfg.Telegram.Enabled {
		var err error
		bot, err = botpkg.New(
			botpkg.Config{Token: strings.TrimSpace(a.cfg.Telegram.Token), LongPollTimeout: 10 * time.Second},
			adapter.NewBlocksReader(a.blocks),
			a.log,
		)
		if err != nil {
			a.log.Error("telegram init failed", slog.String("error", err.Error()))
			return fmt.Errorf("telegram init: %w", err)
		}
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	var wg sync.WaitGroup
	if a.cfg.Task.Enabled {
		a.log.Info("starting updater")
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.updater.Start(runCtx)
		}()
	}
	if bot != nil {
		a.log.Info("starting bot")
		wg.Add(1)
		go func() {
			defer wg.Done()
			bot.Start(runCtx)
		}()
	}

	serveErr := make(chan error, 1)
	a.log.Info("starting server", slog.String("addr", a.cfg.Server.Addr))
	go func() {
		if err := serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			a.log.Error("http server error", slog.String("error", err.Error()))
			runErr = err
		}
	}

	stop()
	shCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := serv.Shutdown(shCtx); err != nil {
		a.log.Error("http shutdown error", slog.String("error", err.Error()))
	}
	wg.Wait()
	return runErr
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	a.log.Info("application stopped")
}
