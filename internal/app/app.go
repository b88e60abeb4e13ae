package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/verifeye-backend/internal/data/db"
	"github.com/yungbote/verifeye-backend/internal/http"
	"github.com/yungbote/verifeye-backend/internal/observability"
	"github.com/yungbote/verifeye-backend/internal/platform/envutil"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

const ServiceName = "verifeye-backend"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Metrics  *observability.Metrics
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenDB connects and, unless DB_AUTO_MIGRATE=false, migrates the schema.
func OpenDB(log *logger.Logger, opts db.Options, migrate bool) (*db.Service, error) {
	dbService, err := db.NewService(opts, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if migrate {
		if err := db.AutoMigrateAll(dbService.DB()); err != nil {
			_ = dbService.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("Schema migrated", "driver", dbService.Driver())
	}
	return dbService, nil
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: envutil.String("OTEL_SERVICE_NAME", ServiceName),
		Environment: cfg.Env,
		Version:     envutil.String("APP_VERSION", ""),
	})
	metrics := observability.Init(log)

	dbService, err := OpenDB(log, cfg.DB, envutil.Bool("DB_AUTO_MIGRATE", true))
	if err != nil {
		return nil, err
	}
	theDB := dbService.DB()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, clients)
	if err != nil {
		clients.Close()
		_ = dbService.Close()
		return nil, err
	}

	var router *gin.Engine
	if cfg.RunServer {
		handlerset := wireHandlers(log, serviceset)
		middleware := wireMiddleware(log, serviceset)
		router = wireRouter(log, cfg, metrics, handlerset, middleware)
	}

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Metrics:      metrics,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Start seeds reference data and launches the background loops this process owns.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if err := a.Services.Curriculum.Seed(ctx); err != nil {
		return fmt.Errorf("seed curriculum: %w", err)
	}
	if err := a.Services.Leaderboard.Rebuild(ctx); err != nil {
		// SQL stays authoritative; the board heals on the next rebuild.
		a.Log.Warn("Leaderboard rebuild failed", "error", err)
	}

	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	a.Metrics.StartJobQueueCollector(ctx, a.Log, a.DB)

	if a.Services.JobWorker != nil {
		a.Services.JobWorker.Start(ctx)
	}
	if a.Services.Scheduler != nil {
		if err := a.Services.Scheduler.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Run serves HTTP until ctx is canceled. Worker-only processes block on ctx instead.
func (a *App) Run(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Router == nil {
		a.Log.Info("HTTP server disabled; running background workers only")
		<-ctx.Done()
		return nil
	}
	addr := a.Cfg.Address()
	a.Log.Info("Listening", "addr", addr)
	return (&http.Server{Engine: a.Router}).Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.Scheduler != nil {
		a.Services.Scheduler.Stop()
	}
	if a.Services.JobWorker != nil {
		a.Services.JobWorker.Wait()
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(shutdownCtx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
