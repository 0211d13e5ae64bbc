package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/programme-match-api/api/swagger"
	"github.com/noah-isme/programme-match-api/internal/handler"
	internalmiddleware "github.com/noah-isme/programme-match-api/internal/middleware"
	"github.com/noah-isme/programme-match-api/internal/repository"
	"github.com/noah-isme/programme-match-api/internal/service"
	"github.com/noah-isme/programme-match-api/pkg/cache"
	"github.com/noah-isme/programme-match-api/pkg/config"
	"github.com/noah-isme/programme-match-api/pkg/database"
	"github.com/noah-isme/programme-match-api/pkg/export"
	"github.com/noah-isme/programme-match-api/pkg/jobs"
	"github.com/noah-isme/programme-match-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/programme-match-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/programme-match-api/pkg/middleware/requestid"
)

// @title Programme Match API
// @version 1.0.0
// @description Matches students' secondary school grades against university programme requirements.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const purgeInterval = 10 * time.Minute

// storeBackend is the key-value backend chosen by STORE_DRIVER with its
// readiness check and teardown.
type storeBackend struct {
	repo    service.CacheRepository
	ping    handler.ReadinessCheck
	closers []func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open store", "driver", cfg.Store.Driver, "error", err)
	}
	defer func() {
		for _, closeFn := range backend.closers {
			closeFn()
		}
	}()

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(backend.repo, metricsSvc, cfg.Store.TTL, logr)
	validate := validator.New()

	client := repository.NewCatalogClient(cfg.Catalog.BaseURL, nil, cfg.Catalog.Timeout, logr, metricsSvc)
	catalogRepo := repository.NewCatalogRepository(client)
	studentRepo := repository.NewStudentRepository(client)

	registry := service.NewSessionRegistry(cacheSvc, catalogRepo, service.NewFilterEngine(), metricsSvc, cfg.Catalog.PerPage, logr)
	eviction := jobs.NewPeriodic("session-eviction", purgeInterval, func(context.Context) error {
		registry.EvictIdle(cfg.Session.IdleTimeout)
		return nil
	}, logr)
	eviction.Start(ctx)
	defer eviction.Stop()
	customSvc := service.NewCustomFilterService(catalogRepo, cfg.CustomFilter.PerPage, cfg.CustomFilter.DefaultGrade, logr)
	exportSvc := service.NewExportService(registry, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	catalogSvc := service.NewCatalogService(registry, customSvc, exportSvc)
	studentSvc := service.NewStudentService(studentRepo, registry, validate, logr, service.SessionTokenConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: cfg.Session.Issuer,
	})
	programmeSvc := service.NewProgrammeService(catalogRepo, registry, validate, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:       handler.NewAuthHandler(studentSvc),
		Programmes: handler.NewProgrammeHandler(catalogSvc),
		Admin:      handler.NewAdminHandler(programmeSvc),
		Metrics:    handler.NewMetricsHandler(metricsSvc, map[string]handler.ReadinessCheck{"store": backend.ping}),
	}, internalmiddleware.Session(studentSvc))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver, "catalog", cfg.Catalog.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*storeBackend, error) {
	switch cfg.Store.Driver {
	case config.StoreRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		repo := repository.NewCacheRepository(client, cfg.Redis.Namespace, logr)
		return &storeBackend{
			repo: repo,
			ping: repo.Ping,
			closers: []func(){func() {
				if err := repo.Close(); err != nil {
					logr.Sugar().Warnw("failed to close redis", "error", err)
				}
			}},
		}, nil
	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		repo := repository.NewKVRepository(db)
		purge := startPurge(ctx, "kv-purge", repo, logr)
		return &storeBackend{
			repo: repo,
			ping: db.PingContext,
			closers: []func(){purge.Stop, func() {
				if err := db.Close(); err != nil {
					logr.Sugar().Warnw("failed to close database", "error", err)
				}
			}},
		}, nil
	default:
		repo := repository.NewMemoryRepository()
		purge := startPurge(ctx, "memory-purge", repo, logr)
		return &storeBackend{
			repo:    repo,
			ping:    func(context.Context) error { return nil },
			closers: []func(){purge.Stop},
		}, nil
	}
}

type expiringStore interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func startPurge(ctx context.Context, name string, store expiringStore, logr *zap.Logger) *jobs.Periodic {
	purge := jobs.NewPeriodic(name, purgeInterval, func(ctx context.Context) error {
		removed, err := store.PurgeExpired(ctx)
		if err == nil && removed > 0 {
			logr.Sugar().Infow("purged expired session keys", "job", name, "count", removed)
		}
		return err
	}, logr)
	purge.Start(ctx)
	return purge
}
