package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"tradejournal/internal/audit"
	"tradejournal/internal/cache"
	"tradejournal/internal/config"
	cronrunner "tradejournal/internal/cron"
	"tradejournal/internal/db"
	"tradejournal/internal/forwarder"
	"tradejournal/internal/handler"
	"tradejournal/internal/logger"
	"tradejournal/internal/repository"
	gormrepository "tradejournal/internal/repository/gorm"
	"tradejournal/internal/service"
	"tradejournal/internal/trace"

	_ "tradejournal/docs"
)

const version = "0.1.0"

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("TJ_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TJ_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := trace.Init(cfg.Trace, version); err != nil {
		logger.Warn("tracing init failed (continuing without)", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = trace.Shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	readiness := map[string]handler.Pinger{}

	var entryRepo repository.TradeEntryRepository
	if cfg.Forwarder.Sink == config.SinkPostgres {
		dbConn, err := db.Open(cfg.DB)
		if err != nil {
			logger.Fatal("db open failed", zap.Error(err))
		}
		defer db.Close(dbConn)

		if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
			logger.Warn("failed to set timezone", zap.Error(err))
		}
		if err := db.AutoMigrate(dbConn); err != nil {
			logger.Fatal("auto-migrate failed", zap.Error(err))
		}
		entryRepo = gormrepository.New(dbConn.Gorm)
		readiness["db"] = handler.PingFunc(func(ctx context.Context) error { return db.Ping(ctx, dbConn) })
	}

	sink, err := forwarder.New(cfg.Forwarder, entryRepo, logger)
	if err != nil {
		logger.Fatal("forwarder init failed", zap.Error(err))
	}

	reportCache, err := cache.New(ctx, cfg.ReportCache, logger)
	if err != nil {
		logger.Fatal("report cache init failed", zap.Error(err))
	}
	defer func() { _ = reportCache.Close() }()
	if rs, ok := cacheStore(reportCache).(*cache.RedisStore); ok {
		readiness["redis"] = rs
	}

	auditClient := audit.NewClient(ctx, cfg.Audit, logger)
	baseCtx := ctx
	if auditClient != nil {
		baseCtx = audit.WithClient(ctx, auditClient)
	}

	uploads := &service.UploadService{
		Sink:   sink,
		Cache:  reportCache,
		Logger: logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(audit.InjectClientMiddleware(auditClient))
	engine.Use(audit.WriteMiddleware(auditClient, logger))

	(&handler.HomeHandler{Name: cfg.App.Name}).Register(engine)
	(&handler.HealthHandler{Deps: readiness}).Register(engine)
	(&handler.UploadHandler{Service: uploads, MaxBytes: cfg.Upload.MaxBytes, Logger: logger}).Register(engine)
	(&handler.ReportHandler{Service: uploads}).Register(engine)
	(&handler.EntryHandler{Repo: entryRepo}).Register(engine)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	cronRunner := cronrunner.New(logger, baseCtx)
	if cfg.Cron.Enabled && reportCache != nil {
		_, err = cronRunner.Add(cfg.Cron.CacheSweep, func(ctx context.Context) {
			if n := uploads.SweepCache(ctx); n > 0 {
				logger.Info("expired reports swept", zap.Int("count", n))
			}
		})
		if err != nil {
			logger.Warn("cron register cache sweep failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting",
			zap.String("addr", cfg.Server.HTTPAddr),
			zap.String("sink", sink.Name()),
			zap.String("report_cache", cfg.ReportCache.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func cacheStore(c *cache.ReportCache) cache.Store {
	if c == nil {
		return nil
	}
	return c.Store
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
