package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	// 模块通过 init 自动注册
	_ "content_moderation/internal/domain/common"
	_ "content_moderation/internal/domain/moderation"
	"content_moderation/internal/pkg/config"
	"content_moderation/internal/pkg/middleware"
	"content_moderation/internal/pkg/push"
	"content_moderation/internal/pkg/registry"
	"content_moderation/internal/pkg/worker"
	"content_moderation/pkg/cache"
	"content_moderation/pkg/database"
	"content_moderation/pkg/logger"
	"content_moderation/pkg/metrics"
	"content_moderation/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	config.LoadConfig()
	cfg := &config.GlobalConfig

	if err := logger.InitLogger(cfg.App.Env, cfg.App.Debug); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.L()

	utils.RegisterJSONTagNames()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}
	rdb, err := database.InitRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("init redis", zap.Error(err))
	}
	defer rdb.Close()

	collector := metrics.GetGlobalCollector()

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("get sql.DB", zap.Error(err))
	}
	go database.NewPoolMonitor(sqlDB, collector, 15*time.Second).Run(ctx)

	var notifications *worker.WorkerPool
	if cfg.Moderation.NotifyAuthors {
		sender, err := push.NewAliyunPushService(cfg.Push)
		if err != nil {
			log.Fatal("init push service", zap.Error(err))
		}
		notifications = worker.NewWorkerPool(sender, cfg.Moderation.NotifyWorkers, cfg.Moderation.NotifyQueue, collector)
		notifications.Start()
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Trace-ID"},
			ExposeHeaders:    []string{"X-Trace-ID"},
			MaxAge:           12 * time.Hour,
		}),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		gin.Recovery(),
		middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)),
		middleware.MetricsMiddleware(collector),
	)

	moduleCtx := &registry.ModuleContext{
		DB:            db,
		Redis:         rdb,
		Router:        r,
		Config:        cfg,
		Cache:         cache.NewRedisCache(rdb, "content-moderation:"),
		Metrics:       collector,
		Notifications: notifications,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		log.Fatal("init modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown server", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
		}
	}

	// 请求处理完毕后再停止推送队列
	if notifications != nil {
		notifications.Stop()
	}
	log.Info("server exited")
}
