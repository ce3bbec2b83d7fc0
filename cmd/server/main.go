package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"embroidery_shop/internal/domain/order/repository"
	userRepository "embroidery_shop/internal/domain/user/repository"
	"embroidery_shop/internal/notify"
	"embroidery_shop/internal/notify/mailer"
	"embroidery_shop/internal/pkg/config"
	"embroidery_shop/internal/pkg/middleware"
	"embroidery_shop/internal/pkg/registry"
	"embroidery_shop/internal/pkg/worker"
	"embroidery_shop/pkg/database"
	"embroidery_shop/pkg/logger"

	// 模块通过 init() 自注册
	_ "embroidery_shop/internal/domain/cart"
	_ "embroidery_shop/internal/domain/design"
	_ "embroidery_shop/internal/domain/order"
	_ "embroidery_shop/internal/domain/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger.InitLogger()
	defer logger.Sync()

	db := database.InitDatabase()
	rdb := database.InitRedis()

	// 通知池：下单/送达邮件在业务事务之外异步发送
	notifyCfg := config.GlobalConfig.Notify
	notifyService := notify.NewService(
		repository.NewOrderRepository(db),
		userRepository.NewUserRepository(db),
		mailer.NewSMTPMailer(config.GlobalConfig.SMTP),
		notifyCfg.OperatorEmail,
	)
	pool := worker.NewPool(notifyService, notifyCfg.Workers, notifyCfg.QueueSize,
		time.Duration(notifyCfg.TimeoutSeconds)*time.Second)
	pool.Start()

	gin.SetMode(config.GlobalConfig.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(middleware.MetricsMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	moduleCtx := &registry.ModuleContext{
		DB:         db,
		Redis:      rdb,
		Router:     r,
		NotifyPool: pool,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("failed to init modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + config.GlobalConfig.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}

	// 已入队的通知在退出前尽量发完
	pool.Stop()
}
