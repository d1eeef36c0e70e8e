package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order_fulfillment/internal/config"
	"order_fulfillment/internal/logging"
	"order_fulfillment/internal/model"
	"order_fulfillment/internal/notification"
	"order_fulfillment/internal/repository"
	"order_fulfillment/internal/router"
	"order_fulfillment/internal/service"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = logger.Sync() }()

	// 连接 SQLite，自动建表
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		logger.Fatal("db_open_failed", zap.Error(err))
	}
	if err := db.AutoMigrate(&model.Product{}, &model.Order{}); err != nil {
		logger.Fatal("db_migrate_failed", zap.Error(err))
	}

	rdb := rd.NewClient(&rd.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	defer func() { _ = rdb.Close() }()

	// 未配置 Kafka 时通知降级为结构化日志。
	var notifier notification.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier := notification.NewKafkaNotifier(cfg.KafkaBrokers, cfg.NotificationTopic, logger)
		defer func() { _ = kafkaNotifier.Close() }()
		notifier = kafkaNotifier
	} else {
		notifier = notification.NewLogNotifier(logger)
	}

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	productService := service.NewProductService(productRepo, notifier)
	orderService := service.NewOrderService(orderRepo, productService)

	r := gin.Default()
	router.Setup(r, orderService, productService, rdb, cfg, logger)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http_server_start", zap.String("addr", cfg.HTTPAddr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
}
