package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	aws_pkg "github.com/voicecart/cart-service/aws"
	apperrors "github.com/voicecart/cart-service/common/errors"
	"github.com/voicecart/cart-service/common/logger"
	"github.com/voicecart/cart-service/config"
	"github.com/voicecart/cart-service/database"
	"github.com/voicecart/cart-service/kafka"
	"github.com/voicecart/cart-service/repository"
	"github.com/voicecart/cart-service/routes"
	"github.com/voicecart/cart-service/services"
)

func main() {
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	mongoClient, db, err := database.ConnectMongo(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		zapLogger.Fatal("mongo connection failed", zap.Error(err))
	}
	defer func() {
		if err := database.DisconnectMongo(mongoClient); err != nil {
			zapLogger.Error("mongo disconnect failed", zap.Error(err))
		}
	}()

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.CheckoutTopic)
	defer producer.Close()

	var snsClient aws_pkg.SNSPublisher
	if cfg.SNSTopicARN != "" {
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			zapLogger.Fatal("failed to load AWS config", zap.Error(err))
		}
		snsClient = aws_pkg.NewSNSClient(awsCfg)
	}

	cartRepo := repository.NewMongoCartRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	idempotency := repository.NewRedisIdempotencyStore(redisClient)

	cartService := services.NewCartService(cartRepo, zapLogger)
	orderService := services.NewOrderService(
		orderRepo,
		cartService,
		idempotency,
		cfg.IdempotencyTTL,
		producer,
		snsClient,
		cfg.SNSTopicARN,
		zapLogger,
	)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logger.RequestLogger(zapLogger), gin.Recovery(), apperrors.ErrorMiddleware())

	routes.RegisterRoutes(router, cartService, orderService, cfg, zapLogger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zapLogger.Info("cart service running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLogger.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("shutdown error", zap.Error(err))
	}
	zapLogger.Info("server shutdown complete")
}
