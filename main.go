package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/pos-terminal/controllers"
	apperrors "github.com/yashrajoria/pos-terminal/errors"
	poskafka "github.com/yashrajoria/pos-terminal/kafka"
	"github.com/yashrajoria/pos-terminal/logger"
	"github.com/yashrajoria/pos-terminal/middleware"
	"github.com/yashrajoria/pos-terminal/models"
	"github.com/yashrajoria/pos-terminal/notifier"
	aws_pkg "github.com/yashrajoria/pos-terminal/pkg/aws"
	"github.com/yashrajoria/pos-terminal/routes"
	"github.com/yashrajoria/pos-terminal/seed"
	"github.com/yashrajoria/pos-terminal/services"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Catalog ---
	catalog, err := seed.Load(cfg.SeedFile)
	if err != nil {
		log.Fatal("Seed load failed", zap.String("file", cfg.SeedFile), zap.Error(err))
	}

	// --- Notification sinks ---
	sinks := notifier.Fanout{notifier.NewLogNotifier(log)}

	if cfg.RedisURL != "" {
		rdb, err := notifier.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Redis connection failed", zap.Error(err))
		}
		defer rdb.Close()
		sinks = append(sinks, notifier.NewRedisNotifier(rdb, cfg.NotifyChannel, log))
		log.Info("Publishing notifications to Redis", zap.String("channel", cfg.NotifyChannel))
	}

	var snsNotifier *notifier.SNSNotifier
	if cfg.SNSTopicARN != "" {
		awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			log.Fatal("Failed to load AWS config", zap.Error(err))
		}
		snsNotifier = notifier.NewSNSNotifier(aws_pkg.NewSNSClient(awsCfg), cfg.SNSTopicARN, log, models.SeverityError)
		sinks = append(sinks, snsNotifier)
	}

	// --- Order events ---
	var producer *poskafka.Producer
	opts := services.Options{
		Notifier:          sinks,
		Logger:            log,
		Location:          cfg.Location,
		KitchenDelay:      cfg.KitchenDelay,
		PaymentDelay:      cfg.PaymentDelay,
		LowStockThreshold: cfg.LowStockThreshold,
		Currency:          cfg.Currency,
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer = poskafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic, log)
		opts.Events = producer
		log.Info("Publishing order events to Kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaOrderTopic),
		)
	}

	// --- Terminal core ---
	svc, err := services.NewPOSService(catalog.Products, catalog.Categories, opts)
	if err != nil {
		log.Fatal("POS service init failed", zap.Error(err))
	}
	go svc.RunClock(ctx)

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	go limiter.Cleanup(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(limiter.Middleware())
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterPOSRoutes(r, controllers.NewPOSController(svc, log), cfg.RequestTimeout)

	// --- HTTP server ---
	// Requests derive from ctx so open state streams end when shutdown begins.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		log.Info("POS terminal started",
			zap.String("port", cfg.Port),
			zap.String("timezone", cfg.Location.String()),
			zap.Int("products", len(catalog.Products)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("Kafka producer close error", zap.Error(err))
		}
	}
	if snsNotifier != nil {
		snsNotifier.Close()
	}

	log.Info("POS terminal stopped gracefully")
}
