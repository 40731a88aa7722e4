package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/neuraldesk/billing/api"
	"github.com/neuraldesk/billing/auth"
	"github.com/neuraldesk/billing/internal/config"
	"github.com/neuraldesk/billing/internal/slogging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := slogging.Initialize(slogging.Config{
		Level:            slogging.ParseLogLevel(cfg.Logging.Level),
		IsDev:            cfg.Logging.IsDev,
		LogDir:           cfg.Logging.LogDir,
		MaxAgeDays:       cfg.Logging.MaxAgeDays,
		MaxSizeMB:        cfg.Logging.MaxSizeMB,
		MaxBackups:       cfg.Logging.MaxBackups,
		AlsoLogToConsole: cfg.Logging.AlsoLogToConsole,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	logger := slogging.Get()
	defer func() { _ = logger.Close() }()

	db, err := gorm.Open(postgres.Open(cfg.Database.PostgresURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Error("failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := api.AutoMigrate(db); err != nil {
		logger.Error("failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Redis is optional: without it the limiter degrades to per-process
	// fixed windows, which is accepted for single-instance deployments.
	var limiter api.RateLimiter
	if cfg.Database.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.Database.RedisURL)
		if err != nil {
			logger.Error("invalid REDIS_URL: %v", err)
			os.Exit(1)
		}
		client := redis.NewClient(redisOpts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to redis: %v", err)
			os.Exit(1)
		}
		limiter = api.NewRedisRateLimiter(client)
		logger.Info("rate limiting backed by redis")
	} else {
		limiter = api.NewMemoryRateLimiter()
		logger.Warn("REDIS_URL not set; using per-process in-memory rate limiting")
	}

	verifier := auth.NewProvider(cfg.Auth.BaseURL, cfg.Auth.ServiceKey, cfg.Auth.JWTSecret)
	razorpay := api.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.BaseURL)

	server := api.NewServer(api.ServerOptions{
		Verifier:        verifier,
		Limiter:         limiter,
		Orders:          razorpay,
		RazorpayKeyID:   cfg.Razorpay.KeyID,
		SigningSecret:   cfg.Razorpay.KeySecret,
		Subscriptions:   api.NewGormSubscriptionStore(db),
		PaymentOrders:   api.NewGormPaymentOrderStore(db),
		RateLimitMax:    cfg.RateLimit.MaxRequests,
		RateLimitWindow: cfg.RateLimit.Window,
	})

	if !cfg.Logging.IsDev {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	server.RegisterHandlers(router)

	addr := cfg.Server.Interface + ":" + cfg.Server.Port
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("billing server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown: %v", err)
	}
}
