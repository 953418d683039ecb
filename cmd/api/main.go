package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"retreatbooking/internal/config"
	"retreatbooking/internal/database"
	"retreatbooking/internal/logger"
	"retreatbooking/internal/middleware"
	"retreatbooking/internal/modules/booking"
	"retreatbooking/internal/modules/notification"
	"retreatbooking/internal/modules/payment"
	jwtsvc "retreatbooking/internal/pkg/jwt"
	"retreatbooking/internal/queue"
	"retreatbooking/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	var mailer notification.Mailer
	if cfg.ResendAPIKey != "" {
		mailer = notification.NewResendMailer(cfg.ResendAPIKey, cfg.ResendFromEmail)
	} else {
		zl.Warn("RESEND_API_KEY not set, emails are logged only")
		mailer = notification.NewConsoleMailer(zl)
	}

	deps := server.Deps{
		Config:  cfg,
		DB:      db,
		Logger:  zl,
		JWT:     jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Mailer:  mailer,
		Gateway: payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret),
	}

	if cfg.RateLimitPerMinute > 0 {
		local := middleware.NewLocalLimiter(cfg.RateLimitPerMinute)
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			defer func() { _ = rdb.Close() }()
			deps.Limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimitPerMinute)
			deps.Fallback = local
		} else {
			deps.Limiter = local
		}
	}

	if cfg.RabbitMQURL != "" {
		pub := queue.NewPublisher(cfg.RabbitMQURL, zl)
		defer func() { _ = pub.Close() }()
		deps.Observers = []booking.Observer{pub}
	}

	srv := server.New(deps)
	defer srv.Hub.Close()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zl.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
