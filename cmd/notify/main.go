package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"retreatbooking/internal/config"
	"retreatbooking/internal/database"
	"retreatbooking/internal/logger"
	"retreatbooking/internal/modules/notification"
	"retreatbooking/internal/modules/teacher"
)

// Resends assignment emails to every teacher that has not been notified yet.
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

	var mailer notification.Mailer = notification.NewConsoleMailer(zl)
	if cfg.ResendAPIKey != "" {
		mailer = notification.NewResendMailer(cfg.ResendAPIKey, cfg.ResendFromEmail)
	}
	dispatcher := notification.NewDispatcher(db, mailer, cfg.CheckoutCurrency, zl)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := teacher.NewService(db, dispatcher, zl).ResendPendingNotifications(ctx)
	if err != nil {
		zl.Fatal("resend failed", zap.Error(err))
	}
	zl.Info("teacher notifications resent", zap.Int("sent", res.Sent), zap.Int("failed", res.Failed))
}
