package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/example/plant-shop/internal/email"
	"github.com/example/plant-shop/internal/infrastructure/kafka"
	"github.com/example/plant-shop/internal/notification"
	"github.com/example/plant-shop/internal/telemetry"
)

func main() {
	// Configuration from environment variables
	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	kafkaTopic := getEnv("KAFKA_TOPIC", "shop-events")
	consumerGroup := getEnv("KAFKA_GROUP", "shop-notifier")

	smtpHost := getEnv("SMTP_HOST", "localhost")
	smtpPort := getEnv("SMTP_PORT", "1025")
	smtpFrom := getEnv("SMTP_FROM", "noreply@example.com")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPassword := os.Getenv("SMTP_PASSWORD")
	adminEmail := getEnv("SHOP_ADMIN_EMAIL", "admin@example.com")

	logger := telemetry.InitLogger(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "json"))
	logger.Info("notifier starting",
		"brokers", kafkaBrokers,
		"topic", kafkaTopic,
		"group", consumerGroup,
		"smtp", smtpHost+":"+smtpPort,
		"admin", adminEmail,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	emailSvc := email.NewService(smtpHost, smtpPort, smtpFrom, smtpUser, smtpPassword)
	handler := notification.NewHandler(emailSvc, adminEmail, logger)

	consumer := kafka.NewConsumer(kafkaBrokers, kafkaTopic, consumerGroup, logger)
	defer consumer.Close()

	if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", "error", err)
	}
	logger.Info("notifier stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
