package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-leavedesk/internal/employee"
	"go-leavedesk/internal/events"
	"go-leavedesk/internal/messaging/kafka/consumer"
	"go-leavedesk/internal/notification"
	"go-leavedesk/internal/shared/connection"
)

// RunNotifier is the standalone notification deployment: it consumes leave
// lifecycle events off the broker and drives the delivery pipeline. Used when
// the API runs with in-process enqueueing disabled.
func RunNotifier() error {
	logger := zap.L().Named("app.notifier")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	employeeRepo := employee.NewRepository(gormDB)

	queue := notification.NewQueue(notification.DefaultQueueCapacity)
	dispatcher := notification.NewDispatcher(queue, buildChannels(employeeRepo))

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.LeaveLifecycleTopic,
		GroupID:        "go-leavedesk-notifier",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher.Start(ctx)
	go consumer.ConsumeLeaveLifecycle(ctx, reader, employeeRepo, queue, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("notifier shutting down")
	cancel()
	dispatcher.Stop()

	return nil
}
