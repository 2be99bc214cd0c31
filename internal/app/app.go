package app

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-leavedesk/internal/employee"
	"go-leavedesk/internal/notification"
	"go-leavedesk/internal/shared/connection"
)

// App holds the pieces of the API deployment that outlive request handling:
// the in-process notification pipeline and the database handle.
type App struct {
	dispatcher *notification.Dispatcher
}

// BuildApp wires infrastructure, the notification pipeline and all module
// routes onto the router. The returned App must be started before serving and
// stopped on shutdown.
func BuildApp(router *gin.Engine) (*App, error) {
	logger := zap.L().Named("app")

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
		return nil, err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return nil, err
	}
	logger.Info("redis connection established")

	employeeRepo := employee.NewRepository(gormDB)

	queue := notification.NewQueue(notification.DefaultQueueCapacity)
	dispatcher := notification.NewDispatcher(queue, buildChannels(employeeRepo))

	if err := registerModules(router, sqlDB, gormDB, rdb, queue); err != nil {
		return nil, err
	}

	return &App{dispatcher: dispatcher}, nil
}

// Start launches the notification dispatcher loop.
func (a *App) Start(ctx context.Context) {
	a.dispatcher.Start(ctx)
}

// Stop drains the in-flight notification and abandons the rest of the queue.
func (a *App) Stop() {
	a.dispatcher.Stop()
}

func buildChannels(employeeRepo employee.Repository) []notification.Channel {
	email := notification.NewEmailChannel(notification.EmailConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       os.Getenv("SMTP_PORT"),
		User:       os.Getenv("SMTP_USER"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		From:       os.Getenv("SMTP_FROM"),
		TLSEnabled: os.Getenv("SMTP_TLS") == "true",
	})

	push := notification.NewPushChannel(notification.PushConfig{
		Endpoint: os.Getenv("PUSH_GATEWAY_URL"),
		APIKey:   os.Getenv("PUSH_GATEWAY_API_KEY"),
	}, deviceTokenSource{repo: employeeRepo})

	return []notification.Channel{email, push}
}

// deviceTokenSource adapts the employee repository to the push channel's
// token lookup.
type deviceTokenSource struct {
	repo employee.Repository
}

func (s deviceTokenSource) ListTokens(ctx context.Context, recipientID string) ([]string, error) {
	tokens, err := s.repo.ListDeviceTokens(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Token)
	}
	return out, nil
}
