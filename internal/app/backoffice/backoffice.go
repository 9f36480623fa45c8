// Package backoffice собирает приложение: хранилище, кеш, брокер,
// сервисы и HTTP-сервер с graceful shutdown.
package backoffice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/rizzosai/domain-backoffice/internal/cache"
	"github.com/rizzosai/domain-backoffice/internal/config"
	"github.com/rizzosai/domain-backoffice/internal/lib/jwt"
	"github.com/rizzosai/domain-backoffice/internal/lib/rabbitmq"
	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/llm"
	"github.com/rizzosai/domain-backoffice/internal/migrations"
	chatservice "github.com/rizzosai/domain-backoffice/internal/services/chat"
	customerservice "github.com/rizzosai/domain-backoffice/internal/services/customer"
	memoryservice "github.com/rizzosai/domain-backoffice/internal/services/memory"
	"github.com/rizzosai/domain-backoffice/internal/services/moderation"
	"github.com/rizzosai/domain-backoffice/internal/storage/jsonfile"
	"github.com/rizzosai/domain-backoffice/internal/storage/postgres"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

// store объединяет контракты трех хранилищ: реестр клиентов, баны и
// память диалогов. Его реализуют и jsonfile.Store, и postgres.Storage.
type store interface {
	customerservice.Repository
	moderation.BanRepository
	memoryservice.Repository
}

// App инкапсулирует HTTP-сервер и внешние подключения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *postgres.Storage
	amqpConn *amqp.Connection
}

// New собирает приложение по конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "backoffice.New"

	app := &App{logger: logger}

	var st store
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := postgres.New(cfg.Storage.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := migrations.Run(db.DB, cfg.Storage.MigrationsPath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.db = db
		st = db
	case "jsonfile", "":
		st = jsonfile.New(cfg.Storage.CustomersFile, cfg.Storage.BansFile, cfg.Storage.ChatMemoryFile)
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}

	var customerCache customerservice.Cache
	if cfg.RedisConnection.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		customerCache = redisCache
	}

	var events customerservice.Events
	if cfg.RabbitMQ.URL != "" {
		conn, ch, err := rabbitmq.Connect(cfg.RabbitMQ.URL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := rabbitmq.SetupQueues(ch, cfg.RabbitMQ.Exchange); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.amqpConn = conn
		events = rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange)
	}

	renderer, err := web.New()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	maker := jwt.NewMaker(cfg.Session.SecretKey, cfg.Session.TokenTTL)
	llmClient := llm.NewClient(cfg.Assistant.APIKey, cfg.Assistant.APIURL, cfg.Assistant.Model,
		cfg.Assistant.MaxTokens, cfg.Assistant.Temperature, cfg.Assistant.Timeout)
	if !llmClient.Configured() {
		logger.Warn("assistant api key is not configured, chat will use fallback replies")
	}

	banManager := moderation.NewBanManager(st, cfg.Admin.Username, logger)
	memorySvc := memoryservice.New(st, logger)
	customerSvc := customerservice.New(st, customerCache, events, cfg.Admin.Username, cfg.Admin.Password, logger)
	responder := chatservice.New(llmClient, memorySvc, banManager, cfg.Admin.Username, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, renderer, maker, customerSvc, banManager, responder)

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.db != nil {
			if cerr := a.db.DB.Close(); cerr != nil {
				a.logger.Error("failed to close database", sl.Err(cerr))
			}
		}
		if a.amqpConn != nil {
			if cerr := a.amqpConn.Close(); cerr != nil {
				a.logger.Error("failed to close amqp connection", sl.Err(cerr))
			}
		}
		return err
	}
}
