package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bizdesk/backend/internal/api"
	"github.com/bizdesk/backend/internal/clients/drive"
	"github.com/bizdesk/backend/internal/collection"
	"github.com/bizdesk/backend/internal/service"
	"github.com/bizdesk/backend/internal/tablestore"
	"github.com/bizdesk/backend/pkg/broker"
	"github.com/bizdesk/backend/pkg/config"
	"github.com/bizdesk/backend/pkg/job"
	"github.com/bizdesk/backend/pkg/logger"
	"github.com/bizdesk/backend/pkg/postgres"
	"github.com/bizdesk/backend/pkg/security"
)

const (
	ReadTimeout  = 30 * time.Second
	WriteTimeout = 60 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	_, err = logger.New(cfg.Logger.Level)
	panicOnErr("create logger", err)

	pool, err := postgres.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConn)
	panicOnErr("connect to postgres", err)
	defer pool.Close()

	err = postgres.UpMigrations(cfg.Postgres.DSN)
	panicOnErr("up migrations", err)

	tables := tablestore.NewPostgres(pool)

	var notifier collection.Notifier = collection.NopNotifier{}

	var alerts service.AlertSink = noAlerts{}

	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.RecordChangedTopic, cfg.Kafka.LowStockTopic)
		defer producer.Close()

		notifier = collection.NewKafkaNotifier(producer)
		alerts = producer
	}

	collections := collection.NewSet(tables, notifier)

	driveClient := drive.NewClient(drive.Config{
		ClientID:      cfg.GoogleDrive.ClientID,
		ClientSecret:  cfg.GoogleDrive.ClientSecret,
		RedirectURL:   cfg.GoogleDrive.RedirectURL,
		Timeout:       cfg.GoogleDrive.Timeout,
		RetryAttempts: cfg.GoogleDrive.RetryAttempts,
	})

	stateSigner := security.NewStateSigner(cfg.GoogleDrive.StateSecret)

	s := service.New(tables, collections, driveClient, stateSigner, alerts)

	runner := job.NewRunner().
		Register(cfg.Jobs.LowStockEnabled, "low stock scan", cfg.Jobs.LowStockInterval, s.LowStockAlertJob)
	runner.Start(ctx)

	handler := api.NewHandler(s)
	mw := api.NewMiddleware(cfg.Auth.JWTSecret, cfg.HTTP.APIKeyEnabled, cfg.HTTP.APIKey)

	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}
	}()

	slog.InfoContext(ctx, "service started", "port", cfg.HTTP.Port)

	wg.Add(1)

	go func() {
		defer wg.Done()

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		sig := <-ch

		slog.InfoContext(ctx, "got OS signal", "signal", sig.String())

		err = server.Shutdown(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "server shutdown", "error", err)
		}

		cancel()
		runner.Stop()
	}()

	wg.Wait()
}

// noAlerts swallows alert events when the broker is disabled.
type noAlerts struct{}

func (noAlerts) LowStock(context.Context, broker.LowStockEvent) {}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
