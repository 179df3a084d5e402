package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"kharcha/internal/amqp"
	"kharcha/internal/config"
	"kharcha/internal/export"
	"kharcha/internal/export/google"
	applog "kharcha/internal/log"
	"kharcha/internal/notify"
	"kharcha/internal/storage"
	"kharcha/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(os.Getenv("LOG_LEVEL")),
		Component: "worker",
	})
	applog.SetDefault(logger)

	logger.Info("Starting kharcha-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Google Sheets mirror is optional; without it exports stay pending.
	var sheet export.Appender
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.New(ctx, google.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sheet = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	var notifier notify.Notifier
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Error("Failed to initialize Telegram notifier", "error", err)
			os.Exit(1)
		}
		notifier = tg
		logger.Info("Telegram notifier initialized")
	} else {
		notifier = notify.LogNotifier{}
		logger.Info("Telegram disabled - alerts go to the log")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPExportQueue, cfg.AMQPAlertQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.New(repo, sheet, notifier, cfg.ExportBatchSize)

	// Recover anything missed while the worker was down.
	if err := w.StartupCheck(ctx); err != nil {
		logger.Error("Startup export check failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeExports(gctx, func(msg *amqp.ExportMessage) error {
			return w.HandleExportMessage(gctx, msg)
		})
	})
	g.Go(func() error {
		return amqpClient.ConsumeAlerts(gctx, func(msg *amqp.AlertMessage) error {
			return w.HandleAlertMessage(gctx, msg)
		})
	})
	g.Go(func() error {
		return w.RunSweep(gctx, cfg.SweepInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
