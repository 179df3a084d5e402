package backend

import (
	"context"
	"fmt"
	"log/slog"

	"kharcha/internal/amqp"
	"kharcha/internal/storage"
	"kharcha/internal/store/memory"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	amqpClient := f.dialAMQP(config)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	cleanup := func() error {
		if amqpClient != nil {
			amqpClient.Close()
		}
		return repo.Close()
	}
	return &BackendResult{Backend: repo, AMQP: amqpClient, Cleanup: cleanup}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	amqpClient := f.dialAMQP(config)

	f.logger.Info("Initialized memory backend", "amqp_enabled", amqpClient != nil)

	var cleanup CleanupFunc
	if amqpClient != nil {
		cleanup = amqpClient.Close
	}
	return &BackendResult{Backend: memory.New(), AMQP: amqpClient, Cleanup: cleanup}, nil
}

// dialAMQP connects the message broker when configured. A broker outage at
// startup degrades to local-only mode instead of failing.
func (f *DefaultFactory) dialAMQP(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPExportQueue, config.AMQPAlertQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without messaging", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"export_queue", config.AMQPExportQueue,
		"alert_queue", config.AMQPAlertQueue)
	return client
}
