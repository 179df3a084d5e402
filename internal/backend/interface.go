package backend

import (
	"context"

	"kharcha/internal/amqp"
	"kharcha/internal/budget"
	"kharcha/internal/store"
)

// Backend bundles every persistence port the application needs.
type Backend interface {
	store.TransactionStore
	store.CategoryStore
	store.InquiryStore
	store.AdminStore
	budget.Store
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// BackendResult contains the backend instance, the AMQP client wired to it
// (nil when messaging is not configured), and an optional cleanup function.
type BackendResult struct {
	Backend Backend
	AMQP    *amqp.Client
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// AMQP is optional; the export and alert queues share one exchange.
	AMQPURL         string
	AMQPExchange    string
	AMQPExportQueue string
	AMQPAlertQueue  string
}

// BackendType represents the type of backend.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
