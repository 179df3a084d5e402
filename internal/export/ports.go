// Package export mirrors recorded transactions to external sinks.
package export

import (
	"context"

	"kharcha/internal/core"
)

// Appender writes a single transaction to an external sink and returns
// a sink-specific reference for the written row.
type Appender interface {
	Append(ctx context.Context, tx core.Transaction) (string, error)
}
