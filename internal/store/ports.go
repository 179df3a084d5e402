package store

import (
	"context"
	"errors"

	"kharcha/internal/core"
)

var ErrNotFound = errors.New("not found")

// Ports for persistence adapters. Every operation is owner-scoped except
// the admin and inquiry ones.
type (
	TransactionStore interface {
		AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		ListTransactions(ctx context.Context, ownerID string) ([]core.Transaction, error)
		DeleteTransaction(ctx context.Context, ownerID string, id int64) error
	}

	// CategoryStore lists an owner's categories, falling back to the
	// default set when the owner has never added one.
	CategoryStore interface {
		ListCategories(ctx context.Context, ownerID string) ([]string, error)
		AddCategory(ctx context.Context, c core.Category) error
	}

	InquiryStore interface {
		AddInquiry(ctx context.Context, q core.Inquiry) (core.Inquiry, error)
		ListInquiries(ctx context.Context) ([]core.Inquiry, error)
		DeleteInquiry(ctx context.Context, id int64) error
	}

	// AdminStore exposes the cross-owner reads the admin overview needs.
	AdminStore interface {
		CountOwners(ctx context.Context) (int64, error)
		ListAllTransactions(ctx context.Context) ([]core.Transaction, error)
	}
)
