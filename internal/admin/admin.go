// Package admin computes the cross-owner aggregates behind the admin
// dashboard and manages sales inquiries.
package admin

import (
	"context"
	"fmt"
	"time"

	"kharcha/internal/cache"
	"kharcha/internal/core"
	"kharcha/internal/store"
)

const overviewCacheKey = "overview"

type (
	// Overview is the system-wide snapshot the admin page shows.
	Overview struct {
		TotalUsers        int64 `json:"totalUsers"`
		TotalTransactions int64 `json:"totalTransactions"`
		SystemIncome      int64 `json:"systemIncomeCents"`
		SystemExpense     int64 `json:"systemExpenseCents"`
		SystemNet         int64 `json:"systemNetCents"`
		TotalVolume       int64 `json:"totalVolumeCents"`
	}

	Service struct {
		admins    store.AdminStore
		inquiries store.InquiryStore
		cache     *cache.LRUCache[Overview]
		now       func() time.Time
	}
)

// NewService builds the admin service. The overview scans every
// transaction in the system, so results are cached briefly.
func NewService(admins store.AdminStore, inquiries store.InquiryStore, ttl time.Duration) *Service {
	return &Service{
		admins:    admins,
		inquiries: inquiries,
		cache:     cache.NewLRUCache[Overview](1, ttl),
		now:       time.Now,
	}
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	if ov, ok := s.cache.Get(overviewCacheKey); ok {
		return ov, nil
	}

	users, err := s.admins.CountOwners(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("count owners: %w", err)
	}
	txs, err := s.admins.ListAllTransactions(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list transactions: %w", err)
	}

	summary := core.Summarize(txs, core.WindowAll, s.now())
	ov := Overview{
		TotalUsers:        users,
		TotalTransactions: int64(len(txs)),
		SystemIncome:      summary.TotalIncome.Cents,
		SystemExpense:     summary.TotalExpense.Cents,
		SystemNet:         summary.Net.Cents,
		TotalVolume:       summary.TotalIncome.Cents + summary.TotalExpense.Cents,
	}
	s.cache.Set(overviewCacheKey, ov)
	return ov, nil
}

// InvalidateOverview drops the cached snapshot.
func (s *Service) InvalidateOverview() {
	s.cache.Delete(overviewCacheKey)
}

func (s *Service) ListInquiries(ctx context.Context) ([]core.Inquiry, error) {
	return s.inquiries.ListInquiries(ctx)
}

func (s *Service) DeleteInquiry(ctx context.Context, id int64) error {
	return s.inquiries.DeleteInquiry(ctx, id)
}
