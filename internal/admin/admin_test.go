package admin

import (
	"context"
	"testing"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/store/memory"
)

func seed(t *testing.T, st *memory.Store) {
	t.Helper()
	ctx := context.Background()
	when := time.Now()
	rows := []core.Transaction{
		{OwnerID: "u1", Kind: core.Income, Amount: core.Money{Cents: 100000}, Category: "Salary", OccurredAt: when},
		{OwnerID: "u1", Kind: core.Expense, Amount: core.Money{Cents: 25000}, Category: "Food", OccurredAt: when},
		{OwnerID: "u2", Kind: core.Expense, Amount: core.Money{Cents: 5000}, Category: "Bills", OccurredAt: when},
	}
	for _, r := range rows {
		if _, err := st.AddTransaction(ctx, r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestOverview(t *testing.T) {
	st := memory.New()
	seed(t, st)
	svc := NewService(st, st, time.Minute)

	ov, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if ov.TotalUsers != 2 || ov.TotalTransactions != 3 {
		t.Fatalf("counts wrong: %+v", ov)
	}
	if ov.SystemIncome != 100000 || ov.SystemExpense != 30000 || ov.SystemNet != 70000 {
		t.Fatalf("totals wrong: %+v", ov)
	}
	if ov.TotalVolume != 130000 {
		t.Fatalf("volume wrong: %+v", ov)
	}
}

func TestOverviewCaching(t *testing.T) {
	st := memory.New()
	seed(t, st)
	svc := NewService(st, st, time.Minute)
	ctx := context.Background()

	first, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}

	// new data is invisible until the cache is invalidated
	if _, err := st.AddTransaction(ctx, core.Transaction{
		OwnerID: "u3", Kind: core.Expense, Amount: core.Money{Cents: 100},
		Category: "Food", OccurredAt: time.Now(),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	cached, _ := svc.Overview(ctx)
	if cached != first {
		t.Fatalf("expected cached snapshot, got %+v", cached)
	}

	svc.InvalidateOverview()
	fresh, _ := svc.Overview(ctx)
	if fresh.TotalUsers != 3 || fresh.TotalTransactions != 4 {
		t.Fatalf("expected fresh snapshot after invalidation, got %+v", fresh)
	}
}
