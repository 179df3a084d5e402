package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"kharcha/internal/budget"
	"kharcha/internal/core"
	"kharcha/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "kharcha.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	when := time.Date(2025, 4, 10, 8, 30, 0, 0, time.UTC)

	added, err := repo.AddTransaction(ctx, core.Transaction{
		OwnerID: "u1", Kind: core.Expense, Amount: core.Money{Cents: 2500},
		Category: "Food", Note: "groceries", OccurredAt: when,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == 0 {
		t.Fatalf("expected assigned ID")
	}

	list, err := repo.ListTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Amount.Cents != 2500 || list[0].Kind != core.Expense {
		t.Fatalf("unexpected listing: %+v", list)
	}
	if !list[0].OccurredAt.Equal(when) {
		t.Fatalf("timestamp mismatch: %v != %v", list[0].OccurredAt, when)
	}

	if err := repo.DeleteTransaction(ctx, "other", added.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner delete: expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteTransaction(ctx, "u1", added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestCategorySeedingAndUniqueness(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cats, err := repo.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != len(core.DefaultCategories) {
		t.Fatalf("expected default set, got %v", cats)
	}

	if err := repo.AddCategory(ctx, core.Category{OwnerID: "u1", Name: "Travel"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.AddCategory(ctx, core.Category{OwnerID: "u1", Name: "Travel"}); err != nil {
		t.Fatalf("exact duplicate must be a no-op: %v", err)
	}
	cats, _ = repo.ListCategories(ctx, "u1")
	if len(cats) != len(core.DefaultCategories)+1 {
		t.Fatalf("expected defaults + Travel, got %v", cats)
	}

	// uniqueness is byte exact, a recased name is a distinct category
	if err := repo.AddCategory(ctx, core.Category{OwnerID: "u1", Name: "TRAVEL"}); err != nil {
		t.Fatalf("recased add: %v", err)
	}
	cats, _ = repo.ListCategories(ctx, "u1")
	if len(cats) != len(core.DefaultCategories)+2 {
		t.Fatalf("expected both Travel and TRAVEL, got %v", cats)
	}
}

func TestBudgetSettingsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, ok, err := repo.LoadSettings(ctx, "u1"); err != nil || ok {
		t.Fatalf("expected no settings yet (ok=%v err=%v)", ok, err)
	}

	in := budget.Settings{
		TotalBudget: core.Money{Cents: 100000},
		CategoryBudgets: map[string]core.Money{
			"Food":  {Cents: 20000},
			"Bills": {Cents: 30000},
		},
		Alerts:      budget.AlertFlags{At80: true},
		AlertsShown: budget.AlertFlags{At100: true},
	}
	if err := repo.SaveSettings(ctx, "u1", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, ok, err := repo.LoadSettings(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if out.TotalBudget.Cents != 100000 || !out.Alerts.At80 || !out.AlertsShown.At100 {
		t.Fatalf("settings mismatch: %+v", out)
	}
	if out.CategoryBudgets["Food"].Cents != 20000 || out.CategoryBudgets["Bills"].Cents != 30000 {
		t.Fatalf("category budgets mismatch: %+v", out.CategoryBudgets)
	}

	// upsert replaces the row
	in.TotalBudget = core.Money{Cents: 50000}
	in.AlertsShown = budget.AlertFlags{}
	if err := repo.SaveSettings(ctx, "u1", in); err != nil {
		t.Fatalf("resave: %v", err)
	}
	out, _, _ = repo.LoadSettings(ctx, "u1")
	if out.TotalBudget.Cents != 50000 || out.AlertsShown.At100 {
		t.Fatalf("upsert did not replace: %+v", out)
	}
}

func TestExportQueue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	when := time.Now().UTC()

	tx, err := repo.AddTransaction(ctx, core.Transaction{
		OwnerID: "u1", Kind: core.Income, Amount: core.Money{Cents: 100},
		Category: "Salary", OccurredAt: when,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	pending, err := repo.ListPendingExports(ctx, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected 1 pending export, got %d (err=%v)", len(pending), err)
	}
	if err := repo.MarkExported(ctx, tx.ID); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	pending, _ = repo.ListPendingExports(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected drained queue, got %+v", pending)
	}
}

func TestInquiriesAndAdminReads(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	q, err := repo.AddInquiry(ctx, core.Inquiry{
		FirstName: "Ana", LastName: "Rai", Email: "ana@example.com", Plan: "pro",
	})
	if err != nil {
		t.Fatalf("add inquiry: %v", err)
	}
	list, err := repo.ListInquiries(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 inquiry, got %d (err=%v)", len(list), err)
	}
	if err := repo.DeleteInquiry(ctx, q.ID); err != nil {
		t.Fatalf("delete inquiry: %v", err)
	}

	when := time.Now().UTC()
	for _, owner := range []string{"u1", "u2", "u2"} {
		if _, err := repo.AddTransaction(ctx, core.Transaction{
			OwnerID: owner, Kind: core.Expense, Amount: core.Money{Cents: 10},
			Category: "Food", OccurredAt: when,
		}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	n, err := repo.CountOwners(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 owners, got %d (err=%v)", n, err)
	}
	all, err := repo.ListAllTransactions(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 transactions, got %d (err=%v)", len(all), err)
	}
}
