package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/store"
)

func TestTransactionLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()
	when := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	added, err := s.AddTransaction(ctx, core.Transaction{
		OwnerID: "u1", Kind: core.Expense, Amount: core.Money{Cents: 1500},
		Category: "Food", OccurredAt: when,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == 0 {
		t.Fatalf("expected assigned ID")
	}
	if _, err := s.AddTransaction(ctx, core.Transaction{
		OwnerID: "u2", Kind: core.Income, Amount: core.Money{Cents: 100}, Category: "Salary", OccurredAt: when,
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	list, err := s.ListTransactions(ctx, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 transaction for u1, got %d (err=%v)", len(list), err)
	}

	// owners cannot delete each other's rows
	if err := s.DeleteTransaction(ctx, "u2", added.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner delete: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTransaction(ctx, "u1", added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = s.ListTransactions(ctx, "u1")
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete")
	}
}

func TestListTransactionsOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	when := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	for _, c := range []string{"Food", "Bills", "Health"} {
		if _, err := s.AddTransaction(ctx, core.Transaction{
			OwnerID: "u1", Kind: core.Expense, Amount: core.Money{Cents: 100},
			Category: c, OccurredAt: when,
		}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	// equal timestamps fall back to newest ID first
	list, err := s.ListTransactions(ctx, "u1")
	if err != nil || len(list) != 3 {
		t.Fatalf("expected 3 transactions, got %d (err=%v)", len(list), err)
	}
	if list[0].Category != "Health" || list[1].Category != "Bills" || list[2].Category != "Food" {
		t.Fatalf("unexpected order: %s %s %s", list[0].Category, list[1].Category, list[2].Category)
	}
}

func TestAddTransactionValidates(t *testing.T) {
	s := New()
	_, err := s.AddTransaction(context.Background(), core.Transaction{OwnerID: "u1"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestCategoriesDefaultAndUnique(t *testing.T) {
	s := New()
	ctx := context.Background()

	cats, err := s.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != len(core.DefaultCategories) || cats[0] != "Food" {
		t.Fatalf("expected default set, got %v", cats)
	}
	if cats[len(cats)-2] != "Salary" || cats[len(cats)-1] != "Investment" {
		t.Fatalf("expected income defaults at the end, got %v", cats)
	}

	if err := s.AddCategory(ctx, core.Category{OwnerID: "u1", Name: "Travel"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	// exact duplicate is a no-op
	if err := s.AddCategory(ctx, core.Category{OwnerID: "u1", Name: "Travel"}); err != nil {
		t.Fatalf("dup add: %v", err)
	}
	cats, _ = s.ListCategories(ctx, "u1")
	if len(cats) != len(core.DefaultCategories)+1 {
		t.Fatalf("expected defaults + Travel, got %v", cats)
	}
	// names are unique per owner byte for byte, so a recased name is new
	if err := s.AddCategory(ctx, core.Category{OwnerID: "u1", Name: "travel"}); err != nil {
		t.Fatalf("recased add: %v", err)
	}
	cats, _ = s.ListCategories(ctx, "u1")
	if len(cats) != len(core.DefaultCategories)+2 {
		t.Fatalf("expected both Travel and travel, got %v", cats)
	}
	// other owners keep the plain defaults
	other, _ := s.ListCategories(ctx, "u2")
	if len(other) != len(core.DefaultCategories) {
		t.Fatalf("owner isolation broken: %v", other)
	}
}

func TestInquiries(t *testing.T) {
	s := New()
	ctx := context.Background()
	q, err := s.AddInquiry(ctx, core.Inquiry{
		FirstName: "Ana", LastName: "Rai", Email: "ana@example.com",
		Plan: "pro", CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	list, _ := s.ListInquiries(ctx)
	if len(list) != 1 {
		t.Fatalf("expected 1 inquiry")
	}
	if err := s.DeleteInquiry(ctx, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteInquiry(ctx, q.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdminReads(t *testing.T) {
	s := New()
	ctx := context.Background()
	when := time.Now()
	for _, owner := range []string{"u1", "u1", "u2", "u3"} {
		if _, err := s.AddTransaction(ctx, core.Transaction{
			OwnerID: owner, Kind: core.Expense, Amount: core.Money{Cents: 100},
			Category: "Food", OccurredAt: when,
		}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	n, err := s.CountOwners(ctx)
	if err != nil || n != 3 {
		t.Fatalf("expected 3 owners, got %d (err=%v)", n, err)
	}
	all, err := s.ListAllTransactions(ctx)
	if err != nil || len(all) != 4 {
		t.Fatalf("expected 4 transactions, got %d (err=%v)", len(all), err)
	}
}
