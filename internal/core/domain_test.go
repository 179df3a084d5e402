package core

import (
	"testing"
	"time"
)

func TestKindValidate(t *testing.T) {
	if err := Income.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Expense.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Kind("transfer").Validate(); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestTransactionValidate(t *testing.T) {
	when := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	good := Transaction{
		OwnerID:    "u1",
		Kind:       Expense,
		Amount:     Money{Cents: 100},
		Category:   "Food",
		Note:       "lunch",
		OccurredAt: when,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{OwnerID: "", Kind: Expense, Amount: Money{Cents: 1}, Category: "Food", OccurredAt: when},
		{OwnerID: "u1", Kind: "loan", Amount: Money{Cents: 1}, Category: "Food", OccurredAt: when},
		{OwnerID: "u1", Kind: Expense, Amount: Money{Cents: 0}, Category: "Food", OccurredAt: when},
		{OwnerID: "u1", Kind: Expense, Amount: Money{Cents: 1}, Category: " ", OccurredAt: when},
		{OwnerID: "u1", Kind: Expense, Amount: Money{Cents: 1}, Category: "Food"}, // zero timestamp
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestInquiryValidate(t *testing.T) {
	good := Inquiry{FirstName: "Ana", LastName: "Rai", Email: "ana@example.com", Plan: "pro"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := Inquiry{FirstName: "Ana", LastName: "Rai", Email: "not-an-email"}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for bad email")
	}
}
