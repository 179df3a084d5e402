package core

import (
	"math"
	"sort"
	"time"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary is the aggregate view of a set of transactions over one window.
// Net is always TotalIncome minus TotalExpense; CategoryTotals and
// CategoryShare cover expenses only.
type Summary struct {
	Window         Window
	TotalIncome    Money
	TotalExpense   Money
	Net            Money
	CategoryTotals map[string]Money
	CategoryShare  map[string]float64 // percent of total expense, one decimal
}

// Summarize aggregates transactions over the given window ending at now.
// It is a pure function: transactions outside the window or with a kind
// other than income/expense are ignored, and empty input yields a zero
// summary with initialized maps.
func Summarize(txs []Transaction, w Window, now time.Time) Summary {
	s := Summary{
		Window:         w,
		CategoryTotals: make(map[string]Money),
		CategoryShare:  make(map[string]float64),
	}
	for _, t := range txs {
		if !w.Contains(t.OccurredAt, now) {
			continue
		}
		switch t.Kind {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			s.CategoryTotals[t.Category] = s.CategoryTotals[t.Category].Add(t.Amount)
		}
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpense)
	if s.TotalExpense.Cents > 0 {
		for name, amount := range s.CategoryTotals {
			pct := float64(amount.Cents) / float64(s.TotalExpense.Cents) * 100
			s.CategoryShare[name] = math.Round(pct*10) / 10
		}
	}
	return s
}

// RankedCategories returns the expense categories sorted by descending
// amount, ties broken by name for stable output.
func (s Summary) RankedCategories() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(s.CategoryTotals))
	for name, amount := range s.CategoryTotals {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
