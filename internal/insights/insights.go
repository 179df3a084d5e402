// Package insights shapes aggregated summaries into the view-model the
// analytics page renders. Reports are recomputed from the owner's full
// transaction set on every request.
package insights

import "kharcha/internal/core"

type (
	Figure struct {
		Label    string     `json:"label"`
		Amount   core.Money `json:"-"`
		Display  string     `json:"display"`
		Positive bool       `json:"positive"`
	}

	Row struct {
		Category string  `json:"category"`
		Amount   int64   `json:"amountCents"`
		Display  string  `json:"display"`
		Percent  float64 `json:"percent"`
	}

	// Series feeds one chart: parallel labels and values.
	Series struct {
		Labels []string  `json:"labels"`
		Values []float64 `json:"values"`
	}

	Report struct {
		Window    core.Window `json:"window"`
		Figures   []Figure    `json:"figures"`
		Breakdown []Row       `json:"breakdown"`
		Doughnut  Series      `json:"doughnut"`
		Flow      Series      `json:"flow"`
	}
)

// Build produces the report for one summarized window: three headline
// figures, the ranked category breakdown, a doughnut of expense shares and
// the income-vs-expense bar pair.
func Build(s core.Summary) Report {
	r := Report{
		Window: s.Window,
		Figures: []Figure{
			{Label: "Total Income", Amount: s.TotalIncome, Display: s.TotalIncome.String(), Positive: true},
			{Label: "Total Expenses", Amount: s.TotalExpense, Display: s.TotalExpense.String(), Positive: false},
			{Label: "Net Balance", Amount: s.Net, Display: s.Net.String(), Positive: s.Net.Cents >= 0},
		},
		Flow: Series{
			Labels: []string{"Income", "Expenses"},
			Values: []float64{s.TotalIncome.Rupees(), s.TotalExpense.Rupees()},
		},
	}
	ranked := s.RankedCategories()
	r.Breakdown = make([]Row, 0, len(ranked))
	r.Doughnut = Series{
		Labels: make([]string, 0, len(ranked)),
		Values: make([]float64, 0, len(ranked)),
	}
	for _, c := range ranked {
		r.Breakdown = append(r.Breakdown, Row{
			Category: c.Name,
			Amount:   c.Amount.Cents,
			Display:  c.Amount.String(),
			Percent:  s.CategoryShare[c.Name],
		})
		r.Doughnut.Labels = append(r.Doughnut.Labels, c.Name)
		r.Doughnut.Values = append(r.Doughnut.Values, c.Amount.Rupees())
	}
	return r
}
