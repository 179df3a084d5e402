package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kharcha/internal/auth"
	"kharcha/internal/budget"
	"kharcha/internal/core"
	"kharcha/internal/insights"
)

type saveBudgetRequest struct {
	TotalBudgetCents    int64            `json:"totalBudgetCents"`
	CategoryBudgetCents map[string]int64 `json:"categoryBudgetCents"`
	AlertAt80           bool             `json:"alertAt80"`
	AlertAt100          bool             `json:"alertAt100"`
}

type settingsResponse struct {
	TotalBudgetCents    int64            `json:"totalBudgetCents"`
	CategoryBudgetCents map[string]int64 `json:"categoryBudgetCents"`
	AlertAt80           bool             `json:"alertAt80"`
	AlertAt100          bool             `json:"alertAt100"`
}

type categoryStatusResponse struct {
	Name        string  `json:"name"`
	BudgetCents int64   `json:"budgetCents"`
	SpentCents  int64   `json:"spentCents"`
	Percentage  float64 `json:"percentage"`
	Tier        string  `json:"tier"`
}

func toSettingsResponse(s budget.Settings) settingsResponse {
	resp := settingsResponse{
		TotalBudgetCents:    s.TotalBudget.Cents,
		CategoryBudgetCents: make(map[string]int64, len(s.CategoryBudgets)),
		AlertAt80:           s.Alerts.At80,
		AlertAt100:          s.Alerts.At100,
	}
	for name, m := range s.CategoryBudgets {
		resp.CategoryBudgetCents[name] = m.Cents
	}
	return resp
}

// handleGetBudget returns the owner's settings together with the current
// evaluation and per-category classification.
func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	settings, configured, err := s.budget.Settings(r.Context(), id.OwnerID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Load budget settings failed", "error", err, "owner", id.OwnerID)
		writeError(w, r, http.StatusInternalServerError, "could not load budget settings")
		return
	}

	txs, err := s.transactions.List(r.Context(), id.OwnerID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err, "owner", id.OwnerID)
		writeError(w, r, http.StatusInternalServerError, "could not load transactions")
		return
	}
	summary := core.Summarize(txs, core.WindowAll, time.Now())

	ev, err := s.budget.Evaluate(r.Context(), id.OwnerID, summary.TotalExpense)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget evaluation failed", "error", err, "owner", id.OwnerID)
		writeError(w, r, http.StatusInternalServerError, "could not evaluate budget")
		return
	}

	statuses, err := s.budget.CategoryStatuses(r.Context(), id.OwnerID, summary.CategoryTotals)
	if err != nil {
		slog.ErrorContext(r.Context(), "Category classification failed", "error", err, "owner", id.OwnerID)
		writeError(w, r, http.StatusInternalServerError, "could not classify categories")
		return
	}
	catResp := make([]categoryStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		catResp = append(catResp, categoryStatusResponse{
			Name:        st.Name,
			BudgetCents: st.Budget.Cents,
			SpentCents:  st.Spent.Cents,
			Percentage:  st.Percentage,
			Tier:        string(st.Tier),
		})
	}

	writeJSON(w, r, http.StatusOK, struct {
		Configured bool                     `json:"configured"`
		Settings   settingsResponse         `json:"settings"`
		Evaluation evaluationResponse       `json:"evaluation"`
		Categories []categoryStatusResponse `json:"categories"`
	}{configured, toSettingsResponse(settings), toEvaluationResponse(ev), catResp})
}

// handleSaveBudget stores new settings atomically and re-arms both
// one-shot alerts.
func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	var req saveBudgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	in := budget.SettingsInput{
		TotalBudget:     req.TotalBudgetCents,
		CategoryBudgets: req.CategoryBudgetCents,
		Alerts:          budget.AlertFlags{At80: req.AlertAt80, At100: req.AlertAt100},
	}
	saved, err := s.budget.SaveSettings(r.Context(), id.OwnerID, in)
	if err != nil {
		if errors.Is(err, budget.ErrInvalidBudget) {
			writeError(w, r, http.StatusUnprocessableEntity, "total budget must be positive")
			return
		}
		slog.ErrorContext(r.Context(), "Save budget settings failed", "error", err, "owner", id.OwnerID)
		writeError(w, r, http.StatusInternalServerError, "could not save budget settings")
		return
	}

	writeJSON(w, r, http.StatusOK, toSettingsResponse(saved))
}

// handleInsights recomputes the report for the requested window on every
// call.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	window, err := core.ParseWindow(r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid range parameter")
		return
	}

	txs, err := s.transactions.List(r.Context(), id.OwnerID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err, "owner", id.OwnerID)
		writeError(w, r, http.StatusInternalServerError, "could not load transactions")
		return
	}

	report := insights.Build(core.Summarize(txs, window, time.Now()))
	writeJSON(w, r, http.StatusOK, report)
}
