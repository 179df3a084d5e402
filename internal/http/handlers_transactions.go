package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"kharcha/internal/auth"
	"kharcha/internal/budget"
	"kharcha/internal/core"
	"kharcha/internal/store"
	"kharcha/internal/validate"
)

type createTransactionRequest struct {
	Kind       string    `json:"kind" validate:"required,kind"`
	Amount     string    `json:"amount" validate:"required"`
	Category   string    `json:"category" validate:"required,notblank,max=50"`
	Note       string    `json:"note" validate:"max=200"`
	OccurredAt time.Time `json:"occurredAt"`
}

type transactionResponse struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amountCents"`
	Display     string    `json:"display"`
	Category    string    `json:"category"`
	Note        string    `json:"note,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type summaryResponse struct {
	Window            string  `json:"window"`
	TotalIncomeCents  int64   `json:"totalIncomeCents"`
	TotalIncome       string  `json:"totalIncome"`
	TotalExpenseCents int64   `json:"totalExpenseCents"`
	TotalExpense      string  `json:"totalExpense"`
	NetCents          int64   `json:"netCents"`
	Net               string  `json:"net"`
}

type alertResponse struct {
	Threshold int    `json:"threshold"`
	Tier      string `json:"tier"`
	Message   string `json:"message"`
}

type evaluationResponse struct {
	HasBudget   bool            `json:"hasBudget"`
	BudgetCents int64           `json:"budgetCents"`
	SpentCents  int64           `json:"spentCents"`
	Percentage  float64         `json:"percentage"`
	Tier        string          `json:"tier"`
	Alerts      []alertResponse `json:"alerts"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Kind:        string(t.Kind),
		AmountCents: t.Amount.Cents,
		Display:     t.Amount.String(),
		Category:    t.Category,
		Note:        t.Note,
		OccurredAt:  t.OccurredAt,
	}
}

func toSummaryResponse(s core.Summary) summaryResponse {
	return summaryResponse{
		Window:            string(s.Window),
		TotalIncomeCents:  s.TotalIncome.Cents,
		TotalIncome:       s.TotalIncome.String(),
		TotalExpenseCents: s.TotalExpense.Cents,
		TotalExpense:      s.TotalExpense.String(),
		NetCents:          s.Net.Cents,
		Net:               s.Net.String(),
	}
}

func toEvaluationResponse(ev budget.Evaluation) evaluationResponse {
	resp := evaluationResponse{
		HasBudget:   ev.HasBudget,
		BudgetCents: ev.Budget.Cents,
		SpentCents:  ev.Spent.Cents,
		Percentage:  ev.Percentage,
		Tier:        string(ev.Tier),
		Alerts:      make([]alertResponse, 0, len(ev.Fired)),
	}
	for _, a := range ev.Fired {
		resp.Alerts = append(resp.Alerts, alertResponse{
			Threshold: a.Threshold,
			Tier:      string(a.Tier),
			Message:   a.Message,
		})
	}
	return resp
}

// handleDashboard returns the owner's transactions, the all-time summary
// and the current budget state in one payload.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
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

	items := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		items = append(items, toTransactionResponse(t))
	}

	writeJSON(w, r, http.StatusOK, struct {
		Transactions []transactionResponse `json:"transactions"`
		Summary      summaryResponse       `json:"summary"`
		Budget       evaluationResponse    `json:"budget"`
	}{items, toSummaryResponse(summary), toEvaluationResponse(ev)})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	txs, err := s.transactions.List(r.Context(), id.OwnerID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err, "owner", id.OwnerID)
		writeError(w, r, http.StatusInternalServerError, "could not load transactions")
		return
	}

	items := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		items = append(items, toTransactionResponse(t))
	}
	writeJSON(w, r, http.StatusOK, struct {
		Transactions []transactionResponse `json:"transactions"`
	}{items})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid transaction: "+err.Error())
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	tx := core.Transaction{
		OwnerID:    id.OwnerID,
		Kind:       core.Kind(req.Kind),
		Amount:     core.Money{Cents: cents},
		Category:   sanitizeInput(req.Category),
		Note:       sanitizeInput(req.Note),
		OccurredAt: occurredAt,
	}
	if err := tx.Validate(); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid transaction: "+err.Error())
		return
	}

	created, err := s.transactions.Create(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err, "owner", id.OwnerID)
		writeError(w, r, http.StatusInternalServerError, "could not save transaction")
		return
	}

	writeJSON(w, r, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	txID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || txID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.transactions.Delete(r.Context(), id.OwnerID, txID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete transaction failed", "error", err, "owner", id.OwnerID, "id", txID)
		writeError(w, r, http.StatusInternalServerError, "could not delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	names, err := s.categories.ListCategories(r.Context(), id.OwnerID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err, "owner", id.OwnerID)
		writeError(w, r, http.StatusInternalServerError, "could not load categories")
		return
	}
	writeJSON(w, r, http.StatusOK, struct {
		Categories []string `json:"categories"`
	}{names})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid category: "+err.Error())
		return
	}

	c := core.Category{OwnerID: id.OwnerID, Name: sanitizeInput(req.Name)}
	if err := c.Validate(); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid category: "+err.Error())
		return
	}

	if err := s.categories.AddCategory(r.Context(), c); err != nil {
		slog.ErrorContext(r.Context(), "Add category failed", "error", err, "owner", id.OwnerID, "name", c.Name)
		writeError(w, r, http.StatusInternalServerError, "could not save category")
		return
	}

	names, err := s.categories.ListCategories(r.Context(), id.OwnerID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err, "owner", id.OwnerID)
		writeError(w, r, http.StatusInternalServerError, "could not load categories")
		return
	}
	writeJSON(w, r, http.StatusCreated, struct {
		Categories []string `json:"categories"`
	}{names})
}
