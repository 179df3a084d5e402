package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/store"
	"kharcha/internal/validate"
)

type createInquiryRequest struct {
	FirstName string `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string `json:"lastName" validate:"required,notblank,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Company   string `json:"company" validate:"max=200"`
	Plan      string `json:"plan" validate:"max=50"`
	Message   string `json:"message" validate:"max=2000"`
}

type inquiryResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Plan      string    `json:"plan,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toInquiryResponse(q core.Inquiry) inquiryResponse {
	return inquiryResponse{
		ID:        q.ID,
		FirstName: q.FirstName,
		LastName:  q.LastName,
		Email:     q.Email,
		Company:   q.Company,
		Plan:      q.Plan,
		Message:   q.Message,
		CreatedAt: q.CreatedAt,
	}
}

// handleCreateInquiry accepts a sales contact request from the public
// site. No authentication; the rate limiter still applies.
func (s *Server) handleCreateInquiry(w http.ResponseWriter, r *http.Request) {
	var req createInquiryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid inquiry: "+err.Error())
		return
	}

	q := core.Inquiry{
		FirstName: sanitizeInput(req.FirstName),
		LastName:  sanitizeInput(req.LastName),
		Email:     sanitizeInput(req.Email),
		Company:   sanitizeInput(req.Company),
		Plan:      sanitizeInput(req.Plan),
		Message:   sanitizeInput(req.Message),
		CreatedAt: time.Now(),
	}
	if err := q.Validate(); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid inquiry: "+err.Error())
		return
	}

	created, err := s.inquiries.AddInquiry(r.Context(), q)
	if err != nil {
		slog.ErrorContext(r.Context(), "Add inquiry failed", "error", err, "email", q.Email)
		writeError(w, r, http.StatusInternalServerError, "could not save inquiry")
		return
	}

	writeJSON(w, r, http.StatusCreated, toInquiryResponse(created))
}

func (s *Server) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.admin.Overview(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Admin overview failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "could not compute overview")
		return
	}
	writeJSON(w, r, http.StatusOK, ov)
}

func (s *Server) handleAdminListInquiries(w http.ResponseWriter, r *http.Request) {
	list, err := s.admin.ListInquiries(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List inquiries failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "could not load inquiries")
		return
	}
	items := make([]inquiryResponse, 0, len(list))
	for _, q := range list {
		items = append(items, toInquiryResponse(q))
	}
	writeJSON(w, r, http.StatusOK, struct {
		Inquiries []inquiryResponse `json:"inquiries"`
	}{items})
}

func (s *Server) handleAdminDeleteInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid inquiry id")
		return
	}
	if err := s.admin.DeleteInquiry(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "inquiry not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete inquiry failed", "error", err, "id", id)
		writeError(w, r, http.StatusInternalServerError, "could not delete inquiry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
