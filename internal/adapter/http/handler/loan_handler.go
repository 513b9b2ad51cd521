package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/adapter/http/dto"
	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	Request(ctx context.Context, input usecase.RequestInput) (*domain.Loan, error)
	Get(ctx context.Context, id string) (*domain.Loan, error)
	ListByChild(ctx context.Context, childID string) ([]*domain.Loan, error)
	ListTransactions(ctx context.Context, loanID string) ([]*domain.LoanTransaction, error)
	Approve(ctx context.Context, loanID string) (*domain.Loan, error)
	Deny(ctx context.Context, loanID string) (*domain.Loan, error)
	Decline(ctx context.Context, loanID string) (*domain.Loan, error)
	Activate(ctx context.Context, loanID string) (*domain.Loan, error)
	Close(ctx context.Context, loanID string) (*domain.Loan, error)
	RecordPayment(ctx context.Context, loanID string, amount decimal.Decimal) (*domain.Loan, error)
}

// LoanHandler handles loan HTTP requests.
type LoanHandler struct {
	loanUC LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC}
}

// Request creates a loan in the requested state.
func (h *LoanHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.Request(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to request loan", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Get retrieves a loan by ID.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.loanUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// ListByChild lists a child's loans.
func (h *LoanHandler) ListByChild(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanUC.ListByChild(r.Context(), chi.URLParam(r, "childID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoansFromDomain(loans))
}

// ListTransactions lists a loan's interest and payment events, oldest
// first.
func (h *LoanHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.loanUC.ListTransactions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list loan transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanTransactionsFromDomain(txs))
}

// Approve marks a requested loan as approved by the parent.
func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.loanUC.Approve, "failed to approve loan")
}

// Deny is the parent refusing a requested loan.
func (h *LoanHandler) Deny(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.loanUC.Deny, "failed to deny loan")
}

// Decline is the child walking away from an approved loan.
func (h *LoanHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.loanUC.Decline, "failed to decline loan")
}

// Activate disburses an approved loan to the child's account.
func (h *LoanHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.loanUC.Activate, "failed to activate loan")
}

// Close administratively closes a loan.
func (h *LoanHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.loanUC.Close, "failed to close loan")
}

func (h *LoanHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, string) (*domain.Loan, error),
	errMsg string,
) {
	loan, err := op(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), errMsg, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// RecordPayment debits the child's account and reduces the principal.
func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.RecordPayment(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}
