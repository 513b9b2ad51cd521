package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/adapter/http/dto"
	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	PostEntry(ctx context.Context, input usecase.PostEntryInput) (*domain.Entry, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, id string, patch usecase.UpdateEntryInput) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	Balance(ctx context.Context, childID string) (decimal.Decimal, error)
	BalanceAsOf(ctx context.Context, childID string, asOf time.Time) (decimal.Decimal, error)
	Ledger(ctx context.Context, childID string, since *time.Time) ([]*domain.Entry, error)
	ApplyPromotion(ctx context.Context, amount decimal.Decimal, isPercentage, credit bool, memo string) (int, error)
}

// LedgerHandler handles ledger entry and balance HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// PostEntry appends a deposit or withdrawal to a child's ledger.
func (h *LedgerHandler) PostEntry(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")

	var req dto.PostEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.PostEntry(r.Context(), req.ToUseCaseInput(childID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post entry", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// ListEntries returns a child's ledger, oldest first. An optional "since"
// query parameter (RFC 3339) limits the range.
func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	since := parseTimeQuery(r, "since")

	entries, err := h.ledgerUC.Ledger(r.Context(), childID, since)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// GetBalance returns the derived balance. An optional "as_of" query
// parameter (RFC 3339) returns the balance at a point in time.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	asOf := parseTimeQuery(r, "as_of")

	var (
		balance decimal.Decimal
		err     error
	)

	if asOf != nil {
		balance, err = h.ledgerUC.BalanceAsOf(r.Context(), childID, *asOf)
	} else {
		balance, err = h.ledgerUC.Balance(r.Context(), childID)
	}
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		ChildID: childID,
		Balance: balance,
		AsOf:    asOf,
	})
}

// GetEntry retrieves a single entry by ID.
func (h *LedgerHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := h.ledgerUC.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// UpdateEntry administratively patches a posted entry.
func (h *LedgerHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.UpdateEntry(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// DeleteEntry removes a posted entry.
func (h *LedgerHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.ledgerUC.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete entry", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ApplyPromotion posts a one-off credit or debit to every account.
func (h *LedgerHandler) ApplyPromotion(w http.ResponseWriter, r *http.Request) {
	var req dto.PromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	count, err := h.ledgerUC.ApplyPromotion(r.Context(), req.Amount, req.IsPercentage, req.Credit, req.Memo)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to apply promotion", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PromotionResponse{AccountsCredited: count})
}
