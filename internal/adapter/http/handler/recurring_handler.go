package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pocketbank/pocketbank/internal/adapter/http/dto"
	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

// RecurringService defines the behavior needed by RecurringHandler.
type RecurringService interface {
	Create(ctx context.Context, input usecase.CreateChargeInput) (*domain.RecurringCharge, error)
	Get(ctx context.Context, id string) (*domain.RecurringCharge, error)
	ListByChild(ctx context.Context, childID string) ([]*domain.RecurringCharge, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.RecurringCharge, error)
	Delete(ctx context.Context, id string) error
}

// RecurringHandler handles recurring charge HTTP requests.
type RecurringHandler struct {
	recurringUC RecurringService
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringUC RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringUC: recurringUC}
}

// Create registers a recurring charge.
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	charge, err := h.recurringUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create charge", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ChargeFromDomain(charge))
}

// Get retrieves a charge by ID.
func (h *RecurringHandler) Get(w http.ResponseWriter, r *http.Request) {
	charge, err := h.recurringUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get charge", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ChargeFromDomain(charge))
}

// ListByChild lists a child's recurring charges.
func (h *RecurringHandler) ListByChild(w http.ResponseWriter, r *http.Request) {
	charges, err := h.recurringUC.ListByChild(r.Context(), chi.URLParam(r, "childID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list charges", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ChargesFromDomain(charges))
}

// SetActive pauses or resumes a charge. Resuming schedules the next run a
// full interval out; paused periods are never back-billed.
func (h *RecurringHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req dto.SetChargeActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	charge, err := h.recurringUC.SetActive(r.Context(), chi.URLParam(r, "id"), req.Active)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update charge", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ChargeFromDomain(charge))
}

// Delete removes a charge definition. Entries it already posted stay on
// the ledger.
func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.recurringUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, mapDomainError(err), "failed to delete charge", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
