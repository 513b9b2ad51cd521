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

// CDService defines the behavior needed by CDHandler.
type CDService interface {
	Offer(ctx context.Context, input usecase.OfferInput) (*domain.CertificateDeposit, error)
	Get(ctx context.Context, id string) (*domain.CertificateDeposit, error)
	ListByChild(ctx context.Context, childID string) ([]*domain.CertificateDeposit, error)
	Accept(ctx context.Context, cdID string) (*domain.CertificateDeposit, error)
	Reject(ctx context.Context, cdID string) (*domain.CertificateDeposit, error)
	Redeem(ctx context.Context, cdID string, treatAsMature bool) (*domain.CertificateDeposit, error)
}

// CDHandler handles certificate of deposit HTTP requests.
type CDHandler struct {
	cdUC CDService
}

// NewCDHandler creates a new CDHandler.
func NewCDHandler(cdUC CDService) *CDHandler {
	return &CDHandler{cdUC: cdUC}
}

// Offer creates a certificate in the offered state.
func (h *CDHandler) Offer(w http.ResponseWriter, r *http.Request) {
	var req dto.OfferCDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cd, err := h.cdUC.Offer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to offer certificate", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CDFromDomain(cd))
}

// Get retrieves a certificate by ID.
func (h *CDHandler) Get(w http.ResponseWriter, r *http.Request) {
	cd, err := h.cdUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get certificate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CDFromDomain(cd))
}

// ListByChild lists a child's certificates, newest first.
func (h *CDHandler) ListByChild(w http.ResponseWriter, r *http.Request) {
	cds, err := h.cdUC.ListByChild(r.Context(), chi.URLParam(r, "childID"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list certificates", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CDsFromDomain(cds))
}

// Accept locks the principal out of the child's balance.
func (h *CDHandler) Accept(w http.ResponseWriter, r *http.Request) {
	cd, err := h.cdUC.Accept(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to accept certificate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CDFromDomain(cd))
}

// Reject declines an offered certificate. Terminal.
func (h *CDHandler) Reject(w http.ResponseWriter, r *http.Request) {
	cd, err := h.cdUC.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reject certificate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CDFromDomain(cd))
}

// Redeem pays out an accepted certificate: full payout at or after
// maturity, principal minus the early penalty before it.
func (h *CDHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	cd, err := h.cdUC.Redeem(r.Context(), chi.URLParam(r, "id"), false)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to redeem certificate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CDFromDomain(cd))
}
