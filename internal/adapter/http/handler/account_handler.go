package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/adapter/http/dto"
	"github.com/pocketbank/pocketbank/internal/domain"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, childID string) (*domain.Account, error)
	GetAccount(ctx context.Context, childID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	SetInterestRate(ctx context.Context, childID string, rate decimal.Decimal) (*domain.Account, error)
	SetPenaltyInterestRate(ctx context.Context, childID string, rate decimal.Decimal) (*domain.Account, error)
	SetCDPenaltyRate(ctx context.Context, childID string, rate decimal.Decimal) (*domain.Account, error)
	SetFrozen(ctx context.Context, childID string, frozen bool) (*domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create opens a ledger account for a child.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.ChildID == "" {
		writeError(w, http.StatusBadRequest, "missing child_id", "")
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ChildID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by child ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")

	account, err := h.accountUC.GetAccount(r.Context(), childID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists all accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// SetRates updates whichever rates the request carries. Accrual is caught
// up through today before a rate takes effect, so changes are never
// retroactive.
func (h *AccountHandler) SetRates(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")

	var req dto.SetRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var (
		account *domain.Account
		err     error
	)

	if req.InterestRate != nil {
		account, err = h.accountUC.SetInterestRate(r.Context(), childID, *req.InterestRate)
		if err != nil {
			writeError(w, mapDomainError(err), "failed to set interest rate", err.Error())
			return
		}
	}

	if req.PenaltyInterestRate != nil {
		account, err = h.accountUC.SetPenaltyInterestRate(r.Context(), childID, *req.PenaltyInterestRate)
		if err != nil {
			writeError(w, mapDomainError(err), "failed to set penalty rate", err.Error())
			return
		}
	}

	if req.CDPenaltyRate != nil {
		account, err = h.accountUC.SetCDPenaltyRate(r.Context(), childID, *req.CDPenaltyRate)
		if err != nil {
			writeError(w, mapDomainError(err), "failed to set cd penalty rate", err.Error())
			return
		}
	}

	if account == nil {
		writeError(w, http.StatusBadRequest, "no rates in request", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// SetFrozen freezes or unfreezes an account.
func (h *AccountHandler) SetFrozen(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")

	var req dto.SetFrozenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.SetFrozen(r.Context(), childID, req.Frozen)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update frozen flag", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
