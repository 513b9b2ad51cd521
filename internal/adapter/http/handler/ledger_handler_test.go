package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/adapter/http/dto"
	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

type ledgerServiceStub struct {
	postFn      func(ctx context.Context, input usecase.PostEntryInput) (*domain.Entry, error)
	getFn       func(ctx context.Context, id string) (*domain.Entry, error)
	updateFn    func(ctx context.Context, id string, patch usecase.UpdateEntryInput) (*domain.Entry, error)
	deleteFn    func(ctx context.Context, id string) error
	balanceFn   func(ctx context.Context, childID string) (decimal.Decimal, error)
	balanceAtFn func(ctx context.Context, childID string, asOf time.Time) (decimal.Decimal, error)
	ledgerFn    func(ctx context.Context, childID string, since *time.Time) ([]*domain.Entry, error)
	promoFn     func(ctx context.Context, amount decimal.Decimal, isPercentage, credit bool, memo string) (int, error)
}

func (s *ledgerServiceStub) PostEntry(ctx context.Context, input usecase.PostEntryInput) (*domain.Entry, error) {
	return s.postFn(ctx, input)
}

func (s *ledgerServiceStub) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return s.getFn(ctx, id)
}

func (s *ledgerServiceStub) UpdateEntry(ctx context.Context, id string, patch usecase.UpdateEntryInput) (*domain.Entry, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *ledgerServiceStub) DeleteEntry(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *ledgerServiceStub) Balance(ctx context.Context, childID string) (decimal.Decimal, error) {
	return s.balanceFn(ctx, childID)
}

func (s *ledgerServiceStub) BalanceAsOf(ctx context.Context, childID string, asOf time.Time) (decimal.Decimal, error) {
	return s.balanceAtFn(ctx, childID, asOf)
}

func (s *ledgerServiceStub) Ledger(ctx context.Context, childID string, since *time.Time) ([]*domain.Entry, error) {
	return s.ledgerFn(ctx, childID, since)
}

func (s *ledgerServiceStub) ApplyPromotion(ctx context.Context, amount decimal.Decimal, isPercentage, credit bool, memo string) (int, error) {
	return s.promoFn(ctx, amount, isPercentage, credit, memo)
}

func TestLedgerHandler_PostEntry_Success(t *testing.T) {
	entry := &domain.Entry{
		ID:      "e-1",
		ChildID: "alice",
		Kind:    domain.EntryCredit,
		Amount:  decimal.NewFromInt(25),
	}

	var captured usecase.PostEntryInput
	handler := NewLedgerHandler(&ledgerServiceStub{
		postFn: func(ctx context.Context, input usecase.PostEntryInput) (*domain.Entry, error) {
			captured = input
			return entry, nil
		},
	})

	body := []byte(`{"kind":"credit","amount":"25","memo":"allowance","initiated_by":"parent"}`)
	req := httptest.NewRequest(http.MethodPost, "/accounts/alice/entries", bytes.NewReader(body))
	rec := routeWithParam(http.MethodPost, "/accounts/{childID}/entries", handler.PostEntry, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.ChildID != "alice" || captured.Kind != domain.EntryCredit {
		t.Fatalf("expected input from path and body, got %+v", captured)
	}
	if !captured.Amount.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected amount 25, got %s", captured.Amount)
	}
}

func TestLedgerHandler_PostEntry_FrozenAccount(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		postFn: func(ctx context.Context, input usecase.PostEntryInput) (*domain.Entry, error) {
			return nil, domain.ErrAccountFrozen
		},
	})

	body := []byte(`{"kind":"debit","amount":"5"}`)
	req := httptest.NewRequest(http.MethodPost, "/accounts/alice/entries", bytes.NewReader(body))
	rec := routeWithParam(http.MethodPost, "/accounts/{childID}/entries", handler.PostEntry, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestLedgerHandler_GetBalance_Current(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		balanceFn: func(ctx context.Context, childID string) (decimal.Decimal, error) {
			return decimal.NewFromFloat(42.50), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/alice/balance", nil)
	rec := routeWithParam(http.MethodGet, "/accounts/{childID}/balance", handler.GetBalance, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balance.Equal(decimal.NewFromFloat(42.50)) {
		t.Fatalf("expected balance 42.5, got %s", resp.Balance)
	}
}

func TestLedgerHandler_GetBalance_AsOf(t *testing.T) {
	var gotAsOf time.Time
	handler := NewLedgerHandler(&ledgerServiceStub{
		balanceAtFn: func(ctx context.Context, childID string, asOf time.Time) (decimal.Decimal, error) {
			gotAsOf = asOf
			return decimal.NewFromInt(10), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/accounts/alice/balance?as_of=2025-03-01T00:00:00Z", nil)
	rec := routeWithParam(http.MethodGet, "/accounts/{childID}/balance", handler.GetBalance, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	want := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !gotAsOf.Equal(want) {
		t.Fatalf("expected as_of %s, got %s", want, gotAsOf)
	}
}

func TestLedgerHandler_DeleteEntry_NotFound(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			return domain.ErrEntryNotFound
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/entries/ghost", nil)
	rec := routeWithParam(http.MethodDelete, "/entries/{id}", handler.DeleteEntry, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLedgerHandler_ApplyPromotion(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		promoFn: func(ctx context.Context, amount decimal.Decimal, isPercentage, credit bool, memo string) (int, error) {
			if !isPercentage || !credit || memo != "Spring bonus" {
				t.Fatalf("unexpected promotion args: %v %v %q", isPercentage, credit, memo)
			}
			return 3, nil
		},
	})

	body := []byte(`{"amount":"0.05","is_percentage":true,"credit":true,"memo":"Spring bonus"}`)
	req := httptest.NewRequest(http.MethodPost, "/promotions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ApplyPromotion(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.PromotionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccountsCredited != 3 {
		t.Fatalf("expected 3 accounts affected, got %d", resp.AccountsCredited)
	}
}
