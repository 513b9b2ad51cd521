package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/adapter/http/dto"
	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

type recurringServiceStub struct {
	createFn      func(ctx context.Context, input usecase.CreateChargeInput) (*domain.RecurringCharge, error)
	getFn         func(ctx context.Context, id string) (*domain.RecurringCharge, error)
	listByChildFn func(ctx context.Context, childID string) ([]*domain.RecurringCharge, error)
	setActiveFn   func(ctx context.Context, id string, active bool) (*domain.RecurringCharge, error)
	deleteFn      func(ctx context.Context, id string) error
}

func (s *recurringServiceStub) Create(ctx context.Context, input usecase.CreateChargeInput) (*domain.RecurringCharge, error) {
	return s.createFn(ctx, input)
}

func (s *recurringServiceStub) Get(ctx context.Context, id string) (*domain.RecurringCharge, error) {
	return s.getFn(ctx, id)
}

func (s *recurringServiceStub) ListByChild(ctx context.Context, childID string) ([]*domain.RecurringCharge, error) {
	return s.listByChildFn(ctx, childID)
}

func (s *recurringServiceStub) SetActive(ctx context.Context, id string, active bool) (*domain.RecurringCharge, error) {
	return s.setActiveFn(ctx, id, active)
}

func (s *recurringServiceStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestRecurringHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateChargeInput
	handler := NewRecurringHandler(&recurringServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateChargeInput) (*domain.RecurringCharge, error) {
			captured = input
			return &domain.RecurringCharge{
				ID:           "charge-1",
				ChildID:      input.ChildID,
				Amount:       input.Amount,
				Kind:         input.Kind,
				IntervalDays: input.IntervalDays,
				Active:       true,
			}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateChargeRequest{
		ChildID:      "alice",
		Amount:       decimal.NewFromInt(5),
		Kind:         "credit",
		Memo:         "allowance",
		IntervalDays: 7,
	})
	req := httptest.NewRequest(http.MethodPost, "/charges", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Kind != domain.EntryCredit || captured.IntervalDays != 7 {
		t.Fatalf("unexpected create input: %+v", captured)
	}
}

func TestRecurringHandler_Create_InvalidInterval(t *testing.T) {
	handler := NewRecurringHandler(&recurringServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateChargeInput) (*domain.RecurringCharge, error) {
			return nil, domain.ErrInvalidInterval
		},
	})

	body, _ := json.Marshal(dto.CreateChargeRequest{ChildID: "alice", Amount: decimal.NewFromInt(5)})
	req := httptest.NewRequest(http.MethodPost, "/charges", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecurringHandler_SetActive_Pauses(t *testing.T) {
	var gotID string
	var gotActive bool
	handler := NewRecurringHandler(&recurringServiceStub{
		setActiveFn: func(ctx context.Context, id string, active bool) (*domain.RecurringCharge, error) {
			gotID = id
			gotActive = active
			return &domain.RecurringCharge{ID: id, Active: active}, nil
		},
	})

	body, _ := json.Marshal(dto.SetChargeActiveRequest{Active: false})
	req := httptest.NewRequest(http.MethodPut, "/charges/charge-1/active", bytes.NewReader(body))
	rec := routeWithParam(http.MethodPut, "/charges/{id}/active", handler.SetActive, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "charge-1" || gotActive {
		t.Fatalf("expected charge-1 paused, got id=%q active=%v", gotID, gotActive)
	}
}

func TestRecurringHandler_Delete(t *testing.T) {
	var deleted string
	handler := NewRecurringHandler(&recurringServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/charges/charge-1", nil)
	rec := routeWithParam(http.MethodDelete, "/charges/{id}", handler.Delete, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "charge-1" {
		t.Fatalf("expected charge-1 deleted, got %q", deleted)
	}
}

func TestRecurringHandler_Get_NotFound(t *testing.T) {
	handler := NewRecurringHandler(&recurringServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.RecurringCharge, error) {
			return nil, domain.ErrChargeNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/charges/ghost", nil)
	rec := routeWithParam(http.MethodGet, "/charges/{id}", handler.Get, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
