package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/adapter/http/handler"
)

func newTestRouter() http.Handler {
	return NewRouter(RouterConfig{
		AccountHandler:     handler.NewAccountHandler(nil),
		LedgerHandler:      handler.NewLedgerHandler(nil),
		CDHandler:          handler.NewCDHandler(nil),
		LoanHandler:        handler.NewLoanHandler(nil),
		RecurringHandler:   handler.NewRecurringHandler(nil),
		SettingsHandler:    handler.NewSettingsHandler(nil),
		MaintenanceHandler: handler.NewMaintenanceHandler(nil),
		HealthHandler:      handler.NewHealthHandler(nil, nil),
		Logger:             zerolog.Nop(),
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
