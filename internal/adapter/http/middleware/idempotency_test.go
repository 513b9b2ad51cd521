package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.data[key]; ok {
		return true, cached, nil
	}
	s.data[key] = response

	return false, nil, nil
}

func (s *memoryStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = response

	return nil
}

func TestIdempotencyMiddlewareReplaysResponse(t *testing.T) {
	store := newMemoryStore()
	mw := NewIdempotencyMiddleware(store, time.Hour)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"e-1"}`))
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/alice/entries", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "key-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Body.String() != `{"id":"e-1"}` {
			t.Fatalf("request %d: unexpected body %q", i, rec.Body.String())
		}
		if i == 1 && rec.Header().Get("X-Idempotency-Replay") != "true" {
			t.Fatal("expected replay header on second request")
		}
	}

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotencyMiddlewareSkipsReads(t *testing.T) {
	store := newMemoryStore()
	mw := NewIdempotencyMiddleware(store, time.Hour)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/alice/balance", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-2")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if calls != 1 {
		t.Fatalf("expected handler called, got %d", calls)
	}
	if len(store.data) != 0 {
		t.Fatal("GET requests must not claim idempotency keys")
	}
}

func TestIdempotencyMiddlewareDoesNotRecordFailures(t *testing.T) {
	store := newMemoryStore()
	mw := NewIdempotencyMiddleware(store, time.Hour)

	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/promotions", strings.NewReader("{}"))
	req.Header.Set(IdempotencyKeyHeader, "key-3")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := store.data["key-3"]; got != nil {
		t.Fatalf("expected failed response not recorded, got %q", got)
	}
}
