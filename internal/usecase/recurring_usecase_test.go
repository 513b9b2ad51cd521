package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

func (f *fixture) createCharge(childID string, amount float64, kind domain.EntryKind, intervalDays int) *domain.RecurringCharge {
	f.t.Helper()

	charge, err := f.recurringUC.Create(context.Background(), usecase.CreateChargeInput{
		ChildID:      childID,
		Amount:       decimal.NewFromFloat(amount),
		Kind:         kind,
		Memo:         "Phone plan",
		IntervalDays: intervalDays,
	})
	if err != nil {
		f.t.Fatalf("create charge: %v", err)
	}

	return charge
}

func TestRecurringUseCase_CreateSchedulesFirstRun(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")

	charge := f.createCharge("alice", 10, domain.EntryDebit, 7)

	want := domain.DateOf(f.now).AddDate(0, 0, 7)
	if !charge.NextRun.Equal(want) {
		t.Fatalf("next run: got %v, want %v", charge.NextRun, want)
	}
	if !charge.Active {
		t.Fatal("new charge must be active")
	}
}

func TestRecurringUseCase_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		input   usecase.CreateChargeInput
		wantErr error
	}{
		{
			name:    "zero amount",
			input:   usecase.CreateChargeInput{ChildID: "alice", Kind: domain.EntryDebit, IntervalDays: 7},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "bad kind",
			input: usecase.CreateChargeInput{
				ChildID: "alice", Amount: decimal.NewFromInt(5), Kind: "transfer", IntervalDays: 7,
			},
			wantErr: domain.ErrInvalidEntryKind,
		},
		{
			name: "zero interval",
			input: usecase.CreateChargeInput{
				ChildID: "alice", Amount: decimal.NewFromInt(5), Kind: domain.EntryDebit,
			},
			wantErr: domain.ErrInvalidInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.recurringUC.Create(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecurringUseCase_ProcessDueCatchesUpMissedPeriods(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)

	charge := f.createCharge("alice", 10, domain.EntryDebit, 7)

	// Not due yet.
	if err := f.recurringUC.ProcessDue(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := len(f.entriesBySource("alice", domain.SourceRecurring)); got != 0 {
		t.Fatalf("premature posting: %d entries", got)
	}

	// Three full intervals elapse before the next run; all three periods
	// post in one pass.
	f.advanceDays(21)
	if err := f.recurringUC.ProcessDue(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}

	posted := f.entriesBySource("alice", domain.SourceRecurring)
	if len(posted) != 3 {
		t.Fatalf("expected 3 postings, got %d", len(posted))
	}
	for i, e := range posted {
		requireDecimal(t, "10", e.Amount, "charge amount")
		wantPeriod := domain.DateOf(baseTime).AddDate(0, 0, 7*(i+1))
		if e.PeriodDate == nil || !e.PeriodDate.Equal(wantPeriod) {
			t.Fatalf("posting %d period: got %v, want %v", i, e.PeriodDate, wantPeriod)
		}
	}

	stored, _ := f.recurringUC.Get(context.Background(), charge.ID)
	if !stored.NextRun.After(domain.DateOf(f.now)) {
		t.Fatalf("next run not advanced past today: %v", stored.NextRun)
	}

	// Re-running the same day posts nothing.
	if err := f.recurringUC.ProcessDue(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := len(f.entriesBySource("alice", domain.SourceRecurring)); got != 3 {
		t.Fatalf("catch-up not idempotent: %d entries", got)
	}
}

func TestRecurringUseCase_PausedChargeSkipsAndResumesClean(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)

	charge := f.createCharge("alice", 10, domain.EntryDebit, 7)

	if _, err := f.recurringUC.SetActive(context.Background(), charge.ID, false); err != nil {
		t.Fatalf("pause: %v", err)
	}

	f.advanceDays(30)
	if err := f.recurringUC.ProcessDue(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if got := len(f.entriesBySource("alice", domain.SourceRecurring)); got != 0 {
		t.Fatalf("paused charge posted %d entries", got)
	}

	// Resuming does not back-bill the paused stretch.
	resumed, err := f.recurringUC.SetActive(context.Background(), charge.ID, true)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	want := domain.DateOf(f.now).AddDate(0, 0, 7)
	if !resumed.NextRun.Equal(want) {
		t.Fatalf("next run after resume: got %v, want %v", resumed.NextRun, want)
	}
}

func TestRecurringUseCase_Delete(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)

	charge := f.createCharge("alice", 10, domain.EntryDebit, 7)

	f.advanceDays(7)
	if err := f.recurringUC.ProcessDue(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}

	if err := f.recurringUC.Delete(context.Background(), charge.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// The definition is gone; its postings stay.
	if _, err := f.recurringUC.Get(context.Background(), charge.ID); !errors.Is(err, domain.ErrChargeNotFound) {
		t.Fatalf("got %v, want ErrChargeNotFound", err)
	}
	if got := len(f.entriesBySource("alice", domain.SourceRecurring)); got != 1 {
		t.Fatalf("expected posted entry to remain, got %d", got)
	}
}
