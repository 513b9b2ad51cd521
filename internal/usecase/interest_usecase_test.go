package usecase_test

import (
	"context"
	"testing"

	"github.com/pocketbank/pocketbank/internal/domain"
)

func TestInterestUseCase_CatchUpAfterDowntime(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)

	f.advanceDays(5)

	if err := f.interest.AccrueChild(context.Background(), "alice"); err != nil {
		t.Fatalf("accrue: %v", err)
	}

	interest := f.entriesBySource("alice", domain.SourceInterestAccrual)
	if len(interest) != 5 {
		t.Fatalf("expected 5 interest entries, got %d", len(interest))
	}

	// 100 at 1% daily, each day rounded to cents before compounding:
	// 1.00, 1.01, 1.02, 1.03, 1.04.
	wantAmounts := []string{"1", "1.01", "1.02", "1.03", "1.04"}
	for i, e := range interest {
		requireDecimal(t, wantAmounts[i], e.Amount, "interest entry amount")
		if e.Kind != domain.EntryCredit {
			t.Fatalf("entry %d: expected credit, got %s", i, e.Kind)
		}
	}

	requireDecimal(t, "105.1", f.balance("alice"), "balance after catch-up")

	account, err := f.accountUC.GetAccount(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	requireDecimal(t, "5.1", account.TotalInterestEarned, "total interest earned")

	today := domain.DateOf(f.now)
	if account.LastInterestApplied == nil || !account.LastInterestApplied.Equal(today) {
		t.Fatalf("checkpoint not advanced to today: %v", account.LastInterestApplied)
	}
}

func TestInterestUseCase_SecondRunSameDayIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)

	f.advanceDays(3)

	for i := 0; i < 2; i++ {
		if err := f.interest.AccrueChild(context.Background(), "alice"); err != nil {
			t.Fatalf("accrue run %d: %v", i, err)
		}
	}

	if got := len(f.entriesBySource("alice", domain.SourceInterestAccrual)); got != 3 {
		t.Fatalf("expected 3 interest entries after double run, got %d", got)
	}
}

func TestInterestUseCase_EntriesTodayAccrueTomorrow(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)

	if err := f.interest.AccrueChild(context.Background(), "alice"); err != nil {
		t.Fatalf("accrue: %v", err)
	}

	if got := len(f.entriesBySource("alice", domain.SourceInterestAccrual)); got != 0 {
		t.Fatalf("same-day deposit must not accrue yet, got %d entries", got)
	}
}

func TestInterestUseCase_MidHistoryDepositCountsFromItsDay(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)
	// A second deposit two days in changes the base for days 2 and 3 only.
	f.seedEntry("alice", domain.EntryCredit, 100, f.now.AddDate(0, 0, 2))

	f.advanceDays(4)

	if err := f.interest.AccrueChild(context.Background(), "alice"); err != nil {
		t.Fatalf("accrue: %v", err)
	}

	interest := f.entriesBySource("alice", domain.SourceInterestAccrual)
	if len(interest) != 4 {
		t.Fatalf("expected 4 interest entries, got %d", len(interest))
	}

	// Days 0-1 on 100ish, days 2-3 on 200ish.
	requireDecimal(t, "1", interest[0].Amount, "day 0")
	requireDecimal(t, "1.01", interest[1].Amount, "day 1")
	requireDecimal(t, "2.02", interest[2].Amount, "day 2")
	requireDecimal(t, "2.04", interest[3].Amount, "day 3")
}

func TestInterestUseCase_NegativeBalanceUsesPenaltyRate(t *testing.T) {
	f := newFixture(t)
	f.newAccount("bob")
	f.seedEntry("bob", domain.EntryDebit, 50, f.now)

	f.advanceDays(2)

	if err := f.interest.AccrueChild(context.Background(), "bob"); err != nil {
		t.Fatalf("accrue: %v", err)
	}

	interest := f.entriesBySource("bob", domain.SourceInterestAccrual)
	if len(interest) != 2 {
		t.Fatalf("expected 2 interest entries, got %d", len(interest))
	}

	// -50 at the 2% penalty rate: -1.00, then -1.02 on -51.
	for _, e := range interest {
		if e.Kind != domain.EntryDebit {
			t.Fatalf("penalty interest must debit, got %s", e.Kind)
		}
	}
	requireDecimal(t, "1", interest[0].Amount, "day 0 penalty")
	requireDecimal(t, "1.02", interest[1].Amount, "day 1 penalty")
	requireDecimal(t, "-52.02", f.balance("bob"), "balance after penalties")
}

func TestInterestUseCase_InterestEntryTimestamps(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)

	f.advanceDays(1)

	if err := f.interest.AccrueChild(context.Background(), "alice"); err != nil {
		t.Fatalf("accrue: %v", err)
	}

	interest := f.entriesBySource("alice", domain.SourceInterestAccrual)
	if len(interest) != 1 {
		t.Fatalf("expected 1 interest entry, got %d", len(interest))
	}

	day := domain.DateOf(baseTime)
	e := interest[0]
	if e.PeriodDate == nil || !e.PeriodDate.Equal(day) {
		t.Fatalf("period date: got %v, want %v", e.PeriodDate, day)
	}
	if !e.Timestamp.Equal(domain.NextDay(day)) {
		t.Fatalf("timestamp: got %v, want midnight after the accrued day", e.Timestamp)
	}
}

func TestInterestUseCase_EmptyLedgerStampsCheckpoint(t *testing.T) {
	f := newFixture(t)
	f.newAccount("carol")

	f.advanceDays(7)

	if err := f.interest.AccrueChild(context.Background(), "carol"); err != nil {
		t.Fatalf("accrue: %v", err)
	}

	account, err := f.accountUC.GetAccount(context.Background(), "carol")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}

	today := domain.DateOf(f.now)
	if account.LastInterestApplied == nil || !account.LastInterestApplied.Equal(today) {
		t.Fatalf("empty ledger should stamp checkpoint to today, got %v", account.LastInterestApplied)
	}

	// The week before the first deposit must never accrue.
	f.seedEntry("carol", domain.EntryCredit, 100, f.now)
	f.advanceDays(1)

	if err := f.interest.AccrueChild(context.Background(), "carol"); err != nil {
		t.Fatalf("accrue: %v", err)
	}

	if got := len(f.entriesBySource("carol", domain.SourceInterestAccrual)); got != 1 {
		t.Fatalf("expected exactly 1 interest entry, got %d", got)
	}
}

func TestInterestUseCase_RateChangeIsNotRetroactive(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)

	f.advanceDays(5)

	// Changing the rate accrues the elapsed days under the old rate
	// first.
	if _, err := f.accountUC.SetInterestRate(context.Background(), "alice", decimalFromString(t, "0.05")); err != nil {
		t.Fatalf("set rate: %v", err)
	}

	requireDecimal(t, "105.1", f.balance("alice"), "old rate applied to elapsed days")

	f.advanceDays(1)

	if err := f.interest.AccrueChild(context.Background(), "alice"); err != nil {
		t.Fatalf("accrue: %v", err)
	}

	interest := f.entriesBySource("alice", domain.SourceInterestAccrual)
	if len(interest) != 6 {
		t.Fatalf("expected 6 interest entries, got %d", len(interest))
	}

	// 105.10 at the new 5% rate.
	requireDecimal(t, "5.26", interest[5].Amount, "first day under new rate")
}

func TestInterestUseCase_RewindCheckpoint(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)

	f.advanceDays(3)

	if err := f.interest.AccrueChild(context.Background(), "alice"); err != nil {
		t.Fatalf("accrue: %v", err)
	}

	// Forward rewinds are refused.
	future := f.now.AddDate(0, 0, 10)
	if err := f.interest.RewindCheckpoint(context.Background(), "alice", future); err != nil {
		t.Fatalf("rewind forward: %v", err)
	}

	account, _ := f.accountUC.GetAccount(context.Background(), "alice")
	if !account.LastInterestApplied.Equal(domain.DateOf(f.now)) {
		t.Fatalf("forward rewind must not move checkpoint, got %v", account.LastInterestApplied)
	}

	// Backward rewind replays history, folding the already-posted
	// interest entries as ordinary entries.
	if err := f.interest.RewindCheckpoint(context.Background(), "alice", baseTime.AddDate(0, 0, 2)); err != nil {
		t.Fatalf("rewind: %v", err)
	}

	account, _ = f.accountUC.GetAccount(context.Background(), "alice")
	if !account.LastInterestApplied.Equal(domain.DateOf(baseTime.AddDate(0, 0, 2))) {
		t.Fatalf("checkpoint not rewound, got %v", account.LastInterestApplied)
	}
}
