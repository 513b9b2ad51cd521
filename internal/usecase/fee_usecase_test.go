package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
)

func TestFeeUseCase_ServiceFeeOnlyOnFirstOfMonth(t *testing.T) {
	f := newFixture(t)
	account := f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 200, f.now)
	f.cfg.ServiceFeeAmount = decimal.NewFromInt(2)

	// Mid-month: nothing happens.
	if err := f.fees.ApplyServiceFee(context.Background(), account, f.cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(f.entriesBySource("alice", domain.SourceServiceFee)); got != 0 {
		t.Fatalf("mid-month service fee posted %d entries", got)
	}

	f.now = time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

	if err := f.fees.ApplyServiceFee(context.Background(), account, f.cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}

	fees := f.entriesBySource("alice", domain.SourceServiceFee)
	if len(fees) != 1 {
		t.Fatalf("expected 1 service fee entry, got %d", len(fees))
	}
	requireDecimal(t, "2", fees[0].Amount, "flat service fee")
	if fees[0].Kind != domain.EntryDebit {
		t.Fatalf("service fee must debit, got %s", fees[0].Kind)
	}

	// Re-running the same month is a no-op.
	f.advanceDays(0)
	if err := f.fees.ApplyServiceFee(context.Background(), account, f.cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(f.entriesBySource("alice", domain.SourceServiceFee)); got != 1 {
		t.Fatalf("service fee charged twice in one month: %d entries", got)
	}

	// Next month's first charges again.
	f.now = time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	if err := f.fees.ApplyServiceFee(context.Background(), account, f.cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(f.entriesBySource("alice", domain.SourceServiceFee)); got != 2 {
		t.Fatalf("expected 2 service fee entries after second month, got %d", got)
	}
}

func TestFeeUseCase_ServiceFeePercentage(t *testing.T) {
	f := newFixture(t)
	account := f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 250, f.now)
	f.cfg.ServiceFeeAmount = decimal.NewFromFloat(0.01)
	f.cfg.ServiceFeeIsPercentage = true

	f.now = time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

	if err := f.fees.ApplyServiceFee(context.Background(), account, f.cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}

	fees := f.entriesBySource("alice", domain.SourceServiceFee)
	if len(fees) != 1 {
		t.Fatalf("expected 1 service fee entry, got %d", len(fees))
	}
	requireDecimal(t, "2.5", fees[0].Amount, "1% of 250")
}

func TestFeeUseCase_ServiceFeeZeroConfiguredSkips(t *testing.T) {
	f := newFixture(t)
	account := f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)

	f.now = time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

	// Default settings carry a zero fee.
	if err := f.fees.ApplyServiceFee(context.Background(), account, f.cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(f.entriesBySource("alice", domain.SourceServiceFee)); got != 0 {
		t.Fatalf("zero fee must not post, got %d entries", got)
	}
}

func TestFeeUseCase_OverdraftOneTimeLatch(t *testing.T) {
	f := newFixture(t)
	account := f.newAccount("bob")
	f.seedEntry("bob", domain.EntryDebit, 50, f.now)
	f.cfg.OverdraftFeeAmount = decimal.NewFromInt(5)

	if err := f.fees.ApplyOverdraftFee(context.Background(), account, f.cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}

	fees := f.entriesBySource("bob", domain.SourceOverdraftFee)
	if len(fees) != 1 {
		t.Fatalf("expected 1 overdraft fee, got %d", len(fees))
	}
	requireDecimal(t, "5", fees[0].Amount, "overdraft fee")

	// Still negative days later: the latch holds.
	f.advanceDays(3)
	if err := f.fees.ApplyOverdraftFee(context.Background(), account, f.cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(f.entriesBySource("bob", domain.SourceOverdraftFee)); got != 1 {
		t.Fatalf("latched overdraft fee re-charged: %d entries", got)
	}

	// Balance back above zero clears the latch for the next episode.
	f.seedEntry("bob", domain.EntryCredit, 100, f.now)
	if err := f.fees.ApplyOverdraftFee(context.Background(), account, f.cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if account.OverdraftFeeCharged {
		t.Fatal("latch not cleared after balance recovered")
	}

	f.seedEntry("bob", domain.EntryDebit, 200, f.now)
	if err := f.fees.ApplyOverdraftFee(context.Background(), account, f.cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(f.entriesBySource("bob", domain.SourceOverdraftFee)); got != 2 {
		t.Fatalf("new overdraft episode must charge again, got %d entries", got)
	}
}

func TestFeeUseCase_OverdraftDailyMode(t *testing.T) {
	f := newFixture(t)
	account := f.newAccount("bob")
	f.seedEntry("bob", domain.EntryDebit, 50, f.now)
	f.cfg.OverdraftFeeAmount = decimal.NewFromInt(5)
	f.cfg.OverdraftFeeDaily = true

	for i := 0; i < 2; i++ {
		if err := f.fees.ApplyOverdraftFee(context.Background(), account, f.cfg); err != nil {
			t.Fatalf("apply run %d: %v", i, err)
		}
	}

	// Same calendar day: one charge only.
	if got := len(f.entriesBySource("bob", domain.SourceOverdraftFee)); got != 1 {
		t.Fatalf("same-day daily overdraft charged %d times", got)
	}

	f.advanceDays(1)
	if err := f.fees.ApplyOverdraftFee(context.Background(), account, f.cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(f.entriesBySource("bob", domain.SourceOverdraftFee)); got != 2 {
		t.Fatalf("daily overdraft must re-charge next day, got %d entries", got)
	}

	// Daily mode never sets the one-time latch.
	if account.OverdraftFeeCharged {
		t.Fatal("daily mode must not latch")
	}
}
