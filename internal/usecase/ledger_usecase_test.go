package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

func TestLedgerUseCase_PostEntry(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")

	entry, err := f.ledger.PostEntry(context.Background(), usecase.PostEntryInput{
		ChildID:     "alice",
		Kind:        domain.EntryCredit,
		Amount:      decimal.NewFromInt(20),
		Memo:        "allowance",
		InitiatedBy: domain.InitiatedByParent,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	if entry.Source != domain.SourceManual {
		t.Fatalf("default source: got %s, want manual", entry.Source)
	}
	if !entry.Timestamp.Equal(f.now) {
		t.Fatalf("timestamp: got %v, want clock now", entry.Timestamp)
	}
	requireDecimal(t, "20", f.balance("alice"), "balance after post")
}

func TestLedgerUseCase_PostEntryValidation(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")

	tests := []struct {
		name    string
		input   usecase.PostEntryInput
		wantErr error
	}{
		{
			name: "zero amount",
			input: usecase.PostEntryInput{
				ChildID: "alice", Kind: domain.EntryCredit, Amount: decimal.Zero,
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			input: usecase.PostEntryInput{
				ChildID: "alice", Kind: domain.EntryDebit, Amount: decimal.NewFromInt(-5),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "bad kind",
			input: usecase.PostEntryInput{
				ChildID: "alice", Kind: "transfer", Amount: decimal.NewFromInt(5),
			},
			wantErr: domain.ErrInvalidEntryKind,
		},
		{
			name: "unknown child",
			input: usecase.PostEntryInput{
				ChildID: "nobody", Kind: domain.EntryCredit, Amount: decimal.NewFromInt(5),
			},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.PostEntry(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLedgerUseCase_FrozenAccountRejectsExternalPosts(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")

	if _, err := f.accountUC.SetFrozen(context.Background(), "alice", true); err != nil {
		t.Fatalf("freeze: %v", err)
	}

	_, err := f.ledger.PostEntry(context.Background(), usecase.PostEntryInput{
		ChildID:     "alice",
		Kind:        domain.EntryCredit,
		Amount:      decimal.NewFromInt(5),
		InitiatedBy: domain.InitiatedByParent,
	})
	if !errors.Is(err, domain.ErrAccountFrozen) {
		t.Fatalf("got %v, want ErrAccountFrozen", err)
	}

	// System engines still post while frozen.
	if _, err := f.ledger.PostEntry(context.Background(), usecase.PostEntryInput{
		ChildID:     "alice",
		Kind:        domain.EntryCredit,
		Amount:      decimal.NewFromInt(5),
		InitiatedBy: domain.InitiatedBySystem,
	}); err != nil {
		t.Fatalf("system post on frozen account: %v", err)
	}
}

func TestLedgerUseCase_BalanceIsSignedSum(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)
	f.seedEntry("alice", domain.EntryDebit, 30, f.now)
	f.seedEntry("alice", domain.EntryCredit, 12.34, f.now)

	requireDecimal(t, "82.34", f.balance("alice"), "signed sum")
}

func TestLedgerUseCase_BalanceAsOf(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)
	f.seedEntry("alice", domain.EntryDebit, 40, f.now.AddDate(0, 0, 2))

	asOf, err := f.ledger.BalanceAsOf(context.Background(), "alice", f.now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("balance as of: %v", err)
	}
	requireDecimal(t, "100", asOf, "historical balance excludes later debit")
}

func TestLedgerUseCase_DebitBeyondBalanceOverdraws(t *testing.T) {
	f := newFixture(t)
	f.newAccount("bob")
	f.cfg.OverdraftFeeAmount = decimal.NewFromInt(5)
	f.seedEntry("bob", domain.EntryCredit, 10, f.now)

	// Going negative is allowed; the post-transaction update charges the
	// overdraft fee immediately.
	if _, err := f.ledger.PostEntry(context.Background(), usecase.PostEntryInput{
		ChildID:     "bob",
		Kind:        domain.EntryDebit,
		Amount:      decimal.NewFromInt(25),
		InitiatedBy: domain.InitiatedByChild,
	}); err != nil {
		t.Fatalf("post: %v", err)
	}

	if got := len(f.entriesBySource("bob", domain.SourceOverdraftFee)); got != 1 {
		t.Fatalf("expected overdraft fee after negative post, got %d entries", got)
	}
	requireDecimal(t, "-20", f.balance("bob"), "balance includes the fee")
}

func TestLedgerUseCase_UpdateAndDeleteEntry(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")

	entry, err := f.ledger.PostEntry(context.Background(), usecase.PostEntryInput{
		ChildID:     "alice",
		Kind:        domain.EntryCredit,
		Amount:      decimal.NewFromInt(50),
		Memo:        "allowance",
		InitiatedBy: domain.InitiatedByParent,
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	updated, err := f.ledger.UpdateEntry(context.Background(), entry.ID, usecase.UpdateEntryInput{
		Amount: decimalPtr(decimal.NewFromInt(35)),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	requireDecimal(t, "35", updated.Amount, "amended amount")
	requireDecimal(t, "35", f.balance("alice"), "balance reflects amendment")

	if err := f.ledger.DeleteEntry(context.Background(), entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	requireDecimal(t, "0", f.balance("alice"), "balance after removal")

	if _, err := f.ledger.GetEntry(context.Background(), entry.ID); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("got %v, want ErrEntryNotFound", err)
	}
}

func TestLedgerUseCase_ApplyPromotion(t *testing.T) {
	f := newFixture(t)
	f.newAccount("alice")
	f.newAccount("bob")
	f.seedEntry("alice", domain.EntryCredit, 100, f.now)
	f.seedEntry("bob", domain.EntryCredit, 200, f.now)

	count, err := f.ledger.ApplyPromotion(context.Background(), decimal.NewFromFloat(0.05), true, true, "Spring bonus")
	if err != nil {
		t.Fatalf("promotion: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 accounts credited, got %d", count)
	}

	requireDecimal(t, "105", f.balance("alice"), "5% promotion on 100")
	requireDecimal(t, "210", f.balance("bob"), "5% promotion on 200")

	promos := f.entriesBySource("alice", domain.SourcePromotion)
	if len(promos) != 1 || promos[0].Memo != "Spring bonus" {
		t.Fatalf("promotion entry missing or mislabeled: %+v", promos)
	}
}
