package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
	"github.com/pocketbank/pocketbank/internal/usecase/mocks"
)

// fixture wires every engine against in-memory repositories and a
// controllable clock, so tests can time-travel and observe the entries
// each engine would have posted.
type fixture struct {
	t    *testing.T
	now  time.Time
	cfg  *domain.Settings
	seed int

	accounts *mocks.MockAccountRepository
	entries  *mocks.MockEntryRepository
	cds      *mocks.MockCDRepository
	loans    *mocks.MockLoanRepository
	charges  *mocks.MockRecurringChargeRepository

	interest    *usecase.InterestUseCase
	fees        *usecase.FeeUseCase
	ledger      *usecase.LedgerUseCase
	accountUC   *usecase.AccountUseCase
	cdUC        *usecase.CDUseCase
	loanUC      *usecase.LoanUseCase
	recurringUC *usecase.RecurringUseCase
	maintenance *usecase.MaintenanceUseCase
}

// day zero for most tests: a mid-month Monday, far from the first of the
// month so the service fee stays out of the way unless a test asks for it.
var baseTime = time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		t:        t,
		now:      baseTime,
		cfg:      domain.DefaultSettings(),
		accounts: mocks.NewMockAccountRepository(),
		entries:  mocks.NewMockEntryRepository(),
		cds:      mocks.NewMockCDRepository(),
		loans:    mocks.NewMockLoanRepository(),
		charges:  mocks.NewMockRecurringChargeRepository(),
	}

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().DoAndReturn(func() time.Time { return f.now }).AnyTimes()

	settingsRepo := mocks.NewMockSettingsRepository(ctrl)
	settingsRepo.EXPECT().Get(gomock.Any()).DoAndReturn(
		func(context.Context) (*domain.Settings, error) { return f.cfg, nil },
	).AnyTimes()
	settingsRepo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s *domain.Settings) error {
			f.cfg = s
			return nil
		},
	).AnyTimes()

	txm := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	logger := zerolog.Nop()

	f.interest = usecase.NewInterestUseCase(txm, f.accounts, f.entries, idGen, clock, nil)
	f.fees = usecase.NewFeeUseCase(txm, f.accounts, f.entries, idGen, clock, nil)
	f.ledger = usecase.NewLedgerUseCase(txm, f.accounts, f.entries, settingsRepo, f.interest, f.fees, idGen, clock, nil)
	f.accountUC = usecase.NewAccountUseCase(f.accounts, settingsRepo, f.interest, idGen, clock)
	f.cdUC = usecase.NewCDUseCase(txm, f.cds, f.ledger, idGen, clock, logger, nil)
	f.loanUC = usecase.NewLoanUseCase(txm, f.loans, f.ledger, idGen, clock, logger, nil)
	f.recurringUC = usecase.NewRecurringUseCase(f.charges, f.ledger, idGen, clock, logger, nil)
	f.maintenance = usecase.NewMaintenanceUseCase(
		f.accounts, settingsRepo, f.interest, f.fees, f.cdUC, f.loanUC, f.recurringUC, clock, logger, nil,
	)

	return f
}

func (f *fixture) advanceDays(n int) {
	f.now = f.now.AddDate(0, 0, n)
}

func (f *fixture) newAccount(childID string) *domain.Account {
	f.t.Helper()

	account, err := f.accountUC.CreateAccount(context.Background(), childID)
	if err != nil {
		f.t.Fatalf("CreateAccount(%q): %v", childID, err)
	}

	return account
}

// seedEntry writes an entry with an explicit timestamp straight into the
// repository, bypassing the post-transaction update. Used to build
// historical ledgers.
func (f *fixture) seedEntry(childID string, kind domain.EntryKind, amount float64, at time.Time) {
	f.t.Helper()

	f.seed++
	entry := &domain.Entry{
		ID:          fmt.Sprintf("seed-%s-%04d", childID, f.seed),
		ChildID:     childID,
		Kind:        kind,
		Amount:      decimal.NewFromFloat(amount),
		Memo:        "seed",
		InitiatedBy: domain.InitiatedByParent,
		Source:      domain.SourceManual,
		Timestamp:   at,
	}

	if err := f.entries.Create(context.Background(), nil, entry); err != nil {
		f.t.Fatalf("seed entry: %v", err)
	}
}

func (f *fixture) balance(childID string) decimal.Decimal {
	f.t.Helper()

	balance, err := f.ledger.Balance(context.Background(), childID)
	if err != nil {
		f.t.Fatalf("Balance(%q): %v", childID, err)
	}

	return balance
}

func (f *fixture) ledgerEntries(childID string) []*domain.Entry {
	f.t.Helper()

	entries, err := f.ledger.Ledger(context.Background(), childID, nil)
	if err != nil {
		f.t.Fatalf("Ledger(%q): %v", childID, err)
	}

	return entries
}

func (f *fixture) entriesBySource(childID string, source domain.EntrySource) []*domain.Entry {
	f.t.Helper()

	var out []*domain.Entry
	for _, e := range f.ledgerEntries(childID) {
		if e.Source == source {
			out = append(out, e)
		}
	}

	return out
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}

	return d
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()

	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s: got %s, want %s", msg, got.String(), want)
	}
}
