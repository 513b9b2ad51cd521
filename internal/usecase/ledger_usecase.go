package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/infrastructure/metrics"
)

// LedgerUseCase is the write and read path for the entry log. Every
// external post runs the post-transaction update: interest accrual followed
// by the overdraft fee pass, so system entries always trail the entry that
// moved the balance.
type LedgerUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	settingsRepo SettingsRepository
	interest     *InterestUseCase
	fees         *FeeUseCase
	idGen        IDGenerator
	clock        Clock
	metrics      *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	settingsRepo SettingsRepository,
	interest *InterestUseCase,
	fees *FeeUseCase,
	idGen IDGenerator,
	clock Clock,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		settingsRepo: settingsRepo,
		interest:     interest,
		fees:         fees,
		idGen:        idGen,
		clock:        clock,
		metrics:      m,
	}
}

// PostEntryInput represents input for posting a ledger entry.
type PostEntryInput struct {
	ChildID     string
	Kind        domain.EntryKind
	Amount      decimal.Decimal
	Memo        string
	InitiatedBy string
	Source      domain.EntrySource
	// PeriodDate tags system entries with the period they cover. Optional.
	PeriodDate *time.Time
}

// PostEntry appends an entry to a child's ledger and runs the
// post-transaction update. Frozen accounts reject external posts; system
// engines write through the repositories directly and are unaffected.
func (uc *LedgerUseCase) PostEntry(ctx context.Context, input PostEntryInput) (*domain.Entry, error) {
	account, err := uc.accountRepo.GetByChildID(ctx, input.ChildID)
	if err != nil {
		return nil, err
	}

	if account.Frozen && input.InitiatedBy != domain.InitiatedBySystem {
		return nil, domain.ErrAccountFrozen
	}

	source := input.Source
	if source == "" {
		source = domain.SourceManual
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		ChildID:     input.ChildID,
		Kind:        input.Kind,
		Amount:      input.Amount,
		Memo:        input.Memo,
		InitiatedBy: input.InitiatedBy,
		Source:      source,
		PeriodDate:  input.PeriodDate,
		Timestamp:   uc.clock.Now(),
	}

	if err := entry.Validate(); err != nil {
		if uc.metrics != nil {
			uc.metrics.EntryErrors.WithLabelValues("validation").Inc()
		}

		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, nil, entry); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesPosted.WithLabelValues(string(source)).Inc()
	}

	if err := uc.PostTransactionUpdate(ctx, input.ChildID); err != nil {
		return nil, err
	}

	return entry, nil
}

// PostTransactionUpdate re-syncs an account after its ledger changed:
// interest catch-up first, then the overdraft fee check against the fresh
// balance.
func (uc *LedgerUseCase) PostTransactionUpdate(ctx context.Context, childID string) error {
	if err := uc.interest.AccrueChild(ctx, childID); err != nil {
		return err
	}

	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}

	account, err := uc.accountRepo.GetByChildID(ctx, childID)
	if err != nil {
		return err
	}

	return uc.fees.ApplyOverdraftFee(ctx, account, settings)
}

// Balance returns the current balance: the signed sum over the full entry
// set. Zero entries means zero balance.
func (uc *LedgerUseCase) Balance(ctx context.Context, childID string) (decimal.Decimal, error) {
	balance, err := uc.entryRepo.BalanceAsOf(ctx, childID, nil)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.metrics != nil {
		b, _ := balance.Float64()
		uc.metrics.AccountBalance.WithLabelValues(childID).Set(b)
	}

	return balance, nil
}

// BalanceAsOf returns the balance at a point in time (entries with
// timestamp <= asOf).
func (uc *LedgerUseCase) BalanceAsOf(ctx context.Context, childID string, asOf time.Time) (decimal.Decimal, error) {
	return uc.entryRepo.BalanceAsOf(ctx, childID, &asOf)
}

// Ledger returns a child's entries ordered by timestamp ascending, entry ID
// as the tie-break.
func (uc *LedgerUseCase) Ledger(ctx context.Context, childID string, since *time.Time) ([]*domain.Entry, error) {
	return uc.entryRepo.ListByChild(ctx, childID, since)
}

// GetEntry retrieves a single entry.
func (uc *LedgerUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// UpdateEntryInput is an administrative patch to a posted entry.
type UpdateEntryInput struct {
	Kind   *domain.EntryKind
	Amount *decimal.Decimal
	Memo   *string
}

// UpdateEntry administratively overrides a posted entry. Accrual state is
// not reconciled automatically; callers that edit history before the
// checkpoint should rewind it via the interest engine before the next run.
func (uc *LedgerUseCase) UpdateEntry(ctx context.Context, id string, patch UpdateEntryInput) (*domain.Entry, error) {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Kind != nil {
		entry.Kind = *patch.Kind
	}

	if patch.Amount != nil {
		entry.Amount = *patch.Amount
	}

	if patch.Memo != nil {
		entry.Memo = *patch.Memo
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	return entry, uc.PostTransactionUpdate(ctx, entry.ChildID)
}

// DeleteEntry administratively removes an entry. Same caveat as
// UpdateEntry regarding the accrual checkpoint.
func (uc *LedgerUseCase) DeleteEntry(ctx context.Context, id string) error {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.entryRepo.Delete(ctx, id); err != nil {
		return err
	}

	return uc.PostTransactionUpdate(ctx, entry.ChildID)
}

// ApplyPromotion credits or debits every account by a flat amount, or a
// fraction of its balance in percentage mode. Returns the number of
// accounts adjusted.
func (uc *LedgerUseCase) ApplyPromotion(ctx context.Context, amount decimal.Decimal, isPercentage, credit bool, memo string) (int, error) {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	if memo == "" {
		memo = MemoPromotion
	}

	count := 0

	for _, account := range accounts {
		balance, err := uc.entryRepo.BalanceAsOf(ctx, account.ChildID, nil)
		if err != nil {
			return count, err
		}

		adj := amount
		if isPercentage {
			adj = amount.Mul(balance)
		}

		adj = adj.Round(2)
		if adj.IsZero() {
			continue
		}

		kind := domain.EntryCredit
		if !credit {
			kind = domain.EntryDebit
		}

		entry := &domain.Entry{
			ID:          uc.idGen.Generate(),
			ChildID:     account.ChildID,
			Kind:        kind,
			Amount:      adj.Abs(),
			Memo:        memo,
			InitiatedBy: domain.InitiatedBySystem,
			Source:      domain.SourcePromotion,
			Timestamp:   uc.clock.Now(),
		}

		if err := uc.entryRepo.Create(ctx, nil, entry); err != nil {
			return count, err
		}

		if err := uc.PostTransactionUpdate(ctx, account.ChildID); err != nil {
			return count, err
		}

		count++
	}

	return count, nil
}
