package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/infrastructure/metrics"
)

// FeeUseCase charges the monthly service fee and the overdraft fee. Both
// derive from the same balance primitive as accrual and must run after it,
// so they see the post-interest balance for the day.
type FeeUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	clock       Clock
	metrics     *metrics.Metrics
}

// NewFeeUseCase creates a new FeeUseCase.
func NewFeeUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	clock Clock,
	m *metrics.Metrics,
) *FeeUseCase {
	return &FeeUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		clock:       clock,
		metrics:     m,
	}
}

// ApplyServiceFee charges the monthly service fee. It only fires on the
// first of the month, at most once per month, guarded by the account's
// service_fee_last_charged checkpoint.
func (uc *FeeUseCase) ApplyServiceFee(ctx context.Context, account *domain.Account, settings *domain.Settings) error {
	today := domain.DateOf(uc.clock.Now())
	if today.Day() != 1 {
		return nil
	}

	if account.ServiceFeeLastCharged != nil && domain.SameMonth(*account.ServiceFeeLastCharged, today) {
		return nil
	}

	balance, err := uc.entryRepo.BalanceAsOf(ctx, account.ChildID, nil)
	if err != nil {
		return err
	}

	fee := domain.FeeFor(balance, settings.ServiceFeeAmount, settings.ServiceFeeIsPercentage)
	if fee.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	period := today
	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		ChildID:     account.ChildID,
		Kind:        domain.EntryDebit,
		Amount:      fee,
		Memo:        MemoServiceFee,
		InitiatedBy: domain.InitiatedBySystem,
		Source:      domain.SourceServiceFee,
		PeriodDate:  &period,
		Timestamp:   today,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	account.ServiceFeeLastCharged = &today
	if err := uc.accountRepo.Update(ctx, tx, account); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.ServiceFeesCharged.Inc()
	}

	return nil
}

// ApplyOverdraftFee charges an overdraft fee while the balance is negative.
// Daily mode re-charges once per calendar day; one-time mode charges once
// per overdraft episode via a latch that clears as soon as the balance
// returns non-negative. Must run after any transaction that could push the
// balance negative, and after the day's interest accrual.
func (uc *FeeUseCase) ApplyOverdraftFee(ctx context.Context, account *domain.Account, settings *domain.Settings) error {
	today := domain.DateOf(uc.clock.Now())

	balance, err := uc.entryRepo.BalanceAsOf(ctx, account.ChildID, nil)
	if err != nil {
		return err
	}

	if !balance.IsNegative() {
		// Clear the latch so the next overdraft episode charges again.
		if account.OverdraftFeeCharged || account.OverdraftFeeLastCharged != nil {
			account.OverdraftFeeCharged = false
			account.OverdraftFeeLastCharged = nil

			return uc.accountRepo.Update(ctx, nil, account)
		}

		return nil
	}

	fee := domain.FeeFor(balance, settings.OverdraftFeeAmount, settings.OverdraftFeeIsPercentage)
	if fee.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	if settings.OverdraftFeeDaily {
		if account.OverdraftFeeLastCharged != nil && domain.SameDay(*account.OverdraftFeeLastCharged, today) {
			return nil
		}
	} else if account.OverdraftFeeCharged {
		return nil
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	period := today
	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		ChildID:     account.ChildID,
		Kind:        domain.EntryDebit,
		Amount:      fee,
		Memo:        MemoOverdraftFee,
		InitiatedBy: domain.InitiatedBySystem,
		Source:      domain.SourceOverdraftFee,
		PeriodDate:  &period,
		Timestamp:   uc.clock.Now(),
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	if !settings.OverdraftFeeDaily {
		account.OverdraftFeeCharged = true
	}
	account.OverdraftFeeLastCharged = &today
	if err := uc.accountRepo.Update(ctx, tx, account); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.OverdraftFeesCharged.Inc()
	}

	return nil
}
