package usecase

import (
	"context"
	"time"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/infrastructure/metrics"
)

// InterestUseCase posts daily interest entries. Accrual is incremental:
// it walks day by day from the account's checkpoint to today, folding each
// day's transactions into the running balance before applying that day's
// rate, then advances the checkpoint. Calling it after days of downtime
// posts exactly the entries a daily run would have posted.
type InterestUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	clock       Clock
	metrics     *metrics.Metrics
}

// NewInterestUseCase creates a new InterestUseCase.
func NewInterestUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	clock Clock,
	m *metrics.Metrics,
) *InterestUseCase {
	return &InterestUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		clock:       clock,
		metrics:     m,
	}
}

// AccrueChild accrues interest for the account belonging to childID.
func (uc *InterestUseCase) AccrueChild(ctx context.Context, childID string) error {
	account, err := uc.accountRepo.GetByChildID(ctx, childID)
	if err != nil {
		return err
	}

	return uc.Accrue(ctx, account)
}

// Accrue catches the account up to today. Days up to but excluding today
// are accrued; entries posted today accrue tomorrow. Idempotent: a second
// call the same day is a no-op because the checkpoint has already reached
// today.
func (uc *InterestUseCase) Accrue(ctx context.Context, account *domain.Account) error {
	today := domain.DateOf(uc.clock.Now())

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	first, err := uc.entryRepo.FirstEntryTime(txCtx, account.ChildID)
	if err != nil {
		return err
	}

	if first == nil {
		// Empty ledger: stamp the checkpoint so history before the
		// first deposit never accrues, but never move it backward.
		if account.LastInterestApplied != nil && !account.LastInterestApplied.Before(today) {
			return nil
		}

		account.LastInterestApplied = &today

		return uc.accountRepo.Update(txCtx, nil, account)
	}

	start := domain.DateOf(*first)
	if account.LastInterestApplied != nil {
		start = domain.DateOf(*account.LastInterestApplied)
	}

	if !start.Before(today) {
		// Already caught up; do not regress the checkpoint.
		return nil
	}

	// Entries strictly before the checkpoint are pre-folded so they are
	// never counted twice.
	running, err := uc.entryRepo.SumBefore(txCtx, account.ChildID, start)
	if err != nil {
		return err
	}

	queue, err := uc.entryRepo.ListByChild(txCtx, account.ChildID, &start)
	if err != nil {
		return err
	}

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	totalInterest := account.TotalInterestEarned
	idx := 0

	for day := start; day.Before(today); day = day.AddDate(0, 0, 1) {
		// Same-day deposits and withdrawals affect that day's accrual.
		for idx < len(queue) && domain.SameDay(queue[idx].Timestamp, day) {
			running = running.Add(queue[idx].Signed())
			idx++
		}

		rate := account.PickRate(running)

		interest := running.Mul(rate).Round(2)
		if interest.IsZero() {
			continue
		}

		kind := domain.EntryCredit
		if interest.IsNegative() {
			kind = domain.EntryDebit
		}

		period := day
		entry := &domain.Entry{
			ID:          uc.idGen.Generate(),
			ChildID:     account.ChildID,
			Kind:        kind,
			Amount:      interest.Abs(),
			Memo:        MemoInterest,
			InitiatedBy: domain.InitiatedBySystem,
			Source:      domain.SourceInterestAccrual,
			PeriodDate:  &period,
			Timestamp:   domain.NextDay(day),
		}

		if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
			return err
		}

		running = running.Add(interest)
		totalInterest = totalInterest.Add(interest)

		if uc.metrics != nil {
			uc.metrics.InterestEntriesPosted.Inc()
			amt, _ := interest.Float64()
			uc.metrics.InterestAmountPosted.Add(amt)
		}
	}

	account.TotalInterestEarned = totalInterest
	account.LastInterestApplied = &today

	if err := uc.accountRepo.Update(txCtx, tx, account); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// RewindCheckpoint moves the accrual checkpoint back to the given date so
// the next run replays history from there. Used after administrative edits
// of historical entries; already-posted interest entries are not removed,
// so the replay will fold them as ordinary entries. Moving the checkpoint
// forward is refused.
func (uc *InterestUseCase) RewindCheckpoint(ctx context.Context, childID string, to time.Time) error {
	account, err := uc.accountRepo.GetByChildID(ctx, childID)
	if err != nil {
		return err
	}

	target := domain.DateOf(to)
	if account.LastInterestApplied != nil && !target.Before(*account.LastInterestApplied) {
		return nil
	}

	account.LastInterestApplied = &target

	return uc.accountRepo.Update(ctx, nil, account)
}
