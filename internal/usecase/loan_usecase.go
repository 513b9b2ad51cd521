package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/infrastructure/metrics"
)

// LoanUseCase manages the loan lifecycle and loan interest accrual. Accrual
// uses the same day-stepping as account interest, but with a single rate
// and applied to the remaining principal instead of a ledger balance.
type LoanUseCase struct {
	txManager TransactionManager
	loanRepo  LoanRepository
	ledger    *LedgerUseCase
	idGen     IDGenerator
	clock     Clock
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	ledger *LedgerUseCase,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *LoanUseCase {
	return &LoanUseCase{
		txManager: txManager,
		loanRepo:  loanRepo,
		ledger:    ledger,
		idGen:     idGen,
		clock:     clock,
		logger:    logger,
		metrics:   m,
	}
}

// RequestInput represents a child's loan request.
type RequestInput struct {
	ChildID      string
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
}

// Request creates a loan in the requested state.
func (uc *LoanUseCase) Request(ctx context.Context, input RequestInput) (*domain.Loan, error) {
	now := uc.clock.Now()

	loan := &domain.Loan{
		ID:                 uc.idGen.Generate(),
		ChildID:            input.ChildID,
		PrincipalRemaining: input.Amount,
		InterestRate:       input.InterestRate,
		Status:             domain.LoanRequested,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	if err := uc.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// Get retrieves a loan by ID.
func (uc *LoanUseCase) Get(ctx context.Context, id string) (*domain.Loan, error) {
	return uc.loanRepo.GetByID(ctx, id)
}

// ListByChild returns a child's loans.
func (uc *LoanUseCase) ListByChild(ctx context.Context, childID string) ([]*domain.Loan, error) {
	return uc.loanRepo.ListByChild(ctx, childID)
}

// ListTransactions returns the interest and payment history of a loan.
func (uc *LoanUseCase) ListTransactions(ctx context.Context, loanID string) ([]*domain.LoanTransaction, error) {
	return uc.loanRepo.ListTransactions(ctx, loanID)
}

// Approve marks a requested loan as approved by a parent.
func (uc *LoanUseCase) Approve(ctx context.Context, loanID string) (*domain.Loan, error) {
	return uc.transition(ctx, loanID, domain.LoanRequested, domain.LoanApproved)
}

// Deny rejects a requested loan.
func (uc *LoanUseCase) Deny(ctx context.Context, loanID string) (*domain.Loan, error) {
	return uc.transition(ctx, loanID, domain.LoanRequested, domain.LoanDenied)
}

// Decline lets the child walk away from an approved loan.
func (uc *LoanUseCase) Decline(ctx context.Context, loanID string) (*domain.Loan, error) {
	return uc.transition(ctx, loanID, domain.LoanApproved, domain.LoanDeclined)
}

// Close administratively closes a loan regardless of remaining principal.
func (uc *LoanUseCase) Close(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := uc.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	loan.Status = domain.LoanClosed
	loan.UpdatedAt = uc.clock.Now()

	if err := uc.loanRepo.Update(ctx, nil, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

func (uc *LoanUseCase) transition(ctx context.Context, loanID string, from, to domain.LoanStatus) (*domain.Loan, error) {
	loan, err := uc.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status != from {
		return nil, domain.ErrInvalidLoanState
	}

	loan.Status = to
	loan.UpdatedAt = uc.clock.Now()

	if err := uc.loanRepo.Update(ctx, nil, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// Activate disburses an approved loan: the principal is credited to the
// child's account and interest starts accruing from today.
func (uc *LoanUseCase) Activate(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := uc.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status != domain.LoanApproved {
		return nil, domain.ErrInvalidLoanState
	}

	_, err = uc.ledger.PostEntry(ctx, PostEntryInput{
		ChildID:     loan.ChildID,
		Kind:        domain.EntryCredit,
		Amount:      loan.PrincipalRemaining,
		Memo:        fmt.Sprintf("Loan #%s disbursement", loan.ID),
		InitiatedBy: domain.InitiatedBySystem,
		Source:      domain.SourceLoan,
	})
	if err != nil {
		return nil, err
	}

	today := domain.DateOf(uc.clock.Now())

	loan.Status = domain.LoanActive
	// Interest accrues from activation, not from the request date.
	loan.LastInterestApplied = &today
	loan.UpdatedAt = uc.clock.Now()

	if err := uc.loanRepo.Update(ctx, nil, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// RecordPayment debits the child's account and reduces the loan principal.
// The loan closes automatically when the principal reaches zero.
func (uc *LoanUseCase) RecordPayment(ctx context.Context, loanID string, amount decimal.Decimal) (*domain.Loan, error) {
	loan, err := uc.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status != domain.LoanActive {
		return nil, domain.ErrInvalidLoanState
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	_, err = uc.ledger.PostEntry(ctx, PostEntryInput{
		ChildID:     loan.ChildID,
		Kind:        domain.EntryDebit,
		Amount:      amount,
		Memo:        fmt.Sprintf("Loan #%s payment", loan.ID),
		InitiatedBy: domain.InitiatedByChild,
		Source:      domain.SourceLoan,
	})
	if err != nil {
		return nil, err
	}

	ltx := &domain.LoanTransaction{
		ID:        uc.idGen.Generate(),
		LoanID:    loan.ID,
		Type:      domain.LoanTxPayment,
		Amount:    amount,
		Memo:      "Payment",
		Timestamp: uc.clock.Now(),
	}

	if err := uc.loanRepo.CreateTransaction(ctx, nil, ltx); err != nil {
		return nil, err
	}

	loan.PrincipalRemaining = loan.PrincipalRemaining.Sub(amount)
	if loan.PrincipalRemaining.LessThanOrEqual(decimal.Zero) {
		loan.PrincipalRemaining = decimal.Zero
		loan.Status = domain.LoanClosed
	}
	loan.UpdatedAt = uc.clock.Now()

	if err := uc.loanRepo.Update(ctx, nil, loan); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoanPayments.Inc()
	}

	return loan, nil
}

// Accrue catches a loan's interest up to today. One compounding interest
// transaction per elapsed day, each rounded to cents before it is added to
// the principal. No-op unless the loan is active.
func (uc *LoanUseCase) Accrue(ctx context.Context, loan *domain.Loan) error {
	if loan.Status != domain.LoanActive {
		return nil
	}

	today := domain.DateOf(uc.clock.Now())

	start := domain.DateOf(loan.CreatedAt)
	if loan.LastInterestApplied != nil {
		start = domain.DateOf(*loan.LastInterestApplied)
	}

	if !start.Before(today) {
		return nil
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for day := start; day.Before(today); day = day.AddDate(0, 0, 1) {
		interest := loan.PrincipalRemaining.Mul(loan.InterestRate).Round(2)
		if interest.IsZero() {
			continue
		}

		loan.PrincipalRemaining = loan.PrincipalRemaining.Add(interest)

		ltx := &domain.LoanTransaction{
			ID:        uc.idGen.Generate(),
			LoanID:    loan.ID,
			Type:      domain.LoanTxInterest,
			Amount:    interest,
			Memo:      MemoInterest,
			Timestamp: domain.NextDay(day),
		}

		if err := uc.loanRepo.CreateTransaction(ctx, tx, ltx); err != nil {
			return err
		}

		if uc.metrics != nil {
			uc.metrics.LoanInterestPosted.Inc()
		}
	}

	loan.LastInterestApplied = &today
	loan.UpdatedAt = uc.clock.Now()

	if err := uc.loanRepo.Update(ctx, tx, loan); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AccrueActive accrues every active loan, isolating failures per loan.
func (uc *LoanUseCase) AccrueActive(ctx context.Context) error {
	loans, err := uc.loanRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	for _, loan := range loans {
		if err := uc.Accrue(ctx, loan); err != nil {
			uc.logger.Error().
				Err(err).
				Str("loan_id", loan.ID).
				Str("child_id", loan.ChildID).
				Msg("failed to accrue loan interest")
		}
	}

	return nil
}
