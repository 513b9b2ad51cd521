package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
)

// AccountUseCase manages account records and rate changes. Rate changes
// run interest catch-up first so the new rate only governs future
// day-steps; interest already posted is never recomputed.
type AccountUseCase struct {
	accountRepo  AccountRepository
	settingsRepo SettingsRepository
	interest     *InterestUseCase
	idGen        IDGenerator
	clock        Clock
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	settingsRepo SettingsRepository,
	interest *InterestUseCase,
	idGen IDGenerator,
	clock Clock,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo:  accountRepo,
		settingsRepo: settingsRepo,
		interest:     interest,
		idGen:        idGen,
		clock:        clock,
	}
}

// CreateAccount creates the ledger account for a child, seeded from the
// settings defaults. Called exactly once, at child-creation time.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, childID string) (*domain.Account, error) {
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	account := &domain.Account{
		ID:                  uc.idGen.Generate(),
		ChildID:             childID,
		InterestRate:        settings.DefaultInterestRate,
		PenaltyInterestRate: settings.DefaultPenaltyInterestRate,
		CDPenaltyRate:       settings.DefaultCDPenaltyRate,
		TotalInterestEarned: decimal.Zero,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves the account for a child.
func (uc *AccountUseCase) GetAccount(ctx context.Context, childID string) (*domain.Account, error) {
	return uc.accountRepo.GetByChildID(ctx, childID)
}

// ListAccounts returns every account.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx)
}

// SetInterestRate updates the positive-balance daily rate.
func (uc *AccountUseCase) SetInterestRate(ctx context.Context, childID string, rate decimal.Decimal) (*domain.Account, error) {
	return uc.setRate(ctx, childID, func(a *domain.Account) { a.InterestRate = rate })
}

// SetPenaltyInterestRate updates the negative-balance daily rate.
func (uc *AccountUseCase) SetPenaltyInterestRate(ctx context.Context, childID string, rate decimal.Decimal) (*domain.Account, error) {
	return uc.setRate(ctx, childID, func(a *domain.Account) { a.PenaltyInterestRate = rate })
}

// SetCDPenaltyRate updates the early-withdrawal penalty fraction.
func (uc *AccountUseCase) SetCDPenaltyRate(ctx context.Context, childID string, rate decimal.Decimal) (*domain.Account, error) {
	return uc.setRate(ctx, childID, func(a *domain.Account) { a.CDPenaltyRate = rate })
}

func (uc *AccountUseCase) setRate(ctx context.Context, childID string, apply func(*domain.Account)) (*domain.Account, error) {
	// Catch accrual up under the old rate before the change takes
	// effect; the new rate is never retroactive.
	if err := uc.interest.AccrueChild(ctx, childID); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByChildID(ctx, childID)
	if err != nil {
		return nil, err
	}

	apply(account)
	account.UpdatedAt = uc.clock.Now()

	if err := uc.accountRepo.Update(ctx, nil, account); err != nil {
		return nil, err
	}

	return account, nil
}

// SetFrozen freezes or unfreezes an account. External posts are rejected
// while frozen; accrual and fees continue to run.
func (uc *AccountUseCase) SetFrozen(ctx context.Context, childID string, frozen bool) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByChildID(ctx, childID)
	if err != nil {
		return nil, err
	}

	account.Frozen = frozen
	account.UpdatedAt = uc.clock.Now()

	if err := uc.accountRepo.Update(ctx, nil, account); err != nil {
		return nil, err
	}

	return account, nil
}
