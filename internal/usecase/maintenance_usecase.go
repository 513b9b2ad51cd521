package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/infrastructure/metrics"
)

// MaintenanceUseCase runs the daily sweep: recurring charges, then per
// account interest and fees, then matured CDs, then loan accrual. A
// failing account is logged and skipped so one bad row cannot stall the
// rest of the sweep.
type MaintenanceUseCase struct {
	accountRepo  AccountRepository
	settingsRepo SettingsRepository
	interest     *InterestUseCase
	fees         *FeeUseCase
	cds          *CDUseCase
	loans        *LoanUseCase
	recurring    *RecurringUseCase
	clock        Clock
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// NewMaintenanceUseCase creates a new MaintenanceUseCase.
func NewMaintenanceUseCase(
	accountRepo AccountRepository,
	settingsRepo SettingsRepository,
	interest *InterestUseCase,
	fees *FeeUseCase,
	cds *CDUseCase,
	loans *LoanUseCase,
	recurring *RecurringUseCase,
	clock Clock,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *MaintenanceUseCase {
	return &MaintenanceUseCase{
		accountRepo:  accountRepo,
		settingsRepo: settingsRepo,
		interest:     interest,
		fees:         fees,
		cds:          cds,
		loans:        loans,
		recurring:    recurring,
		clock:        clock,
		logger:       logger,
		metrics:      m,
	}
}

// RunDaily executes one full maintenance pass. Recurring charges post
// first so the day's accrual sees them; CD maturity runs after accrual so
// matured payouts land on an already caught-up ledger.
func (uc *MaintenanceUseCase) RunDaily(ctx context.Context) error {
	start := uc.clock.Now()
	result := "ok"

	defer func() {
		if uc.metrics != nil {
			uc.metrics.MaintenanceRuns.WithLabelValues(result).Inc()
			uc.metrics.MaintenanceDuration.Observe(uc.clock.Now().Sub(start).Seconds())
		}
	}()

	uc.logger.Info().Time("started_at", start).Msg("maintenance sweep started")

	if err := uc.recurring.ProcessDue(ctx); err != nil {
		result = "error"
		return err
	}

	if err := uc.sweepAccounts(ctx); err != nil {
		result = "error"
		return err
	}

	if err := uc.cds.RedeemMatured(ctx); err != nil {
		result = "error"
		return err
	}

	if err := uc.loans.AccrueActive(ctx); err != nil {
		result = "error"
		return err
	}

	uc.logger.Info().
		Dur("elapsed", uc.clock.Now().Sub(start)).
		Msg("maintenance sweep finished")

	return nil
}

func (uc *MaintenanceUseCase) sweepAccounts(ctx context.Context) error {
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return err
	}

	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		if err := uc.sweepAccount(ctx, account, settings); err != nil {
			if uc.metrics != nil {
				uc.metrics.AccountSweepErrors.Inc()
			}

			uc.logger.Error().
				Err(err).
				Str("child_id", account.ChildID).
				Msg("account sweep failed")
		}
	}

	return nil
}

func (uc *MaintenanceUseCase) sweepAccount(ctx context.Context, account *domain.Account, settings *domain.Settings) error {
	ctx, cancel := context.WithTimeout(ctx, AccountSweepTimeout)
	defer cancel()

	if err := uc.interest.Accrue(ctx, account); err != nil {
		return err
	}

	if err := uc.fees.ApplyServiceFee(ctx, account, settings); err != nil {
		return err
	}

	return uc.fees.ApplyOverdraftFee(ctx, account, settings)
}
