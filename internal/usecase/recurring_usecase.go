package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/infrastructure/metrics"
)

// RecurringUseCase manages recurring charge definitions and posts the
// entries that fall due. A charge that missed several periods posts one
// entry per missed period in a single pass.
type RecurringUseCase struct {
	chargeRepo RecurringChargeRepository
	ledger     *LedgerUseCase
	idGen      IDGenerator
	clock      Clock
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// NewRecurringUseCase creates a new RecurringUseCase.
func NewRecurringUseCase(
	chargeRepo RecurringChargeRepository,
	ledger *LedgerUseCase,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *RecurringUseCase {
	return &RecurringUseCase{
		chargeRepo: chargeRepo,
		ledger:     ledger,
		idGen:      idGen,
		clock:      clock,
		logger:     logger,
		metrics:    m,
	}
}

// CreateChargeInput defines a new recurring charge.
type CreateChargeInput struct {
	ChildID      string
	Amount       decimal.Decimal
	Kind         domain.EntryKind
	Memo         string
	IntervalDays int
}

// Create registers a recurring charge. The first posting is due one full
// interval after creation.
func (uc *RecurringUseCase) Create(ctx context.Context, input CreateChargeInput) (*domain.RecurringCharge, error) {
	now := uc.clock.Now()

	charge := &domain.RecurringCharge{
		ID:           uc.idGen.Generate(),
		ChildID:      input.ChildID,
		Amount:       input.Amount,
		Kind:         input.Kind,
		Memo:         input.Memo,
		IntervalDays: input.IntervalDays,
		NextRun:      domain.DateOf(now).AddDate(0, 0, input.IntervalDays),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := charge.Validate(); err != nil {
		return nil, err
	}

	if err := uc.chargeRepo.Create(ctx, charge); err != nil {
		return nil, err
	}

	return charge, nil
}

// Get retrieves a recurring charge by ID.
func (uc *RecurringUseCase) Get(ctx context.Context, id string) (*domain.RecurringCharge, error) {
	return uc.chargeRepo.GetByID(ctx, id)
}

// ListByChild returns a child's recurring charges.
func (uc *RecurringUseCase) ListByChild(ctx context.Context, childID string) ([]*domain.RecurringCharge, error) {
	return uc.chargeRepo.ListByChild(ctx, childID)
}

// SetActive pauses or resumes a charge. A paused charge does not post and
// does not accumulate missed periods: NextRun moves forward on resume.
func (uc *RecurringUseCase) SetActive(ctx context.Context, id string, active bool) (*domain.RecurringCharge, error) {
	charge, err := uc.chargeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()

	if active && !charge.Active {
		charge.NextRun = domain.DateOf(now).AddDate(0, 0, charge.IntervalDays)
	}

	charge.Active = active
	charge.UpdatedAt = now

	if err := uc.chargeRepo.Update(ctx, nil, charge); err != nil {
		return nil, err
	}

	return charge, nil
}

// Delete removes a recurring charge definition. Entries already posted by
// it stay in the ledger.
func (uc *RecurringUseCase) Delete(ctx context.Context, id string) error {
	return uc.chargeRepo.Delete(ctx, id)
}

// ProcessDue posts every due period of every active charge. Each missed
// period gets its own ledger entry; NextRun advances by IntervalDays per
// posting until it passes today. Failures are isolated per charge.
func (uc *RecurringUseCase) ProcessDue(ctx context.Context) error {
	today := domain.DateOf(uc.clock.Now())

	charges, err := uc.chargeRepo.ListDue(ctx, today)
	if err != nil {
		return err
	}

	for _, charge := range charges {
		if err := uc.processCharge(ctx, charge, today); err != nil {
			uc.logger.Error().
				Err(err).
				Str("charge_id", charge.ID).
				Str("child_id", charge.ChildID).
				Msg("failed to process recurring charge")
		}
	}

	return nil
}

func (uc *RecurringUseCase) processCharge(ctx context.Context, charge *domain.RecurringCharge, today time.Time) error {
	for charge.Due(today) {
		periodDate := domain.DateOf(charge.NextRun)

		_, err := uc.ledger.PostEntry(ctx, PostEntryInput{
			ChildID:     charge.ChildID,
			Kind:        charge.Kind,
			Amount:      charge.Amount,
			Memo:        charge.Memo,
			InitiatedBy: domain.InitiatedBySystem,
			Source:      domain.SourceRecurring,
			PeriodDate:  &periodDate,
		})
		if err != nil {
			return err
		}

		charge.NextRun = charge.NextRun.AddDate(0, 0, charge.IntervalDays)

		if uc.metrics != nil {
			uc.metrics.RecurringChargesPosted.Inc()
		}
	}

	charge.UpdatedAt = uc.clock.Now()

	return uc.chargeRepo.Update(ctx, nil, charge)
}
