package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/infrastructure/metrics"
)

// CDUseCase drives the certificate-of-deposit state machine:
// offered -> accepted -> redeemed (at maturity or early), or
// offered -> rejected. Redemption posts the payout entries and re-syncs
// accrual, since the payout changes the balance baseline for subsequent
// days.
type CDUseCase struct {
	txManager TransactionManager
	cdRepo    CDRepository
	ledger    *LedgerUseCase
	idGen     IDGenerator
	clock     Clock
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewCDUseCase creates a new CDUseCase.
func NewCDUseCase(
	txManager TransactionManager,
	cdRepo CDRepository,
	ledger *LedgerUseCase,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *CDUseCase {
	return &CDUseCase{
		txManager: txManager,
		cdRepo:    cdRepo,
		ledger:    ledger,
		idGen:     idGen,
		clock:     clock,
		logger:    logger,
		metrics:   m,
	}
}

// OfferInput represents a parent's certificate offer.
type OfferInput struct {
	ChildID      string
	ParentID     string
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	TermDays     int
}

// Offer creates a certificate in the offered state. No ledger effect until
// the child accepts.
func (uc *CDUseCase) Offer(ctx context.Context, input OfferInput) (*domain.CertificateDeposit, error) {
	cd := &domain.CertificateDeposit{
		ID:           uc.idGen.Generate(),
		ChildID:      input.ChildID,
		ParentID:     input.ParentID,
		Amount:       input.Amount,
		InterestRate: input.InterestRate,
		TermDays:     input.TermDays,
		Status:       domain.CDOffered,
		CreatedAt:    uc.clock.Now(),
	}

	if err := cd.Validate(); err != nil {
		return nil, err
	}

	if err := uc.cdRepo.Create(ctx, cd); err != nil {
		return nil, err
	}

	return cd, nil
}

// Get retrieves a certificate by ID.
func (uc *CDUseCase) Get(ctx context.Context, id string) (*domain.CertificateDeposit, error) {
	return uc.cdRepo.GetByID(ctx, id)
}

// ListByChild returns a child's certificates.
func (uc *CDUseCase) ListByChild(ctx context.Context, childID string) ([]*domain.CertificateDeposit, error) {
	return uc.cdRepo.ListByChild(ctx, childID)
}

// Accept locks the certificate's principal out of the child's balance.
// Requires balance >= amount; validation completes before any entry is
// posted so a rejected accept leaves no partial state.
func (uc *CDUseCase) Accept(ctx context.Context, cdID string) (*domain.CertificateDeposit, error) {
	cd, err := uc.cdRepo.GetByID(ctx, cdID)
	if err != nil {
		return nil, err
	}

	if cd.Status != domain.CDOffered {
		return nil, domain.ErrInvalidCDState
	}

	balance, err := uc.ledger.Balance(ctx, cd.ChildID)
	if err != nil {
		return nil, err
	}

	if balance.LessThan(cd.Amount) {
		return nil, domain.ErrInsufficientFunds
	}

	_, err = uc.ledger.PostEntry(ctx, PostEntryInput{
		ChildID:     cd.ChildID,
		Kind:        domain.EntryDebit,
		Amount:      cd.Amount,
		Memo:        fmt.Sprintf("CD #%s purchase", cd.ID),
		InitiatedBy: domain.InitiatedByChild,
		Source:      domain.SourceCD,
	})
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	matures := now.AddDate(0, 0, cd.TermDays)

	cd.Status = domain.CDAccepted
	cd.AcceptedAt = &now
	cd.MaturesAt = &matures

	if err := uc.cdRepo.Update(ctx, nil, cd); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CDsAccepted.Inc()
	}

	return cd, nil
}

// Reject declines an offered certificate. Terminal; no ledger effect.
func (uc *CDUseCase) Reject(ctx context.Context, cdID string) (*domain.CertificateDeposit, error) {
	cd, err := uc.cdRepo.GetByID(ctx, cdID)
	if err != nil {
		return nil, err
	}

	if cd.Status != domain.CDOffered {
		return nil, domain.ErrInvalidCDState
	}

	cd.Status = domain.CDRejected

	if err := uc.cdRepo.Update(ctx, nil, cd); err != nil {
		return nil, err
	}

	return cd, nil
}

// Redeem pays out an accepted certificate. A certificate past its maturity
// date (or forced with treatAsMature) pays principal plus the full-term
// interest; an early redemption returns the principal and charges the
// account's early-withdrawal penalty. Either way accrual is re-synced
// afterwards.
func (uc *CDUseCase) Redeem(ctx context.Context, cdID string, treatAsMature bool) (*domain.CertificateDeposit, error) {
	cd, err := uc.cdRepo.GetByID(ctx, cdID)
	if err != nil {
		return nil, err
	}

	if cd.Status != domain.CDAccepted {
		return nil, domain.ErrInvalidCDState
	}

	now := uc.clock.Now()
	matured := treatAsMature || cd.Matured(now)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if matured {
		if err := uc.payoutMature(ctx, tx, cd, now); err != nil {
			return nil, err
		}
	} else {
		if err := uc.payoutEarly(ctx, tx, cd); err != nil {
			return nil, err
		}
	}

	cd.Status = domain.CDRedeemed
	cd.RedeemedAt = &now

	if err := uc.cdRepo.Update(ctx, tx, cd); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// The payout changed the balance baseline; catch accrual and fees up
	// before anything else reads the account.
	if err := uc.ledger.PostTransactionUpdate(ctx, cd.ChildID); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		kind := "maturity"
		if !matured {
			kind = "early"
		}
		uc.metrics.CDsRedeemed.WithLabelValues(kind).Inc()
	}

	return cd, nil
}

func (uc *CDUseCase) payoutMature(ctx context.Context, tx Transaction, cd *domain.CertificateDeposit, now time.Time) error {
	// Sweep redemptions after downtime backdate the payout to the
	// maturity date, so the credit lands on the day it was earned and
	// subsequent accrual days see it.
	ts := now
	if cd.MaturesAt != nil && cd.MaturesAt.Before(now) {
		ts = *cd.MaturesAt
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		ChildID:     cd.ChildID,
		Kind:        domain.EntryCredit,
		Amount:      cd.MaturityPayout(),
		Memo:        fmt.Sprintf("CD #%s maturity", cd.ID),
		InitiatedBy: domain.InitiatedBySystem,
		Source:      domain.SourceCD,
		Timestamp:   ts,
	}

	return uc.ledger.entryRepo.Create(ctx, tx, entry)
}

func (uc *CDUseCase) payoutEarly(ctx context.Context, tx Transaction, cd *domain.CertificateDeposit) error {
	now := uc.clock.Now()

	principal := &domain.Entry{
		ID:          uc.idGen.Generate(),
		ChildID:     cd.ChildID,
		Kind:        domain.EntryCredit,
		Amount:      cd.Amount,
		Memo:        fmt.Sprintf("CD #%s early withdrawal", cd.ID),
		InitiatedBy: domain.InitiatedBySystem,
		Source:      domain.SourceCD,
		Timestamp:   now,
	}

	if err := uc.ledger.entryRepo.Create(ctx, tx, principal); err != nil {
		return err
	}

	penaltyRate := domain.DefaultSettings().DefaultCDPenaltyRate
	if account, err := uc.ledger.accountRepo.GetByChildID(ctx, cd.ChildID); err == nil {
		penaltyRate = account.CDPenaltyRate
	}

	penalty := cd.Amount.Mul(penaltyRate).Round(2)
	if penalty.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		ChildID:     cd.ChildID,
		Kind:        domain.EntryDebit,
		Amount:      penalty,
		Memo:        fmt.Sprintf("CD #%s early withdrawal penalty", cd.ID),
		InitiatedBy: domain.InitiatedBySystem,
		Source:      domain.SourceCD,
		Timestamp:   now,
	}

	return uc.ledger.entryRepo.Create(ctx, tx, entry)
}

// RedeemMatured sweeps all accepted certificates whose maturity date has
// passed. Failures are logged per certificate and the sweep continues, so
// one broken record cannot block the rest.
func (uc *CDUseCase) RedeemMatured(ctx context.Context) error {
	cds, err := uc.cdRepo.ListMatured(ctx, uc.clock.Now())
	if err != nil {
		return err
	}

	for _, cd := range cds {
		if _, err := uc.Redeem(ctx, cd.ID, false); err != nil {
			uc.logger.Error().
				Err(err).
				Str("cd_id", cd.ID).
				Str("child_id", cd.ChildID).
				Msg("failed to redeem matured certificate")
		}
	}

	return nil
}
