package dto

import (
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

// CreateAccountRequest opens a ledger account for a child.
type CreateAccountRequest struct {
	ChildID string `json:"child_id"`
}

// SetRatesRequest patches one or more of an account's rates. Absent fields
// are left unchanged.
type SetRatesRequest struct {
	InterestRate        *decimal.Decimal `json:"interest_rate,omitempty"`
	PenaltyInterestRate *decimal.Decimal `json:"penalty_interest_rate,omitempty"`
	CDPenaltyRate       *decimal.Decimal `json:"cd_penalty_rate,omitempty"`
}

// SetFrozenRequest freezes or unfreezes an account.
type SetFrozenRequest struct {
	Frozen bool `json:"frozen"`
}

// PostEntryRequest appends an entry to a child's ledger.
type PostEntryRequest struct {
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo"`
	InitiatedBy string          `json:"initiated_by"`
}

// ToUseCaseInput converts to use case input.
func (r *PostEntryRequest) ToUseCaseInput(childID string) usecase.PostEntryInput {
	return usecase.PostEntryInput{
		ChildID:     childID,
		Kind:        domain.EntryKind(r.Kind),
		Amount:      r.Amount,
		Memo:        r.Memo,
		InitiatedBy: r.InitiatedBy,
	}
}

// UpdateEntryRequest administratively patches a posted entry. Absent
// fields are left unchanged.
type UpdateEntryRequest struct {
	Kind   *string          `json:"kind,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Memo   *string          `json:"memo,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput() usecase.UpdateEntryInput {
	patch := usecase.UpdateEntryInput{
		Amount: r.Amount,
		Memo:   r.Memo,
	}
	if r.Kind != nil {
		kind := domain.EntryKind(*r.Kind)
		patch.Kind = &kind
	}

	return patch
}

// OfferCDRequest is a parent offering a certificate of deposit.
type OfferCDRequest struct {
	ChildID      string          `json:"child_id"`
	ParentID     string          `json:"parent_id"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TermDays     int             `json:"term_days"`
}

// ToUseCaseInput converts to use case input.
func (r *OfferCDRequest) ToUseCaseInput() usecase.OfferInput {
	return usecase.OfferInput{
		ChildID:      r.ChildID,
		ParentID:     r.ParentID,
		Amount:       r.Amount,
		InterestRate: r.InterestRate,
		TermDays:     r.TermDays,
	}
}

// RequestLoanRequest is a child asking for a loan.
type RequestLoanRequest struct {
	ChildID      string          `json:"child_id"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// ToUseCaseInput converts to use case input.
func (r *RequestLoanRequest) ToUseCaseInput() usecase.RequestInput {
	return usecase.RequestInput{
		ChildID:      r.ChildID,
		Amount:       r.Amount,
		InterestRate: r.InterestRate,
	}
}

// LoanPaymentRequest records a repayment against a loan.
type LoanPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreateChargeRequest registers a recurring charge.
type CreateChargeRequest struct {
	ChildID      string          `json:"child_id"`
	Amount       decimal.Decimal `json:"amount"`
	Kind         string          `json:"kind"`
	Memo         string          `json:"memo"`
	IntervalDays int             `json:"interval_days"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateChargeRequest) ToUseCaseInput() usecase.CreateChargeInput {
	return usecase.CreateChargeInput{
		ChildID:      r.ChildID,
		Amount:       r.Amount,
		Kind:         domain.EntryKind(r.Kind),
		Memo:         r.Memo,
		IntervalDays: r.IntervalDays,
	}
}

// SetChargeActiveRequest pauses or resumes a recurring charge.
type SetChargeActiveRequest struct {
	Active bool `json:"active"`
}

// PromotionRequest applies a one-off credit or debit to every account.
type PromotionRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	IsPercentage bool            `json:"is_percentage"`
	Credit       bool            `json:"credit"`
	Memo         string          `json:"memo"`
}

// UpdateSettingsRequest replaces the site-wide settings.
type UpdateSettingsRequest struct {
	SiteName                   string          `json:"site_name"`
	CurrencySymbol             string          `json:"currency_symbol"`
	DefaultInterestRate        decimal.Decimal `json:"default_interest_rate"`
	DefaultPenaltyInterestRate decimal.Decimal `json:"default_penalty_interest_rate"`
	DefaultCDPenaltyRate       decimal.Decimal `json:"default_cd_penalty_rate"`
	ServiceFeeAmount           decimal.Decimal `json:"service_fee_amount"`
	ServiceFeeIsPercentage     bool            `json:"service_fee_is_percentage"`
	OverdraftFeeAmount         decimal.Decimal `json:"overdraft_fee_amount"`
	OverdraftFeeIsPercentage   bool            `json:"overdraft_fee_is_percentage"`
	OverdraftFeeDaily          bool            `json:"overdraft_fee_daily"`
}

// ToDomain converts to the domain settings record.
func (r *UpdateSettingsRequest) ToDomain() *domain.Settings {
	return &domain.Settings{
		SiteName:                   r.SiteName,
		CurrencySymbol:             r.CurrencySymbol,
		DefaultInterestRate:        r.DefaultInterestRate,
		DefaultPenaltyInterestRate: r.DefaultPenaltyInterestRate,
		DefaultCDPenaltyRate:       r.DefaultCDPenaltyRate,
		ServiceFeeAmount:           r.ServiceFeeAmount,
		ServiceFeeIsPercentage:     r.ServiceFeeIsPercentage,
		OverdraftFeeAmount:         r.OverdraftFeeAmount,
		OverdraftFeeIsPercentage:   r.OverdraftFeeIsPercentage,
		OverdraftFeeDaily:          r.OverdraftFeeDaily,
	}
}
