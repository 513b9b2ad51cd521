package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a child's ledger configuration: interest rates and the
// checkpoint fields the accrual engines advance. Balances are never stored
// here; they are always derived from the entry log.
type Account struct {
	ID      string
	ChildID string
	Frozen  bool

	// InterestRate is the daily rate applied to non-negative balances.
	InterestRate decimal.Decimal
	// PenaltyInterestRate is the daily rate applied while the balance is
	// negative.
	PenaltyInterestRate decimal.Decimal
	// CDPenaltyRate is the fraction of principal forfeited on early
	// certificate redemption.
	CDPenaltyRate decimal.Decimal

	// LastInterestApplied is the date through which interest has been
	// fully accrued. Accrual never reapplies days before it.
	LastInterestApplied *time.Time
	// TotalInterestEarned is a running informational sum of interest
	// posted (negative interest subtracts).
	TotalInterestEarned decimal.Decimal

	ServiceFeeLastCharged   *time.Time
	OverdraftFeeLastCharged *time.Time
	// OverdraftFeeCharged latches the one-time overdraft fee until the
	// balance returns non-negative.
	OverdraftFeeCharged bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PickRate selects the daily rate for a day-step given the running balance
// at the end of that day.
func (a *Account) PickRate(balance decimal.Decimal) decimal.Decimal {
	if balance.IsNegative() {
		return a.PenaltyInterestRate
	}

	return a.InterestRate
}
