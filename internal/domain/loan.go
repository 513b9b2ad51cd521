package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanRequested LoanStatus = "requested"
	LoanApproved  LoanStatus = "approved"
	LoanActive    LoanStatus = "active"
	LoanDenied    LoanStatus = "denied"
	LoanDeclined  LoanStatus = "declined"
	LoanClosed    LoanStatus = "closed"
)

// Loan is money lent to a child. Interest compounds daily onto the
// remaining principal using the same day-stepping as account accrual, with
// its own checkpoint.
type Loan struct {
	ID                 string
	ChildID            string
	PrincipalRemaining decimal.Decimal
	InterestRate       decimal.Decimal
	Status             LoanStatus
	// LastInterestApplied is the date through which loan interest has
	// been accrued. nil until activation.
	LastInterestApplied *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate checks a loan request before it is persisted.
func (l *Loan) Validate() error {
	if l.PrincipalRemaining.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// LoanTransaction types.
const (
	LoanTxInterest = "interest"
	LoanTxPayment  = "payment"
)

// LoanTransaction records an event against a loan: accrued interest or a
// repayment.
type LoanTransaction struct {
	ID        string
	LoanID    string
	Type      string
	Amount    decimal.Decimal
	Memo      string
	Timestamp time.Time
}
