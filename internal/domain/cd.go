package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CDStatus is the lifecycle state of a certificate of deposit.
type CDStatus string

const (
	CDOffered  CDStatus = "offered"
	CDAccepted CDStatus = "accepted"
	CDRejected CDStatus = "rejected"
	CDRedeemed CDStatus = "redeemed"
)

// CertificateDeposit is a fixed-term deposit offered by a parent. The child
// accepts it by locking away part of their balance; at maturity the
// principal plus interest is credited back.
type CertificateDeposit struct {
	ID           string
	ChildID      string
	ParentID     string
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	TermDays     int
	Status       CDStatus
	CreatedAt    time.Time
	AcceptedAt   *time.Time
	MaturesAt    *time.Time
	RedeemedAt   *time.Time
}

// Validate checks an offer before it is persisted.
func (cd *CertificateDeposit) Validate() error {
	if cd.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if cd.TermDays <= 0 {
		return ErrInvalidTerm
	}
	if cd.InterestRate.IsNegative() {
		return ErrInvalidRate
	}

	return nil
}

// Matured reports whether the certificate has reached its maturity date.
func (cd *CertificateDeposit) Matured(now time.Time) bool {
	return cd.MaturesAt != nil && !now.Before(*cd.MaturesAt)
}

// MaturityPayout is principal plus the full-term interest, rounded to
// cents.
func (cd *CertificateDeposit) MaturityPayout() decimal.Decimal {
	one := decimal.NewFromInt(1)

	return cd.Amount.Mul(one.Add(cd.InterestRate)).Round(2)
}
