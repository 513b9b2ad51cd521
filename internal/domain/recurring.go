package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringCharge posts a repeating ledger entry every IntervalDays.
// NextRun is the date the next posting becomes due; the scheduler advances
// it in a loop so several missed periods are caught up in one pass.
type RecurringCharge struct {
	ID           string
	ChildID      string
	Amount       decimal.Decimal
	Kind         EntryKind
	Memo         string
	IntervalDays int
	NextRun      time.Time
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks a charge definition.
func (rc *RecurringCharge) Validate() error {
	if rc.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if rc.Kind != EntryCredit && rc.Kind != EntryDebit {
		return ErrInvalidEntryKind
	}

	if rc.IntervalDays <= 0 {
		return ErrInvalidInterval
	}

	return nil
}

// Due reports whether the charge should post for the given day.
func (rc *RecurringCharge) Due(today time.Time) bool {
	return rc.Active && !DateOf(rc.NextRun).After(DateOf(today))
}
