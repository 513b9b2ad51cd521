package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind is the direction of a ledger entry.
type EntryKind string

const (
	EntryCredit EntryKind = "credit"
	EntryDebit  EntryKind = "debit"
)

// EntrySource identifies which engine posted a system entry. Manual entries
// come from deposit/withdrawal handlers; everything else is machine-posted.
type EntrySource string

const (
	SourceManual          EntrySource = "manual"
	SourceInterestAccrual EntrySource = "interest_accrual"
	SourceServiceFee      EntrySource = "service_fee"
	SourceOverdraftFee    EntrySource = "overdraft_fee"
	SourceCD              EntrySource = "cd"
	SourceLoan            EntrySource = "loan"
	SourceRecurring       EntrySource = "recurring"
	SourcePromotion       EntrySource = "promotion"
)

// Origin tags for who initiated an entry.
const (
	InitiatedByParent = "parent"
	InitiatedByChild  = "child"
	InitiatedBySystem = "system"
)

// Entry is a single immutable ledger entry on a child's account. The balance
// of an account is the signed sum of its entries; nothing else is
// authoritative.
type Entry struct {
	ID          string
	ChildID     string
	Kind        EntryKind
	Amount      decimal.Decimal
	Memo        string
	InitiatedBy string
	Source      EntrySource
	// PeriodDate tags system entries with the accrual day they cover,
	// so duplicate postings can be detected without memo matching.
	PeriodDate *time.Time
	Timestamp  time.Time
}

// Validate checks the entry before it is appended to the ledger.
func (e *Entry) Validate() error {
	if e.Kind != EntryCredit && e.Kind != EntryDebit {
		return ErrInvalidEntryKind
	}

	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// Signed returns the amount with its direction applied: positive for
// credits, negative for debits.
func (e *Entry) Signed() decimal.Decimal {
	if e.Kind == EntryDebit {
		return e.Amount.Neg()
	}

	return e.Amount
}
