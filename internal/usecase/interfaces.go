package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByChildID(ctx context.Context, childID string) (*domain.Account, error)
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	List(ctx context.Context) ([]*domain.Account, error)
}

// EntryRepository defines data access for ledger entries. ListByChild must
// return entries ordered by timestamp ascending with entry ID as the
// tie-break, so replay over same-timestamp entries is deterministic.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	Update(ctx context.Context, entry *domain.Entry) error
	Delete(ctx context.Context, id string) error
	ListByChild(ctx context.Context, childID string, since *time.Time) ([]*domain.Entry, error)
	// SumBefore returns the signed sum of entries strictly before t.
	SumBefore(ctx context.Context, childID string, t time.Time) (decimal.Decimal, error)
	// BalanceAsOf returns the signed sum of entries with timestamp <= asOf.
	// A nil asOf means the full ledger.
	BalanceAsOf(ctx context.Context, childID string, asOf *time.Time) (decimal.Decimal, error)
	// FirstEntryTime returns the timestamp of the oldest entry, or nil
	// when the ledger is empty.
	FirstEntryTime(ctx context.Context, childID string) (*time.Time, error)
}

// CDRepository defines data access for certificates of deposit.
type CDRepository interface {
	Create(ctx context.Context, cd *domain.CertificateDeposit) error
	GetByID(ctx context.Context, id string) (*domain.CertificateDeposit, error)
	Update(ctx context.Context, tx Transaction, cd *domain.CertificateDeposit) error
	ListByChild(ctx context.Context, childID string) ([]*domain.CertificateDeposit, error)
	// ListMatured returns accepted certificates whose maturity date is at
	// or before now.
	ListMatured(ctx context.Context, now time.Time) ([]*domain.CertificateDeposit, error)
}

// LoanRepository defines data access for loans and loan transactions.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	Update(ctx context.Context, tx Transaction, loan *domain.Loan) error
	ListByChild(ctx context.Context, childID string) ([]*domain.Loan, error)
	ListActive(ctx context.Context) ([]*domain.Loan, error)
	CreateTransaction(ctx context.Context, tx Transaction, ltx *domain.LoanTransaction) error
	ListTransactions(ctx context.Context, loanID string) ([]*domain.LoanTransaction, error)
}

// RecurringChargeRepository defines data access for recurring charges.
type RecurringChargeRepository interface {
	Create(ctx context.Context, rc *domain.RecurringCharge) error
	GetByID(ctx context.Context, id string) (*domain.RecurringCharge, error)
	Update(ctx context.Context, tx Transaction, rc *domain.RecurringCharge) error
	Delete(ctx context.Context, id string) error
	ListByChild(ctx context.Context, childID string) ([]*domain.RecurringCharge, error)
	// ListDue returns active charges with next_run at or before today.
	ListDue(ctx context.Context, today time.Time) ([]*domain.RecurringCharge, error)
}

// SettingsRepository provides the singleton settings record.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time. Injected so the accrual engines'
// notion of "today" is controllable in tests.
type Clock interface {
	Now() time.Time
}

// IdempotencyStore handles idempotency key storage for the write path.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
