package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. This prevents long-running transactions from blocking
	// tables.
	DefaultTransactionTimeout = 10 * time.Second

	// AccountSweepTimeout bounds the full maintenance pass for a single
	// account so one corrupt account cannot stall the whole batch.
	AccountSweepTimeout = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)

// Fixed memos carried on system entries. Display-only; idempotence relies
// on the source and period_date tags, not on these strings.
const (
	MemoInterest     = "Interest"
	MemoServiceFee   = "Service Fee"
	MemoOverdraftFee = "Overdraft Fee"
	MemoPromotion    = "Promotion"
)

// SystemClock implements Clock with the real wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
