package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. Listing orders by
// timestamp with the entry ID as tie-break so day-step replay is
// deterministic; balances are signed sums computed in SQL.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `id, child_id, kind, amount, memo, initiated_by, source,
	period_date, entry_time`

// signedSum folds credits positive and debits negative.
const signedSum = `COALESCE(SUM(CASE WHEN kind = 'credit' THEN amount ELSE -amount END), 0)`

// Create appends an entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	_, err := unwrap(r.pool, tx).Exec(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID,
		entry.ChildID,
		string(entry.Kind),
		decimalToNumeric(entry.Amount),
		entry.Memo,
		entry.InitiatedBy,
		string(entry.Source),
		timePtrToPgTimestamptz(entry.PeriodDate),
		timeToPgTimestamptz(entry.Timestamp),
	)

	return err
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE id = $1`,
		id,
	)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return entry, nil
}

// Update overrides a posted entry's mutable fields.
func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE entries
		SET kind = $2, amount = $3, memo = $4
		WHERE id = $1`,
		entry.ID,
		string(entry.Kind),
		decimalToNumeric(entry.Amount),
		entry.Memo,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// ListByChild returns a child's entries in replay order, optionally
// restricted to entries at or after since.
func (r *EntryRepository) ListByChild(ctx context.Context, childID string, since *time.Time) ([]*domain.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE child_id = $1`
	args := []any{childID}

	if since != nil {
		query += ` AND entry_time >= $2`
		args = append(args, timeToPgTimestamptz(*since))
	}

	query += ` ORDER BY entry_time, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SumBefore returns the signed sum of entries strictly before t.
func (r *EntryRepository) SumBefore(ctx context.Context, childID string, t time.Time) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx, `
		SELECT `+signedSum+`
		FROM entries
		WHERE child_id = $1 AND entry_time < $2`,
		childID,
		timeToPgTimestamptz(t),
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// BalanceAsOf returns the signed sum of entries up to and including asOf;
// a nil asOf sums the full ledger.
func (r *EntryRepository) BalanceAsOf(ctx context.Context, childID string, asOf *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT ` + signedSum + `
		FROM entries
		WHERE child_id = $1`
	args := []any{childID}

	if asOf != nil {
		query += ` AND entry_time <= $2`
		args = append(args, timeToPgTimestamptz(*asOf))
	}

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// FirstEntryTime returns the timestamp of the oldest entry, or nil for an
// empty ledger.
func (r *EntryRepository) FirstEntryTime(ctx context.Context, childID string) (*time.Time, error) {
	var first pgtype.Timestamptz

	err := r.pool.QueryRow(ctx, `
		SELECT MIN(entry_time)
		FROM entries
		WHERE child_id = $1`,
		childID,
	).Scan(&first)
	if err != nil {
		return nil, err
	}

	return pgTimestamptzToTimePtr(first), nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry      domain.Entry
		kind       string
		source     string
		amount     pgtype.Numeric
		periodDate pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.ChildID,
		&kind,
		&amount,
		&entry.Memo,
		&entry.InitiatedBy,
		&source,
		&periodDate,
		&entry.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	entry.Kind = domain.EntryKind(kind)
	entry.Source = domain.EntrySource(source)
	entry.Amount = numericToDecimal(amount)
	entry.PeriodDate = pgTimestamptzToTimePtr(periodDate)

	return &entry, nil
}
