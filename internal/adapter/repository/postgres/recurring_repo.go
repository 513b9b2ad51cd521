package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

// RecurringChargeRepository implements usecase.RecurringChargeRepository.
type RecurringChargeRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringChargeRepository creates a new RecurringChargeRepository.
func NewRecurringChargeRepository(pool *pgxpool.Pool) *RecurringChargeRepository {
	return &RecurringChargeRepository{pool: pool}
}

const chargeColumns = `id, child_id, amount, kind, memo, interval_days,
	next_run, active, created_at, updated_at`

// Create persists a recurring charge definition.
func (r *RecurringChargeRepository) Create(ctx context.Context, rc *domain.RecurringCharge) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO recurring_charges (`+chargeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rc.ID,
		rc.ChildID,
		decimalToNumeric(rc.Amount),
		string(rc.Kind),
		rc.Memo,
		rc.IntervalDays,
		timeToPgTimestamptz(rc.NextRun),
		rc.Active,
		timeToPgTimestamptz(rc.CreatedAt),
		timeToPgTimestamptz(rc.UpdatedAt),
	)

	return err
}

// GetByID retrieves a charge by ID.
func (r *RecurringChargeRepository) GetByID(ctx context.Context, id string) (*domain.RecurringCharge, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+chargeColumns+`
		FROM recurring_charges
		WHERE id = $1`,
		id,
	)

	rc, err := scanCharge(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChargeNotFound
		}

		return nil, err
	}

	return rc, nil
}

// Update persists schedule and activation changes.
func (r *RecurringChargeRepository) Update(ctx context.Context, tx usecase.Transaction, rc *domain.RecurringCharge) error {
	_, err := unwrap(r.pool, tx).Exec(ctx, `
		UPDATE recurring_charges
		SET amount = $2, kind = $3, memo = $4, interval_days = $5,
			next_run = $6, active = $7, updated_at = $8
		WHERE id = $1`,
		rc.ID,
		decimalToNumeric(rc.Amount),
		string(rc.Kind),
		rc.Memo,
		rc.IntervalDays,
		timeToPgTimestamptz(rc.NextRun),
		rc.Active,
		timeToPgTimestamptz(rc.UpdatedAt),
	)

	return err
}

// Delete removes a charge definition.
func (r *RecurringChargeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recurring_charges WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrChargeNotFound
	}

	return nil
}

// ListByChild returns a child's charges.
func (r *RecurringChargeRepository) ListByChild(ctx context.Context, childID string) ([]*domain.RecurringCharge, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+chargeColumns+`
		FROM recurring_charges
		WHERE child_id = $1
		ORDER BY created_at, id`,
		childID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCharges(rows)
}

// ListDue returns active charges whose next run is at or before today.
func (r *RecurringChargeRepository) ListDue(ctx context.Context, today time.Time) ([]*domain.RecurringCharge, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+chargeColumns+`
		FROM recurring_charges
		WHERE active AND next_run <= $1
		ORDER BY next_run, id`,
		timeToPgTimestamptz(today),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCharges(rows)
}

func collectCharges(rows pgx.Rows) ([]*domain.RecurringCharge, error) {
	var charges []*domain.RecurringCharge
	for rows.Next() {
		rc, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, rc)
	}

	return charges, rows.Err()
}

func scanCharge(row pgx.Row) (*domain.RecurringCharge, error) {
	var (
		rc     domain.RecurringCharge
		kind   string
		amount pgtype.Numeric
	)

	err := row.Scan(
		&rc.ID,
		&rc.ChildID,
		&amount,
		&kind,
		&rc.Memo,
		&rc.IntervalDays,
		&rc.NextRun,
		&rc.Active,
		&rc.CreatedAt,
		&rc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rc.Kind = domain.EntryKind(kind)
	rc.Amount = numericToDecimal(amount)

	return &rc, nil
}
