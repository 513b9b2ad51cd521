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

// CDRepository implements usecase.CDRepository.
type CDRepository struct {
	pool *pgxpool.Pool
}

// NewCDRepository creates a new CDRepository.
func NewCDRepository(pool *pgxpool.Pool) *CDRepository {
	return &CDRepository{pool: pool}
}

const cdColumns = `id, child_id, parent_id, amount, interest_rate, term_days,
	status, created_at, accepted_at, matures_at, redeemed_at`

// Create persists a new certificate offer.
func (r *CDRepository) Create(ctx context.Context, cd *domain.CertificateDeposit) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO certificates (`+cdColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		cd.ID,
		cd.ChildID,
		cd.ParentID,
		decimalToNumeric(cd.Amount),
		decimalToNumeric(cd.InterestRate),
		cd.TermDays,
		string(cd.Status),
		timeToPgTimestamptz(cd.CreatedAt),
		timePtrToPgTimestamptz(cd.AcceptedAt),
		timePtrToPgTimestamptz(cd.MaturesAt),
		timePtrToPgTimestamptz(cd.RedeemedAt),
	)

	return err
}

// GetByID retrieves a certificate by ID.
func (r *CDRepository) GetByID(ctx context.Context, id string) (*domain.CertificateDeposit, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+cdColumns+`
		FROM certificates
		WHERE id = $1`,
		id,
	)

	cd, err := scanCD(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCDNotFound
		}

		return nil, err
	}

	return cd, nil
}

// Update persists a certificate's state transition.
func (r *CDRepository) Update(ctx context.Context, tx usecase.Transaction, cd *domain.CertificateDeposit) error {
	_, err := unwrap(r.pool, tx).Exec(ctx, `
		UPDATE certificates
		SET status = $2, accepted_at = $3, matures_at = $4, redeemed_at = $5
		WHERE id = $1`,
		cd.ID,
		string(cd.Status),
		timePtrToPgTimestamptz(cd.AcceptedAt),
		timePtrToPgTimestamptz(cd.MaturesAt),
		timePtrToPgTimestamptz(cd.RedeemedAt),
	)

	return err
}

// ListByChild returns a child's certificates, newest first.
func (r *CDRepository) ListByChild(ctx context.Context, childID string) ([]*domain.CertificateDeposit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cdColumns+`
		FROM certificates
		WHERE child_id = $1
		ORDER BY created_at DESC, id`,
		childID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCDs(rows)
}

// ListMatured returns accepted certificates at or past maturity.
func (r *CDRepository) ListMatured(ctx context.Context, now time.Time) ([]*domain.CertificateDeposit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cdColumns+`
		FROM certificates
		WHERE status = $1 AND matures_at IS NOT NULL AND matures_at <= $2
		ORDER BY matures_at, id`,
		string(domain.CDAccepted),
		timeToPgTimestamptz(now),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCDs(rows)
}

func collectCDs(rows pgx.Rows) ([]*domain.CertificateDeposit, error) {
	var cds []*domain.CertificateDeposit
	for rows.Next() {
		cd, err := scanCD(rows)
		if err != nil {
			return nil, err
		}
		cds = append(cds, cd)
	}

	return cds, rows.Err()
}

func scanCD(row pgx.Row) (*domain.CertificateDeposit, error) {
	var (
		cd                               domain.CertificateDeposit
		status                           string
		amount, rate                     pgtype.Numeric
		acceptedAt, maturesAt, redeemedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&cd.ID,
		&cd.ChildID,
		&cd.ParentID,
		&amount,
		&rate,
		&cd.TermDays,
		&status,
		&cd.CreatedAt,
		&acceptedAt,
		&maturesAt,
		&redeemedAt,
	)
	if err != nil {
		return nil, err
	}

	cd.Status = domain.CDStatus(status)
	cd.Amount = numericToDecimal(amount)
	cd.InterestRate = numericToDecimal(rate)
	cd.AcceptedAt = pgTimestamptzToTimePtr(acceptedAt)
	cd.MaturesAt = pgTimestamptzToTimePtr(maturesAt)
	cd.RedeemedAt = pgTimestamptzToTimePtr(redeemedAt)

	return &cd, nil
}
