package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, child_id, principal_remaining, interest_rate, status,
	last_interest_applied, created_at, updated_at`

// Create persists a loan request.
func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO loans (`+loanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		loan.ID,
		loan.ChildID,
		decimalToNumeric(loan.PrincipalRemaining),
		decimalToNumeric(loan.InterestRate),
		string(loan.Status),
		timePtrToPgTimestamptz(loan.LastInterestApplied),
		timeToPgTimestamptz(loan.CreatedAt),
		timeToPgTimestamptz(loan.UpdatedAt),
	)

	return err
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE id = $1`,
		id,
	)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return loan, nil
}

// Update persists a loan's principal, status and checkpoint.
func (r *LoanRepository) Update(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	_, err := unwrap(r.pool, tx).Exec(ctx, `
		UPDATE loans
		SET principal_remaining = $2,
			interest_rate = $3,
			status = $4,
			last_interest_applied = $5,
			updated_at = $6
		WHERE id = $1`,
		loan.ID,
		decimalToNumeric(loan.PrincipalRemaining),
		decimalToNumeric(loan.InterestRate),
		string(loan.Status),
		timePtrToPgTimestamptz(loan.LastInterestApplied),
		timeToPgTimestamptz(loan.UpdatedAt),
	)

	return err
}

// ListByChild returns a child's loans, newest first.
func (r *LoanRepository) ListByChild(ctx context.Context, childID string) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE child_id = $1
		ORDER BY created_at DESC, id`,
		childID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLoans(rows)
}

// ListActive returns every loan currently accruing.
func (r *LoanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE status = $1
		ORDER BY id`,
		string(domain.LoanActive),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLoans(rows)
}

// CreateTransaction records accrued interest or a repayment against a loan.
func (r *LoanRepository) CreateTransaction(ctx context.Context, tx usecase.Transaction, ltx *domain.LoanTransaction) error {
	_, err := unwrap(r.pool, tx).Exec(ctx, `
		INSERT INTO loan_transactions (id, loan_id, type, amount, memo, tx_time)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ltx.ID,
		ltx.LoanID,
		ltx.Type,
		decimalToNumeric(ltx.Amount),
		ltx.Memo,
		timeToPgTimestamptz(ltx.Timestamp),
	)

	return err
}

// ListTransactions returns a loan's history in chronological order.
func (r *LoanRepository) ListTransactions(ctx context.Context, loanID string) ([]*domain.LoanTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, loan_id, type, amount, memo, tx_time
		FROM loan_transactions
		WHERE loan_id = $1
		ORDER BY tx_time, id`,
		loanID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*domain.LoanTransaction
	for rows.Next() {
		var (
			ltx    domain.LoanTransaction
			amount pgtype.Numeric
		)

		if err := rows.Scan(&ltx.ID, &ltx.LoanID, &ltx.Type, &amount, &ltx.Memo, &ltx.Timestamp); err != nil {
			return nil, err
		}

		ltx.Amount = numericToDecimal(amount)
		txs = append(txs, &ltx)
	}

	return txs, rows.Err()
}

func collectLoans(rows pgx.Rows) ([]*domain.Loan, error) {
	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		loan            domain.Loan
		status          string
		principal, rate pgtype.Numeric
		lastApplied     pgtype.Timestamptz
	)

	err := row.Scan(
		&loan.ID,
		&loan.ChildID,
		&principal,
		&rate,
		&status,
		&lastApplied,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	loan.Status = domain.LoanStatus(status)
	loan.PrincipalRemaining = numericToDecimal(principal)
	loan.InterestRate = numericToDecimal(rate)
	loan.LastInterestApplied = pgTimestamptzToTimePtr(lastApplied)

	return &loan, nil
}
